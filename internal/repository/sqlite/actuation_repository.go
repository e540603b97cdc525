package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"peopledetect/internal/models"
)

const actuationColumns = `id, requested_at, finished_at, class_id, confidence,
	center_x, center_y, width, height, outcome, error, snapshot`

// ActuationRepository implements repository.ActuationRepository for SQLite.
type ActuationRepository struct {
	db *DB
}

// NewActuationRepository creates a new SQLite actuation repository.
func NewActuationRepository(db *DB) *ActuationRepository {
	return &ActuationRepository{db: db}
}

// Insert adds a new actuation record to the database.
func (r *ActuationRepository) Insert(a *models.Actuation) error {
	r.db.Lock()
	defer r.db.Unlock()

	outcome := a.Outcome
	if outcome == "" {
		outcome = models.OutcomePending
	}

	var finishedAt interface{}
	if a.FinishedAt != nil {
		finishedAt = a.FinishedAt.UTC()
	}

	_, err := r.db.Conn().Exec(`
		INSERT INTO actuations (`+actuationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.RequestedAt.UTC(), finishedAt, a.ClassID, a.Confidence,
		a.Box.CenterX, a.Box.CenterY, a.Box.Width, a.Box.Height,
		string(outcome), a.Error, a.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert actuation: %w", err)
	}
	return nil
}

// Complete records how a pending actuation ended.
func (r *ActuationRepository) Complete(id string, outcome models.Outcome, errMsg string, finishedAt time.Time) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		UPDATE actuations SET outcome = ?, error = ?, finished_at = ? WHERE id = ?
	`, string(outcome), errMsg, finishedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete actuation: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete actuation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("actuation %s not found", id)
	}
	return nil
}

// GetByID retrieves an actuation by its ID.
func (r *ActuationRepository) GetByID(id string) (*models.Actuation, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`SELECT `+actuationColumns+` FROM actuations WHERE id = ?`, id)
	a, err := scanActuation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get actuation: %w", err)
	}
	return a, nil
}

// Recent returns the newest actuations first.
func (r *ActuationRepository) Recent(limit int) ([]models.Actuation, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Conn().Query(`
		SELECT `+actuationColumns+` FROM actuations
		ORDER BY requested_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query actuations: %w", err)
	}
	defer rows.Close()

	var actuations []models.Actuation
	for rows.Next() {
		a, err := scanActuation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actuation: %w", err)
		}
		actuations = append(actuations, *a)
	}
	return actuations, rows.Err()
}

// Stats returns counts per outcome and the time of the latest request.
func (r *ActuationRepository) Stats() (*models.ActuationStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &models.ActuationStats{PerOutcome: make(map[models.Outcome]int)}

	rows, err := r.db.Conn().Query(`SELECT outcome, COUNT(*) FROM actuations GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats.PerOutcome[models.Outcome(outcome)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		var last time.Time
		err := r.db.Conn().QueryRow(`SELECT requested_at FROM actuations ORDER BY requested_at DESC LIMIT 1`).Scan(&last)
		if err != nil {
			return nil, fmt.Errorf("failed to query last actuation: %w", err)
		}
		stats.LastRequestedAt = &last
	}
	return stats, nil
}

// DeleteBefore removes records requested before t.
func (r *ActuationRepository) DeleteBefore(t time.Time) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`DELETE FROM actuations WHERE requested_at < ?`, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete actuations: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActuation(s scanner) (*models.Actuation, error) {
	var a models.Actuation
	var finishedAt sql.NullTime
	var outcome string
	err := s.Scan(&a.ID, &a.RequestedAt, &finishedAt, &a.ClassID, &a.Confidence,
		&a.Box.CenterX, &a.Box.CenterY, &a.Box.Width, &a.Box.Height,
		&outcome, &a.Error, &a.Snapshot)
	if err != nil {
		return nil, err
	}
	a.Outcome = models.Outcome(outcome)
	if finishedAt.Valid {
		t := finishedAt.Time
		a.FinishedAt = &t
	}
	return &a, nil
}
