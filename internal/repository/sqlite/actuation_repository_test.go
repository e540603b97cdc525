package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"peopledetect/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "data", "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should exist")
	}
	return db
}

func TestDatabase_Migration(t *testing.T) {
	db := setupTestDB(t)

	var count int
	err := db.Conn().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='actuations'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query sqlite_master: %v", err)
	}
	if count != 1 {
		t.Error("Actuations table should exist")
	}
}

func TestActuationRepository_InsertAndComplete(t *testing.T) {
	repo := NewActuationRepository(setupTestDB(t))

	requested := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := &models.Actuation{
		ID:          "a-1",
		RequestedAt: requested,
		ClassID:     14,
		Confidence:  0.91,
		Box:         models.Box{CenterX: 160, CenterY: 120, Width: 40, Height: 80},
		Snapshot:    "snap.jpg",
	}
	if err := repo.Insert(a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := repo.GetByID("a-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected actuation, got nil")
	}
	if got.Outcome != models.OutcomePending {
		t.Errorf("Expected pending outcome, got %s", got.Outcome)
	}
	if got.FinishedAt != nil {
		t.Error("Pending actuation should have no finish time")
	}
	if got.Box.Width != 40 || got.Snapshot != "snap.jpg" {
		t.Errorf("Unexpected record: %+v", got)
	}

	finished := requested.Add(6 * time.Second)
	if err := repo.Complete("a-1", models.OutcomeFailed, "transport lost", finished); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	got, _ = repo.GetByID("a-1")
	if got.Outcome != models.OutcomeFailed || got.Error != "transport lost" {
		t.Errorf("Unexpected outcome: %s %q", got.Outcome, got.Error)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(finished) {
		t.Errorf("Expected finish time %v, got %v", finished, got.FinishedAt)
	}
}

func TestActuationRepository_CompleteUnknown(t *testing.T) {
	repo := NewActuationRepository(setupTestDB(t))

	if err := repo.Complete("missing", models.OutcomeDone, "", time.Now()); err == nil {
		t.Error("Expected error for unknown id")
	}
}

func TestActuationRepository_GetByIDNotFound(t *testing.T) {
	repo := NewActuationRepository(setupTestDB(t))

	got, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing actuation")
	}
}

func TestActuationRepository_RecentAndStats(t *testing.T) {
	repo := NewActuationRepository(setupTestDB(t))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []models.Outcome{models.OutcomeDone, models.OutcomeDone, models.OutcomeFailed, models.OutcomeUnavailable}
	for i, o := range outcomes {
		err := repo.Insert(&models.Actuation{
			ID:          string(rune('a' + i)),
			RequestedAt: base.Add(time.Duration(i) * time.Minute),
			ClassID:     14,
			Outcome:     o,
		})
		if err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	recent, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recent))
	}
	if recent[0].ID != "d" || recent[1].ID != "c" {
		t.Errorf("Expected newest first, got %s, %s", recent[0].ID, recent[1].ID)
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("Expected 4 total, got %d", stats.Total)
	}
	if stats.PerOutcome[models.OutcomeDone] != 2 || stats.PerOutcome[models.OutcomeUnavailable] != 1 {
		t.Errorf("Unexpected per outcome counts: %v", stats.PerOutcome)
	}
	if stats.LastRequestedAt == nil || !stats.LastRequestedAt.Equal(base.Add(3*time.Minute)) {
		t.Errorf("Unexpected last request time: %v", stats.LastRequestedAt)
	}

	n, err := repo.DeleteBefore(base.Add(2 * time.Minute))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deleted, got %d", n)
	}
}

func TestActuationRepository_EmptyStats(t *testing.T) {
	repo := NewActuationRepository(setupTestDB(t))

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 0 || stats.LastRequestedAt != nil {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
}
