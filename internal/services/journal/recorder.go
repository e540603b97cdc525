// Package journal records gate activity in the actuation repository and
// forwards it to an optional event publisher.
package journal

import (
	"time"

	"github.com/google/uuid"

	"peopledetect/internal/logger"
	"peopledetect/internal/models"
	"peopledetect/internal/repository"
	"peopledetect/internal/services/gate"
	"peopledetect/internal/services/storage"
)

// Publisher receives journal records as they are written.
type Publisher interface {
	PublishActuation(a models.Actuation) error
}

type Recorder struct {
	repo      repository.ActuationRepository
	publisher Publisher
	snapshots bool
	logger    *logger.Logger
}

// NewRecorder creates a recorder. publisher may be nil. When snapshots is set,
// every request is recorded with the snapshot name the frame loop stores it under.
func NewRecorder(repo repository.ActuationRepository, publisher Publisher, snapshots bool, logger *logger.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		publisher: publisher,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Hooks returns the gate hooks that feed this recorder.
func (r *Recorder) Hooks() gate.Hooks {
	return gate.Hooks{
		OnRequest:     r.RecordRequest,
		OnComplete:    r.RecordCompletion,
		OnUnavailable: r.RecordUnavailable,
	}
}

func (r *Recorder) RecordRequest(req gate.Request) {
	a := models.Actuation{
		ID:          req.ID,
		RequestedAt: req.At,
		ClassID:     req.Trigger.ClassID,
		Confidence:  req.Trigger.Confidence,
		Box:         req.Trigger.Box,
		Outcome:     models.OutcomePending,
	}
	if r.snapshots {
		a.Snapshot = storage.SnapshotName(req.At, req.ID)
	}

	if err := r.repo.Insert(&a); err != nil {
		r.logger.Error("Failed to journal request %s: %v", req.ID, err)
	}
	r.publish(a)
}

func (r *Recorder) RecordCompletion(c gate.Completion) {
	outcome, errMsg := Outcome(c)
	if err := r.repo.Complete(c.Request.ID, outcome, errMsg, c.FinishedAt); err != nil {
		r.logger.Error("Failed to journal completion %s: %v", c.Request.ID, err)
	}

	finished := c.FinishedAt
	a := models.Actuation{
		ID:          c.Request.ID,
		RequestedAt: c.Request.At,
		FinishedAt:  &finished,
		ClassID:     c.Request.Trigger.ClassID,
		Confidence:  c.Request.Trigger.Confidence,
		Box:         c.Request.Trigger.Box,
		Outcome:     outcome,
		Error:       errMsg,
	}
	if r.snapshots {
		a.Snapshot = storage.SnapshotName(c.Request.At, c.Request.ID)
	}
	r.publish(a)
}

func (r *Recorder) RecordUnavailable(d models.Detection, at time.Time) {
	a := models.Actuation{
		ID:          uuid.NewString(),
		RequestedAt: at,
		FinishedAt:  &at,
		ClassID:     d.ClassID,
		Confidence:  d.Confidence,
		Box:         d.Box,
		Outcome:     models.OutcomeUnavailable,
		Error:       models.ErrConnection.Error(),
	}
	if err := r.repo.Insert(&a); err != nil {
		r.logger.Error("Failed to journal unavailable trigger: %v", err)
	}
	r.publish(a)
}

func (r *Recorder) publish(a models.Actuation) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishActuation(a); err != nil {
		r.logger.Warning("Failed to publish actuation %s: %v", a.ID, err)
	}
}

// Outcome maps a completion to its journal outcome and error text.
func Outcome(c gate.Completion) (models.Outcome, string) {
	if c.Err == nil {
		return models.OutcomeDone, ""
	}
	return models.OutcomeFailed, c.Err.Error()
}
