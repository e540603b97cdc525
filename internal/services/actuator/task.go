package actuator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"peopledetect/internal/config"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
	"peopledetect/internal/services/gate"
)

// ToggleTask flips one output pin a fixed number of times at a fixed interval.
// Each step reads the pin and writes the opposite level.
type ToggleTask struct {
	Pin      int
	Toggles  int
	Interval time.Duration
}

func NewToggleTask(cfg *config.Config) ToggleTask {
	return ToggleTask{
		Pin:      cfg.ActuatorPin,
		Toggles:  cfg.ActuatorToggles,
		Interval: cfg.ActuatorInterval,
	}
}

// Run performs the sequence on h. It returns after Toggles steps or on the
// first error.
func (t ToggleTask) Run(ctx context.Context, h Handle) error {
	if !h.Ready() {
		return fmt.Errorf("toggle pin %d: %w", t.Pin, models.ErrNotOpen)
	}
	if err := h.SetPinMode(t.Pin, ModeOutput); err != nil {
		return err
	}

	for i := 0; i < t.Toggles; i++ {
		level, err := h.DigitalRead(t.Pin)
		if err != nil {
			return err
		}
		if err := h.DigitalWrite(t.Pin, level.Invert()); err != nil {
			return err
		}
		if err := sleep(ctx, t.Interval); err != nil {
			return err
		}
	}
	return nil
}

// Runner binds a task to the handle it runs on. It implements gate.Actuator.
type Runner struct {
	handle Handle
	task   ToggleTask
	logger *logger.Logger
	once   sync.Once
	err    error
}

func NewRunner(h Handle, task ToggleTask, logger *logger.Logger) *Runner {
	return &Runner{handle: h, task: task, logger: logger}
}

func (r *Runner) Actuate(ctx context.Context, req gate.Request) error {
	r.logger.Info("Actuation %s: toggling pin %d %d times (confidence %.2f)",
		req.ID, r.task.Pin, r.task.Toggles, req.Trigger.Confidence)
	return r.task.Run(ctx, r.handle)
}

// Close releases the handle exactly once.
func (r *Runner) Close() error {
	r.once.Do(func() {
		r.err = r.handle.Close()
	})
	return r.err
}
