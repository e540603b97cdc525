// Package gate debounces the per-frame detection stream into single,
// non-overlapping actuation requests.
//
// The gate is IDLE or BUSY. In IDLE, the first detection of the target class
// above the confidence threshold issues one Request and starts one actuation on
// the attached Actuator. The gate stays BUSY until that actuation returns and the
// cooldown has elapsed; detections seen meanwhile are not evaluated. A transport
// failure detaches and closes the actuator, after which triggers are reported as
// unavailable until Attach is called with a new one.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"peopledetect/internal/detection"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
)

// Actuator performs the hardware action for a request and owns the connection
// it runs on.
type Actuator interface {
	Actuate(ctx context.Context, req Request) error
	Close() error
}

// Request is one logical "fire now" issued by the gate.
type Request struct {
	ID      string
	At      time.Time
	Trigger models.Detection
}

// Completion reports how an actuation ended.
type Completion struct {
	Request    Request
	FinishedAt time.Time
	Err        error
	// Released is set when the failure detached and closed the actuator.
	Released bool
}

// Hooks are called from the actuation goroutine, never from Evaluate, so they
// may block without stalling the frame loop. Any of them may be nil.
type Hooks struct {
	OnRequest  func(Request)
	OnComplete func(Completion)
	// OnUnavailable is called for a qualifying detection while no actuator is
	// attached, at most once per cooldown period.
	OnUnavailable func(models.Detection, time.Time)
}

type Config struct {
	TargetClass   int
	MinConfidence float64
	Cooldown      time.Duration
}

// Stats are counters since the gate was created.
type Stats struct {
	Requests    int `json:"requests"`
	Completed   int `json:"completed"`
	Failed      int `json:"failed"`
	Unavailable int `json:"unavailable"`
}

type Gate struct {
	cfg    Config
	hooks  Hooks
	logger *logger.Logger
	now    func() time.Time

	mu              sync.Mutex
	busy            bool
	closed          bool
	actuator        Actuator
	stats           Stats
	lastUnavailable time.Time

	tasks   errgroup.Group
	hookWG  sync.WaitGroup
	closing chan struct{}
	once    sync.Once
}

// New creates an IDLE gate. a may be nil, in which case the gate starts unavailable.
func New(cfg Config, a Actuator, hooks Hooks, logger *logger.Logger) *Gate {
	g := &Gate{
		cfg:      cfg,
		hooks:    hooks,
		logger:   logger,
		now:      time.Now,
		actuator: a,
		closing:  make(chan struct{}),
	}
	g.tasks.SetLimit(1)
	return g
}

// Evaluate applies one frame's detections. It never blocks on the actuation.
func (g *Gate) Evaluate(detections []models.Detection) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy {
		return Decision{Kind: Busy}
	}

	trigger, ok := g.firstQualifying(detections)
	if !ok {
		return Decision{Kind: Ignored}
	}

	if g.actuator == nil || g.closed {
		g.stats.Unavailable++
		now := g.now()
		if !g.closed && g.hooks.OnUnavailable != nil && (g.lastUnavailable.IsZero() || now.Sub(g.lastUnavailable) >= g.cfg.Cooldown) {
			g.lastUnavailable = now
			g.hookWG.Add(1)
			go func() {
				defer g.hookWG.Done()
				g.hooks.OnUnavailable(trigger, now)
			}()
		}
		return Decision{Kind: Unavailable}
	}

	req := Request{ID: uuid.NewString(), At: g.now(), Trigger: trigger}
	a := g.actuator
	if !g.tasks.TryGo(func() error {
		g.run(a, req)
		return nil
	}) {
		// The previous goroutine cleared busy but has not returned yet.
		return Decision{Kind: Busy}
	}
	g.busy = true
	g.stats.Requests++
	return Decision{Kind: Triggered, Request: req}
}

// first sufficient evidence wins, no ranking among qualifying detections
func (g *Gate) firstQualifying(detections []models.Detection) (models.Detection, bool) {
	for _, d := range detections {
		if detection.Qualifies(d, g.cfg.TargetClass, g.cfg.MinConfidence) {
			return d, true
		}
	}
	return models.Detection{}, false
}

func (g *Gate) run(a Actuator, req Request) {
	if g.hooks.OnRequest != nil {
		g.hooks.OnRequest(req)
	}

	err := g.actuate(a, req)
	c := Completion{Request: req, FinishedAt: g.now(), Err: err}
	if err != nil {
		g.logger.Error("Actuation %s failed: %v", req.ID, err)
		if errors.Is(err, models.ErrTransport) || errors.Is(err, models.ErrNotOpen) {
			g.detach(a)
			c.Released = true
		}
	} else {
		g.logger.Info("Actuation %s finished", req.ID)
	}

	g.mu.Lock()
	if err != nil {
		g.stats.Failed++
	} else {
		g.stats.Completed++
	}
	g.mu.Unlock()

	if g.hooks.OnComplete != nil {
		g.hooks.OnComplete(c)
	}

	g.cooldown()

	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// actuate converts a panic in the actuator into an error so the gate always
// observes exactly one completion.
func (g *Gate) actuate(a Actuator, req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actuator panic: %v", r)
		}
	}()
	return a.Actuate(context.Background(), req)
}

func (g *Gate) cooldown() {
	if g.cfg.Cooldown <= 0 {
		return
	}
	timer := time.NewTimer(g.cfg.Cooldown)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-g.closing:
	}
}

func (g *Gate) detach(a Actuator) {
	g.mu.Lock()
	if g.actuator == a {
		g.actuator = nil
	}
	g.mu.Unlock()

	if err := a.Close(); err != nil {
		g.logger.Warning("Failed to release actuator: %v", err)
	}
	g.logger.Warning("Actuator released, no actuation possible until reconnect")
}

// Attach installs a new actuator on an unavailable gate.
func (g *Gate) Attach(a Actuator) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return errors.New("gate is closed")
	}
	if g.actuator != nil {
		return errors.New("gate already has an actuator")
	}
	g.actuator = a
	g.lastUnavailable = time.Time{}
	g.logger.Info("Actuator attached")
	return nil
}

// Status reports the interlock state for display.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.busy:
		return StatusBusy
	case g.actuator == nil || g.closed:
		return StatusUnavailable
	default:
		return StatusReady
	}
}

// Stats returns a snapshot of the counters.
func (g *Gate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Close cuts any pending cooldown short, waits for the in-flight actuation and
// then releases the actuator. Later triggers are reported as unavailable.
func (g *Gate) Close() error {
	var err error
	g.once.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()

		close(g.closing)
		g.tasks.Wait()
		g.hookWG.Wait()

		g.mu.Lock()
		a := g.actuator
		g.actuator = nil
		g.mu.Unlock()

		if a != nil {
			err = a.Close()
		}
	})
	return err
}
