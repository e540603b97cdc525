package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"peopledetect/internal/config"
	"peopledetect/internal/detection"
	"peopledetect/internal/logger"
	"peopledetect/internal/repository/sqlite"
	"peopledetect/internal/routes"
	"peopledetect/internal/services"
	"peopledetect/internal/services/actuator"
	"peopledetect/internal/services/ai"
	"peopledetect/internal/services/capture"
	"peopledetect/internal/services/display"
	"peopledetect/internal/services/gate"
	"peopledetect/internal/services/journal"
	"peopledetect/internal/services/mqtt"
	"peopledetect/internal/services/storage"
	"peopledetect/internal/services/websocket"
)

const (
	statusPollInterval = 250 * time.Millisecond
	shutdownTimeout    = 5 * time.Second
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	link      *actuator.Link
	task      actuator.ToggleTask
	detector  *ai.DetectorService
	source    *capture.FrameSource
	presenter *display.Presenter
	db        *sqlite.DB
	repo      *sqlite.ActuationRepository
	publisher *mqtt.Publisher
	buffer    *storage.BufferService
	hub       *websocket.HubService
	gate      *gate.Gate
	manager   *services.Manager
}

// NewApp connects the actuator, loads the network and opens the frame source,
// in that order. Errors wrap the models sentinels so the caller can map them
// to exit codes. Everything opened before a failure is released.
func NewApp(ctx context.Context, cfg *config.Config, logger *logger.Logger) (a *App, err error) {
	a = &App{
		config: cfg,
		logger: logger,
		link:   actuator.NewLink(cfg, logger),
		task:   actuator.NewToggleTask(cfg),
	}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	handle, err := a.link.Connect(ctx)
	if err != nil {
		return a, err
	}
	runner := actuator.NewRunner(handle, a.task, logger)

	a.detector, err = ai.NewDetectorService(cfg, logger)
	if err != nil {
		runner.Close()
		return a, err
	}

	a.source, err = capture.Open(cfg, logger)
	if err != nil {
		runner.Close()
		return a, err
	}

	classNames, err := detection.LoadClassNames(cfg.ClassNames)
	if err != nil {
		logger.Warning("Class names not loaded, using %q: %v", cfg.TargetLabel, err)
	}

	a.db, err = sqlite.New(cfg.DatabasePath)
	if err != nil {
		runner.Close()
		return a, fmt.Errorf("failed to open journal: %w", err)
	}
	a.repo = sqlite.NewActuationRepository(a.db)

	var publisher journal.Publisher
	if cfg.MQTTBroker != "" {
		p, perr := mqtt.NewPublisher(cfg, logger)
		if perr != nil {
			logger.Warning("MQTT disabled: %v", perr)
		} else {
			a.publisher = p
			publisher = p
		}
	}

	if cfg.SnapshotLimit > 0 {
		a.buffer = storage.NewBufferService(cfg.SnapshotDirectory, cfg.SnapshotLimit, logger)
	}
	if cfg.HTTPPort > 0 {
		a.hub = websocket.NewHubService(logger)
	}

	recorder := journal.NewRecorder(a.repo, publisher, a.buffer != nil, logger)
	a.gate = gate.New(gate.Config{
		TargetClass:   cfg.TargetClass,
		MinConfidence: cfg.MinConfidence,
		Cooldown:      cfg.ActuatorCooldown,
	}, runner, recorder.Hooks(), logger)

	a.presenter = display.NewPresenter(cfg, classNames, logger)
	a.manager = services.NewManager(cfg, a.source, a.detector, a.presenter, a.gate, a.buffer, a.hub, classNames, logger)
	return a, nil
}

// Run starts the background services and blocks in the frame loop.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	start := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if a.buffer != nil {
		start(func() { a.buffer.Run(ctx, a.config.SnapshotFlushInterval) })
	}

	var server *http.Server
	if a.hub != nil {
		start(func() { a.hub.Run(ctx) })

		server = &http.Server{
			Addr:    fmt.Sprintf(":%d", a.config.HTTPPort),
			Handler: routes.SetupRoutes(a.config, a.gate, a.repo, a.hub, a.logger),
		}
		start(func() {
			a.logger.Info("🚀 Live view on http://localhost:%d/api/view", a.config.HTTPPort)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("HTTP server failed: %v", err)
			}
		})
	}

	if a.publisher != nil {
		start(func() {
			mqtt.WatchStatus(ctx, a.gate, statusPollInterval, a.publisher.PublishStatus, func(err error) {
				a.logger.Warning("Failed to publish status: %v", err)
			})
		})
	}

	if a.config.ActuatorReconnect > 0 {
		start(func() { a.reconnect(ctx) })
	}

	err := a.manager.Run(ctx)
	cancel()

	if server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		if serr := server.Shutdown(shutdownCtx); serr != nil {
			a.logger.Warning("HTTP server shutdown: %v", serr)
		}
		done()
	}
	wg.Wait()
	return err
}

// reconnect re-runs port discovery while the gate has no actuator.
func (a *App) reconnect(ctx context.Context) {
	ticker := time.NewTicker(a.config.ActuatorReconnect)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if a.gate.Status() != gate.StatusUnavailable {
			continue
		}

		handle, err := a.link.Connect(ctx)
		if err != nil {
			a.logger.Debug("Reconnect failed: %v", err)
			continue
		}
		runner := actuator.NewRunner(handle, a.task, a.logger)
		if err := a.gate.Attach(runner); err != nil {
			a.logger.Warning("Reconnected actuator not attached: %v", err)
			runner.Close()
		}
	}
}

// Close releases everything in reverse order of use. The gate is closed first
// so an in-flight actuation finishes before its handle is released.
func (a *App) Close() {
	if a.gate != nil {
		if err := a.gate.Close(); err != nil {
			a.logger.Warning("Failed to release actuator: %v", err)
		}
	}
	if a.presenter != nil {
		a.presenter.Close()
	}
	if a.source != nil {
		a.source.Close()
	}
	if a.detector != nil {
		a.detector.Close()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.buffer != nil {
		a.buffer.FlushImages()
	}
	if a.db != nil {
		a.db.Close()
	}
}
