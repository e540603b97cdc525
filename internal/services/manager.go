package services

import (
	"context"
	"encoding/json"
	"time"

	"gocv.io/x/gocv"

	"peopledetect/internal/config"
	"peopledetect/internal/detection"
	"peopledetect/internal/dto"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
	"peopledetect/internal/services/ai"
	"peopledetect/internal/services/capture"
	"peopledetect/internal/services/display"
	"peopledetect/internal/services/gate"
	"peopledetect/internal/services/storage"
	"peopledetect/internal/services/websocket"
)

// Manager runs the frame loop: capture, detect, gate, annotate, show.
type Manager struct {
	source    *capture.FrameSource
	detector  *ai.DetectorService
	presenter *display.Presenter
	gate      *gate.Gate
	buffer    *storage.BufferService // nil when snapshots are disabled
	hub       *websocket.HubService  // nil without the live view server
	logger    *logger.Logger

	classNames    []string
	targetLabel   string
	targetClass   int
	minConfidence float64

	frames int
}

func NewManager(cfg *config.Config, source *capture.FrameSource, detector *ai.DetectorService, presenter *display.Presenter,
	g *gate.Gate, buffer *storage.BufferService, hub *websocket.HubService, classNames []string, logger *logger.Logger) *Manager {
	return &Manager{
		source:        source,
		detector:      detector,
		presenter:     presenter,
		gate:          g,
		buffer:        buffer,
		hub:           hub,
		logger:        logger,
		classNames:    classNames,
		targetLabel:   cfg.TargetLabel,
		targetClass:   cfg.TargetClass,
		minConfidence: cfg.MinConfidence,
	}
}

// Run processes frames until the stream ends, ESC is pressed or ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	m.logger.Info("🎬 Processing frames from %s", m.source.Name())
	defer func() {
		m.logger.Info("🛑 Frame loop stopped after %d frames", m.frames)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ok, err := m.source.Next(&frame)
		if err != nil {
			m.logger.Error("Failed to read frame: %v", err)
			continue
		}
		if !ok {
			m.logger.Info("End of stream")
			m.presenter.Hold()
			return nil
		}
		m.frames++

		if m.processFrame(&frame) {
			return nil
		}
	}
}

// processFrame handles one frame and reports whether the user asked to exit.
func (m *Manager) processFrame(frame *gocv.Mat) bool {
	// Status is read before evaluation so the frame that triggers still shows "ready".
	status := m.gate.Status()

	detections, err := m.detector.Detect(*frame)
	if err != nil {
		m.logger.Error("Detection failed: %v", err)
		return m.presenter.Show(*frame)
	}

	decision := m.gate.Evaluate(detections)
	if decision.Kind == gate.Triggered {
		m.logger.Info("Trigger %s: class %d, confidence %.2f",
			decision.Request.ID, decision.Request.Trigger.ClassID, decision.Request.Trigger.Confidence)
	}

	if err := m.presenter.Annotate(frame, detections, m.detector.InferenceTime(), status); err != nil {
		m.logger.Warning("Failed to annotate frame: %v", err)
	}

	var encoded []byte
	if decision.Kind == gate.Triggered && m.buffer != nil {
		encoded = m.encode(*frame)
		if encoded != nil {
			m.buffer.AddImage(storage.SnapshotName(decision.Request.At, decision.Request.ID), encoded)
		}
	}

	if m.hub != nil && m.hub.GetClientCount() > 0 {
		if encoded == nil {
			encoded = m.encode(*frame)
		}
		m.broadcast(encoded, detections, status, decision)
	}

	return m.presenter.Show(*frame)
}

func (m *Manager) encode(frame gocv.Mat) []byte {
	data, err := display.Encode(frame)
	if err != nil {
		m.logger.Warning("%v", err)
		return nil
	}
	return data
}

func (m *Manager) broadcast(image []byte, detections []models.Detection, status gate.Status, decision gate.Decision) {
	frame := dto.ViewFrame{
		Timestamp:   time.Now(),
		Status:      status.String(),
		Message:     status.Message(),
		InferenceMs: float64(m.detector.InferenceTime()) / float64(time.Millisecond),
		Image:       image,
	}
	for _, d := range detection.Filter(detections, m.targetClass, m.minConfidence) {
		label := detection.Label(m.classNames, d.ClassID, m.targetLabel)
		frame.Detections = append(frame.Detections, dto.NewDetectionResult(d, label))
	}
	if decision.Kind == gate.Triggered {
		frame.RequestID = decision.Request.ID
	}

	msg, err := json.Marshal(frame)
	if err != nil {
		m.logger.Error("Failed to encode view frame: %v", err)
		return
	}
	if !m.hub.Broadcast(msg) {
		m.logger.Debug("Viewers lagging, frame %d dropped", m.frames)
	}
}
