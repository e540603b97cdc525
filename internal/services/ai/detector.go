package ai

import (
	"fmt"
	"image"
	"os"
	"time"

	"gocv.io/x/gocv"

	"peopledetect/internal/config"
	"peopledetect/internal/detection"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
)

const (
	inputLayer  = "data"
	outputLayer = "detection_out"
)

// DetectorService runs the Darknet network over frames.
type DetectorService struct {
	net       gocv.Net
	inputSize image.Point
	inference time.Duration
	logger    *logger.Logger
}

// NewDetectorService loads the network. Any failure wraps models.ErrModelLoad.
func NewDetectorService(cfg *config.Config, logger *logger.Logger) (*DetectorService, error) {
	if _, err := os.Stat(cfg.ModelConfig); err != nil {
		return nil, fmt.Errorf("%w: cfg-file %s: %v", models.ErrModelLoad, cfg.ModelConfig, err)
	}
	if _, err := os.Stat(cfg.ModelWeights); err != nil {
		return nil, fmt.Errorf("%w: weights-file %s: %v", models.ErrModelLoad, cfg.ModelWeights, err)
	}

	net := gocv.ReadNetFromDarknet(cfg.ModelConfig, cfg.ModelWeights)
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("%w: can't load network from cfg-file %s and weights-file %s",
			models.ErrModelLoad, cfg.ModelConfig, cfg.ModelWeights)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("%w: failed to set preferable backend or target", models.ErrModelLoad)
	}

	logger.Info("Detection network loaded from %s", cfg.ModelWeights)
	return &DetectorService{
		net:       net,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
		logger:    logger,
	}, nil
}

// Detect runs one forward pass and decodes every row of the output. Boxes are
// in the frame's pixel coordinates.
func (s *DetectorService) Detect(frame gocv.Mat) ([]models.Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("frame is empty")
	}

	blob := gocv.BlobFromImage(frame, 1.0/255.0, s.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.net.SetInput(blob, inputLayer)
	output := s.net.Forward(outputLayer)
	defer output.Close()

	if output.Empty() {
		return nil, fmt.Errorf("network returned no output")
	}

	ticks := s.net.GetPerfProfile()
	s.inference = time.Duration(ticks / gocv.GetTickFrequency() * float64(time.Second))

	return detection.Decode(&output, frame.Cols(), frame.Rows()), nil
}

// InferenceTime is the duration of the last forward pass.
func (s *DetectorService) InferenceTime() time.Duration {
	return s.inference
}

func (s *DetectorService) Close() error {
	return s.net.Close()
}
