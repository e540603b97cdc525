package capture

import (
	"fmt"

	"gocv.io/x/gocv"

	"peopledetect/internal/config"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
)

// FrameSource yields frames from a camera, a video file or a single image.
type FrameSource struct {
	capture *gocv.VideoCapture
	name    string
	logger  *logger.Logger
}

// Open opens cfg.Source, or the camera cfg.CameraDevice when no source is given.
// Failures wrap models.ErrCaptureOpen.
func Open(cfg *config.Config, logger *logger.Logger) (*FrameSource, error) {
	if cfg.Source == "" {
		capture, err := gocv.OpenVideoCapture(cfg.CameraDevice)
		if err != nil {
			return nil, fmt.Errorf("%w: couldn't find camera %d: %v", models.ErrCaptureOpen, cfg.CameraDevice, err)
		}
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.FrameWidth))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.FrameHeight))
		if !capture.IsOpened() {
			capture.Close()
			return nil, fmt.Errorf("%w: couldn't find camera %d", models.ErrCaptureOpen, cfg.CameraDevice)
		}
		logger.Info("Capturing from camera %d", cfg.CameraDevice)
		return &FrameSource{capture: capture, name: fmt.Sprintf("camera %d", cfg.CameraDevice), logger: logger}, nil
	}

	capture, err := gocv.OpenVideoCapture(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't open image or video %s: %v", models.ErrCaptureOpen, cfg.Source, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: couldn't open image or video %s", models.ErrCaptureOpen, cfg.Source)
	}
	logger.Info("Reading frames from %s", cfg.Source)
	return &FrameSource{capture: capture, name: cfg.Source, logger: logger}, nil
}

// Next reads the following frame into frame. It returns false at the end of
// the stream. Four channel frames are converted to BGR.
func (s *FrameSource) Next(frame *gocv.Mat) (bool, error) {
	if !s.capture.Read(frame) || frame.Empty() {
		return false, nil
	}
	if frame.Channels() == 4 {
		if err := gocv.CvtColor(*frame, frame, gocv.ColorBGRAToBGR); err != nil {
			return true, fmt.Errorf("failed to convert BGRA frame: %w", err)
		}
	}
	return true, nil
}

func (s *FrameSource) Name() string {
	return s.name
}

func (s *FrameSource) Close() error {
	return s.capture.Close()
}
