package display

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"peopledetect/internal/config"
	"peopledetect/internal/detection"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
	"peopledetect/internal/overlay"
	"peopledetect/internal/services/gate"
)

const (
	WindowTitle = "People detection"
	keyEscape   = 27
	fontScale   = 0.5
)

var (
	roiColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	textColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	black     = color.RGBA{R: 0, G: 0, B: 0, A: 0}
)

// Presenter draws the overlay and shows frames in a window. In headless mode
// nothing is shown and Show never reports an exit request.
type Presenter struct {
	window        *gocv.Window
	style         string
	targetClass   int
	minConfidence float64
	classNames    []string
	fallbackLabel string
	logger        *logger.Logger
}

func NewPresenter(cfg *config.Config, classNames []string, logger *logger.Logger) *Presenter {
	p := &Presenter{
		style:         cfg.Style,
		targetClass:   cfg.TargetClass,
		minConfidence: cfg.MinConfidence,
		classNames:    classNames,
		fallbackLabel: cfg.TargetLabel,
		logger:        logger,
	}
	if !cfg.Headless {
		p.window = gocv.NewWindow(WindowTitle)
	}
	return p
}

// Annotate draws timing, hints and the gate status, then marks every detection
// of the target class above the confidence threshold.
func (p *Presenter) Annotate(frame *gocv.Mat, detections []models.Detection, inference time.Duration, status gate.Status) error {
	texts := []struct {
		text   string
		origin image.Point
	}{
		{overlay.TimingText(inference), overlay.TimingOrigin},
		{overlay.ExitHint, overlay.ExitOrigin},
		{status.Message(), overlay.StatusOrigin},
	}
	for _, t := range texts {
		if err := gocv.PutText(frame, t.text, t.origin, gocv.FontHersheySimplex, fontScale, textColor, 1); err != nil {
			return fmt.Errorf("failed to draw text: %w", err)
		}
	}

	for _, d := range detection.Filter(detections, p.targetClass, p.minConfidence) {
		p.logger.Debug("Width: %.1f\tHeight: %.1f", d.Box.Width, d.Box.Height)

		if p.style == config.StyleBox {
			if err := gocv.Rectangle(frame, d.Box.Rect(), roiColor, 1); err != nil {
				return fmt.Errorf("failed to draw rectangle: %w", err)
			}
		} else {
			from, to := overlay.Marker(d.Box)
			gocv.Line(frame, from, to, roiColor, 1)
		}

		label := overlay.LabelText(detection.Label(p.classNames, d.ClassID, p.fallbackLabel), d.Confidence)
		size, baseline := gocv.GetTextSizeWithBaseline(label, gocv.FontHersheySimplex, fontScale, 1)
		if err := gocv.Rectangle(frame, overlay.LabelBackground(d.Box, size, baseline), roiColor, -1); err != nil {
			return fmt.Errorf("failed to draw label background: %w", err)
		}
		if err := gocv.PutText(frame, label, overlay.LabelOrigin(d.Box, size), gocv.FontHersheySimplex, fontScale, black, 1); err != nil {
			return fmt.Errorf("failed to draw label: %w", err)
		}
	}
	return nil
}

// Show displays frame and reports whether ESC was pressed.
func (p *Presenter) Show(frame gocv.Mat) bool {
	if p.window == nil {
		return false
	}
	p.window.IMShow(frame)
	return p.window.WaitKey(1) == keyEscape
}

// Hold keeps the last frame on screen until a key is pressed.
func (p *Presenter) Hold() {
	if p.window == nil {
		return
	}
	p.window.WaitKey(0)
}

// Encode returns frame as JPEG bytes.
func Encode(frame gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func (p *Presenter) Close() error {
	if p.window == nil {
		return nil
	}
	return p.window.Close()
}
