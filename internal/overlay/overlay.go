// Package overlay computes the text and geometry drawn over each frame.
package overlay

import (
	"fmt"
	"image"
	"time"

	"peopledetect/internal/models"
)

// Fixed text anchors in frame coordinates.
var (
	TimingOrigin = image.Pt(20, 20)
	ExitOrigin   = image.Pt(20, 200)
	StatusOrigin = image.Pt(20, 220)
)

const ExitHint = "Press ESC to exit"

// TimingText reports frames per second and the inference time of the last forward pass.
func TimingText(inference time.Duration) string {
	ms := float64(inference) / float64(time.Millisecond)
	fps := 0.0
	if ms > 0 {
		fps = 1000 / ms
	}
	return fmt.Sprintf("FPS: %.2f ; Time: %.2f ms", fps, ms)
}

// LabelText is the caption drawn at the top-left corner of a detection.
func LabelText(label string, confidence float64) string {
	return fmt.Sprintf("%s: %.2f", label, confidence)
}

// LabelBackground is the filled rectangle behind a caption of the given text
// size, anchored at the detection's top-left corner.
func LabelBackground(box models.Box, textSize image.Point, baseline int) image.Rectangle {
	p1 := box.Rect().Min
	return image.Rectangle{Min: p1, Max: p1.Add(image.Pt(textSize.X, textSize.Y+baseline))}
}

// LabelOrigin is where the caption baseline starts.
func LabelOrigin(box models.Box, textSize image.Point) image.Point {
	return box.Rect().Min.Add(image.Pt(0, textSize.Y))
}

// Marker returns the segment drawn in line style, from the top-left corner to the center.
func Marker(box models.Box) (image.Point, image.Point) {
	return box.Rect().Min, box.Center()
}
