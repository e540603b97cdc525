package overlay

import (
	"image"
	"testing"
	"time"

	"peopledetect/internal/models"
)

func TestTimingText(t *testing.T) {
	tests := []struct {
		inference time.Duration
		want      string
	}{
		{50 * time.Millisecond, "FPS: 20.00 ; Time: 50.00 ms"},
		{0, "FPS: 0.00 ; Time: 0.00 ms"},
	}
	for _, tt := range tests {
		if got := TimingText(tt.inference); got != tt.want {
			t.Errorf("TimingText(%v) = %q, want %q", tt.inference, got, tt.want)
		}
	}
}

func TestLabelText(t *testing.T) {
	if got := LabelText("Person", 0.8765); got != "Person: 0.88" {
		t.Errorf("LabelText = %q", got)
	}
}

func TestLabelGeometry(t *testing.T) {
	box := models.Box{CenterX: 100, CenterY: 100, Width: 40, Height: 60}
	size := image.Pt(70, 12)

	bg := LabelBackground(box, size, 4)
	if bg != image.Rect(80, 70, 150, 86) {
		t.Errorf("LabelBackground = %v", bg)
	}
	if o := LabelOrigin(box, size); o != image.Pt(80, 82) {
		t.Errorf("LabelOrigin = %v", o)
	}

	from, to := Marker(box)
	if from != image.Pt(80, 70) || to != image.Pt(100, 100) {
		t.Errorf("Marker = %v -> %v", from, to)
	}
}
