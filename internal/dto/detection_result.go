package dto

import "peopledetect/internal/models"

// DetectionResult is a detection as shown to live view clients.
type DetectionResult struct {
	Label      string  `json:"label"`
	ClassID    int     `json:"classId"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// NewDetectionResult converts d into pixel coordinates with the given label.
func NewDetectionResult(d models.Detection, label string) DetectionResult {
	r := d.Box.Rect()
	return DetectionResult{
		Label:      label,
		ClassID:    d.ClassID,
		Confidence: d.Confidence,
		X:          r.Min.X,
		Y:          r.Min.Y,
		Width:      r.Dx(),
		Height:     r.Dy(),
	}
}
