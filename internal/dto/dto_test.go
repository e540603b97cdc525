package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"peopledetect/internal/models"
)

func TestNewDetectionResult(t *testing.T) {
	d := models.Detection{ClassID: 14, Confidence: 0.7, Box: models.Box{CenterX: 100, CenterY: 50, Width: 20, Height: 40}}
	r := NewDetectionResult(d, "Person")

	if r.X != 90 || r.Y != 30 || r.Width != 20 || r.Height != 40 {
		t.Errorf("Unexpected rectangle: %+v", r)
	}
	if r.Label != "Person" || r.ClassID != 14 {
		t.Errorf("Unexpected labels: %+v", r)
	}
}

func TestViewFrame_MarshalJSON(t *testing.T) {
	f := ViewFrame{
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 250000000, time.UTC),
		Status:    "ready",
		Image:     []byte{0xff, 0xd8},
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"timestamp":"2024-05-01T12:00:00.250Z"`) {
		t.Errorf("Unexpected timestamp in %s", s)
	}
	if !strings.Contains(s, `"image":"/9g="`) {
		t.Errorf("Expected base64 image in %s", s)
	}
	if strings.Contains(s, "requestId") {
		t.Errorf("Empty request id should be omitted: %s", s)
	}
}
