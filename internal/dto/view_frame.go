package dto

import (
	"encoding/json"
	"time"
)

// ViewFrame is one message on the live view websocket.
type ViewFrame struct {
	Timestamp   time.Time         `json:"timestamp"`
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	InferenceMs float64           `json:"inferenceMs"`
	Detections  []DetectionResult `json:"detections"`
	Image       []byte            `json:"image,omitempty"` // JPEG, base64 in JSON
	RequestID   string            `json:"requestId,omitempty"`
}

// MarshalJSON formats the timestamp with millisecond precision.
func (f ViewFrame) MarshalJSON() ([]byte, error) {
	type Alias ViewFrame
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		Alias
	}{
		Timestamp: f.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		Alias:     (Alias)(f),
	})
}
