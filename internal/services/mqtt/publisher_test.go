package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"peopledetect/internal/models"
	"peopledetect/internal/services/gate"
)

func TestTopics(t *testing.T) {
	if got := ActuationsTopic("lab/door"); got != "lab/door/actuations" {
		t.Errorf("ActuationsTopic = %q", got)
	}
	if got := StatusTopic("lab/door"); got != "lab/door/status" {
		t.Errorf("StatusTopic = %q", got)
	}
}

func TestBrokerURL(t *testing.T) {
	tests := map[string]string{
		"localhost:1883":      "tcp://localhost:1883",
		"ssl://broker:8883":   "ssl://broker:8883",
		"tcp://10.0.0.1:1883": "tcp://10.0.0.1:1883",
	}
	for in, want := range tests {
		if got := brokerURL(in); got != want {
			t.Errorf("brokerURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusPayload(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	payload, err := StatusPayload(gate.StatusBusy, gate.Stats{Requests: 3, Completed: 2}, at)
	if err != nil {
		t.Fatalf("StatusPayload failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded["status"] != "busy" || decoded["message"] != "Device busy!" {
		t.Errorf("Unexpected payload: %s", payload)
	}
	stats := decoded["stats"].(map[string]interface{})
	if stats["requests"] != float64(3) {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestActuationPayload(t *testing.T) {
	payload, err := ActuationPayload(models.Actuation{ID: "a-1", ClassID: 14, Outcome: models.OutcomePending})
	if err != nil {
		t.Fatalf("ActuationPayload failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded["id"] != "a-1" || decoded["outcome"] != "pending" {
		t.Errorf("Unexpected payload: %s", payload)
	}
	if _, ok := decoded["finished_at"]; ok {
		t.Error("Pending actuation should omit finished_at")
	}
}
