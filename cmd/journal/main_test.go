package main

import (
	"strings"
	"testing"
	"time"

	"peopledetect/internal/models"
)

func TestFormatActuation(t *testing.T) {
	requested := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	finished := requested.Add(6500 * time.Millisecond)

	line := formatActuation(models.Actuation{
		ID:          "a-1",
		RequestedAt: requested,
		FinishedAt:  &finished,
		ClassID:     14,
		Confidence:  0.912,
		Outcome:     models.OutcomeFailed,
		Error:       "actuator transport failure",
		Snapshot:    "2024-05-01_12-00-00_a-1.jpg",
	})

	for _, want := range []string{"2024-05-01 12:00:00", "failed", "class=14", "conf=0.91", "took=6.5s", "snapshot=2024-05-01_12-00-00_a-1.jpg", "error=actuator transport failure"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestFormatActuation_Pending(t *testing.T) {
	line := formatActuation(models.Actuation{ID: "a-2", RequestedAt: time.Now(), Outcome: models.OutcomePending})
	if strings.Contains(line, "took=") || strings.Contains(line, "error=") {
		t.Errorf("Pending actuation should not show duration or error: %q", line)
	}
}
