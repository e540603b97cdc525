package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"peopledetect/internal/config"
	"peopledetect/internal/dto"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
	"peopledetect/internal/services/gate"
)

type staticGate struct {
	status gate.Status
	stats  gate.Stats
}

func (g staticGate) Status() gate.Status { return g.status }
func (g staticGate) Stats() gate.Stats   { return g.stats }

type fixedViewers int

func (v fixedViewers) GetClientCount() int { return int(v) }

type stubRepo struct {
	actuations []models.Actuation
	err        error
	lastLimit  int
}

func (s *stubRepo) Insert(a *models.Actuation) error { return nil }
func (s *stubRepo) Complete(id string, outcome models.Outcome, errMsg string, finishedAt time.Time) error {
	return nil
}
func (s *stubRepo) GetByID(id string) (*models.Actuation, error) { return nil, nil }
func (s *stubRepo) Recent(limit int) ([]models.Actuation, error) {
	s.lastLimit = limit
	return s.actuations, s.err
}
func (s *stubRepo) Stats() (*models.ActuationStats, error) {
	return &models.ActuationStats{Total: len(s.actuations), PerOutcome: map[models.Outcome]int{}}, nil
}
func (s *stubRepo) DeleteBefore(t time.Time) (int64, error) { return 0, nil }

func TestStatusHandler(t *testing.T) {
	h := StatusHandler(staticGate{status: gate.StatusBusy, stats: gate.Stats{Requests: 2}}, fixedViewers(3), logger.Discard())

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Status  string     `json:"status"`
		Message string     `json:"message"`
		Stats   gate.Stats `json:"stats"`
		Viewers int        `json:"viewers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.Status != "busy" || resp.Message != "Device busy!" || resp.Stats.Requests != 2 || resp.Viewers != 3 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestStatusHandler_MethodNotAllowed(t *testing.T) {
	h := StatusHandler(staticGate{}, nil, logger.Discard())

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/api/status", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestEventsHandler(t *testing.T) {
	repo := &stubRepo{actuations: []models.Actuation{{ID: "a", Outcome: models.OutcomeDone}}}
	h := EventsHandler(repo, logger.Discard())

	tests := []struct {
		query string
		limit int
	}{
		{"", 50},
		{"?limit=5", 5},
		{"?limit=-1", 50},
		{"?limit=abc", 50},
		{"?limit=10000", 500},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/api/events"+tt.query, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tt.query, w.Code)
		}
		if repo.lastLimit != tt.limit {
			t.Errorf("%q: expected limit %d, got %d", tt.query, tt.limit, repo.lastLimit)
		}
	}

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	var resp dto.EventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(resp.Actuations) != 1 || resp.Stats.Total != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestEventsHandler_RepositoryError(t *testing.T) {
	h := EventsHandler(&stubRepo{err: errors.New("disk I/O error")}, logger.Discard())

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestViewSnapshotHandler(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("jpeg"), 0644)
	h := ViewSnapshotHandler(dir)

	tests := []struct {
		name string
		code int
	}{
		{"a.jpg", http.StatusOK},
		{"missing.jpg", http.StatusNotFound},
		{"../a.jpg", http.StatusBadRequest},
		{"a.txt", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/api/snapshots/view?name="+tt.name, nil))
		if w.Code != tt.code {
			t.Errorf("%q: expected %d, got %d", tt.name, tt.code, w.Code)
		}
	}
}

func TestLogHandlers(t *testing.T) {
	dir := t.TempDir()
	log, err := logger.NewLogger(&config.Config{LogDirectory: dir})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	log.Error("transport lost")

	w := httptest.NewRecorder()
	ShowErrorLogsHandler(dir)(w, httptest.NewRequest(http.MethodGet, "/logs/error", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	ClearLogsHandler(log, "error.log")(w, httptest.NewRequest(http.MethodGet, "/logs/error/clear", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET clear, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	ClearLogsHandler(log, "error.log")(w, httptest.NewRequest(http.MethodPost, "/logs/error/clear", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "error.log"))
	if len(data) != 0 {
		t.Errorf("Expected cleared log, got %q", data)
	}

	w = httptest.NewRecorder()
	ShowInfoLogsHandler(t.TempDir())(w, httptest.NewRequest(http.MethodGet, "/logs/info", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing log, got %d", w.Code)
	}
}
