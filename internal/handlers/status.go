package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"peopledetect/internal/dto"
	"peopledetect/internal/logger"
	"peopledetect/internal/repository"
	"peopledetect/internal/services/gate"
)

// StatusProvider is the gate state the status endpoint reports.
type StatusProvider interface {
	Status() gate.Status
	Stats() gate.Stats
}

// ViewerCounter reports connected live view clients.
type ViewerCounter interface {
	GetClientCount() int
}

func StatusHandler(g StatusProvider, viewers ViewerCounter, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := g.Status()
		resp := dto.StatusResponse{
			Status:  status.String(),
			Message: status.Message(),
			Stats:   g.Stats(),
		}
		if viewers != nil {
			resp.Viewers = viewers.GetClientCount()
		}
		writeJSON(w, resp, logger)
	}
}

// EventsHandler lists the most recent journal entries with aggregate counts.
func EventsHandler(repo repository.ActuationRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || err != nil {
			limit = 50
		}
		if limit > 500 {
			limit = 500
		}

		actuations, err := repo.Recent(limit)
		if err != nil {
			logger.Error("Failed to load actuations: %v", err)
			http.Error(w, "Failed to load actuations", http.StatusInternalServerError)
			return
		}
		stats, err := repo.Stats()
		if err != nil {
			logger.Error("Failed to load actuation stats: %v", err)
			http.Error(w, "Failed to load actuation stats", http.StatusInternalServerError)
			return
		}

		writeJSON(w, dto.EventsResponse{Actuations: actuations, Stats: stats, Limit: limit}, logger)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
