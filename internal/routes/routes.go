package routes

import (
	"net/http"

	"peopledetect/internal/config"
	"peopledetect/internal/handlers"
	"peopledetect/internal/logger"
	"peopledetect/internal/middleware"
	"peopledetect/internal/repository"
	ws "peopledetect/internal/services/websocket"
)

// SetupRoutes registers the live view, status, journal and log endpoints and
// wraps the mux with the token middleware.
func SetupRoutes(cfg *config.Config, gate handlers.StatusProvider, repo repository.ActuationRepository, hub *ws.HubService, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(hub, logger))
	mux.HandleFunc("/api/status", handlers.StatusHandler(gate, hub, logger))
	mux.HandleFunc("/api/events", handlers.EventsHandler(repo, logger))
	mux.HandleFunc("/api/snapshots/view", handlers.ViewSnapshotHandler(cfg.SnapshotDirectory))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(cfg.LogDirectory))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(cfg.LogDirectory))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(cfg.LogDirectory))

	mux.HandleFunc("/logs/info/clear", handlers.ClearLogsHandler(logger, "info.log"))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearLogsHandler(logger, "warning.log"))
	mux.HandleFunc("/logs/error/clear", handlers.ClearLogsHandler(logger, "error.log"))

	return middleware.TokenMiddleware(cfg.HTTPToken, mux)
}
