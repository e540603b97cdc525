package dto

import "peopledetect/internal/models"

// StatusResponse is returned by the status endpoint.
type StatusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Stats   interface{} `json:"stats"`
	Viewers int         `json:"viewers"`
}

// EventsResponse is returned by the events endpoint.
type EventsResponse struct {
	Actuations []models.Actuation     `json:"actuations"`
	Stats      *models.ActuationStats `json:"stats"`
	Limit      int                    `json:"limit"`
}
