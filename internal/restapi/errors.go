package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/dataset"
	"findings.ee105.org/internal/logging"
	"findings.ee105.org/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) sendError(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     models.ResponseVersion,
	})
	if err != nil {
		api.Logger.Error("failed to encode error response", "error", err, "status", status)
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response for a missing or unknown key
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "internal server error", err,
		slog.String("path", r.URL.Path),
		slog.String("component", "rest_api"))
	api.sendError(w, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}

// datasetErrorResponse maps a failure to resolve the CO₂ table to a status code.
func (api *RestAPI) datasetErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrNoUpload):
		api.validationErrorResponse(w, r, map[string][]string{
			"dataset": {"Upload a CSV to continue."},
		})
	case errors.Is(err, dataset.ErrUnknownDataset):
		api.sendNotFound(w, r)
	case errors.Is(err, app.ErrFetch):
		logging.LogError(api.Logger, "default dataset unavailable", err,
			slog.String("path", r.URL.Path))
		api.sendError(w, http.StatusBadGateway, err.Error())
	default:
		api.serverErrorResponse(w, r, err)
	}
}
