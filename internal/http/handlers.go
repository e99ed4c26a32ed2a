package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/missionops/mission-ingestion-service/internal/ingest"
	"github.com/missionops/mission-ingestion-service/internal/models"
	"github.com/missionops/mission-ingestion-service/internal/observability"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	ingestor *ingest.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler returns a new Handler.
func NewHandler(ingestor *ingest.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ingestor: ingestor,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetHealth handles GET /health. Always 200 with a fresh timestamp; the
// service has no degraded health states.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// PostMission handles POST /mission. Schema violations are rejected with 422
// before any outbound call; once validation passes the response is always 200,
// with fallback weather when the forecast service is unavailable.
func (h *Handler) PostMission(w http.ResponseWriter, r *http.Request) {
	var mission models.MissionRequest
	if err := json.NewDecoder(r.Body).Decode(&mission); err != nil {
		observability.ValidationFailuresTotal.WithLabelValues("malformed_json").Inc()
		writeError(w, r, http.StatusUnprocessableEntity, "INVALID_PAYLOAD", "request body must be a JSON mission object")
		return
	}

	if err := h.validate.Struct(&mission); err != nil {
		observability.ValidationFailuresTotal.WithLabelValues(validationReason(err)).Inc()
		h.logger.Debug("mission payload rejected", zap.String("reason", validationMessage(err)))
		writeError(w, r, http.StatusUnprocessableEntity, "INVALID_COORDINATES", validationMessage(err))
		return
	}

	record := h.ingestor.Ingest(r.Context(), mission)
	writeJSON(w, http.StatusOK, record)
}

// validationReason maps a validator error to a stable metric label.
func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "unknown"
	}
	if verrs[0].Tag() == "required" {
		return "missing_coordinates"
	}
	return "out_of_range"
}

// validationMessage renders the first validation failure for the client.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid mission payload"
	}
	field := strings.ToLower(verrs[0].Field())
	switch verrs[0].Tag() {
	case "required":
		return field + " is required"
	case "gte", "lte":
		return field + " is out of range"
	}
	return field + " is invalid"
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code,
// message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
