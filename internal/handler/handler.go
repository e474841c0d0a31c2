package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"simple-shop/internal/middleware"
	"simple-shop/internal/model"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
)

// maxBodyBytes limits the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code. Encoding
// errors are dropped: the status line has already been sent.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response carrying the request's correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError maps a service error to a status code. Domain errors are
// returned to the client as is; anything else is logged and hidden behind a
// generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		if domainErr.IsNotFound() {
			status = http.StatusNotFound
		}
		logger.Debug().
			Str("code", domainErr.Code).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request rejected")
		writeError(w, r, status, domainErr.Code, domainErr.Message)
		return
	}

	logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("handler error")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
}

// decodeJSON decodes the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return false
	}
	return true
}

// pathInt64 parses a positive integer path value and writes a 400 on failure.
func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name)
		return 0, false
	}
	return id, true
}
