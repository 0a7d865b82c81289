package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"hrmperf/internal/domain/hierarchy"
	"hrmperf/internal/domain/performance"
	"hrmperf/internal/transport/http/api"
)

// FailDomain maps engine errors onto the response envelope. Anything it does
// not recognise is logged and reported as a 500 with fallbackCode.
func FailDomain(w http.ResponseWriter, err error, fallbackCode, requestID string) {
	var transition *performance.TransitionError
	switch {
	case errors.As(err, &transition):
		api.FailWithDetails(w, http.StatusConflict, "invalid_transition", err.Error(), map[string]string{
			"status": string(transition.Status),
			"action": string(transition.Action),
		}, requestID)
	case errors.Is(err, performance.ErrWriteConflict):
		w.Header().Set("Retry-After", "0")
		api.Fail(w, http.StatusConflict, "write_conflict", "plan was modified concurrently, reload and retry", requestID)
	case errors.Is(err, performance.ErrNotFound), errors.Is(err, hierarchy.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, performance.ErrUnauthorized):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, performance.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.Is(err, performance.ErrMalformedRecord):
		slog.Error("malformed plan record", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "malformed_record", "stored plan is malformed", requestID)
	default:
		slog.Warn("request failed", "code", fallbackCode, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, fallbackCode, "internal error", requestID)
	}
}
