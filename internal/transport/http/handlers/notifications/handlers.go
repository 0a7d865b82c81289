package notificationshandler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/notifications"
	"hrmperf/internal/transport/http/api"
	"hrmperf/internal/transport/http/middleware"
	"hrmperf/internal/transport/http/shared"
)

type Counter interface {
	WindowCounts(ctx context.Context, principal auth.Principal, now time.Time) (notifications.WindowCounts, error)
}

type Handler struct {
	Service Counter
	Perms   middleware.PermissionStore
	Now     func() time.Time
}

func NewHandler(service Counter, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermNotificationsRead, h.Perms)).Get("/notifications", h.handleCounts)
}

// handleCounts serves the week containing ?at= (RFC3339 or YYYY-MM-DD),
// defaulting to now.
func (h *Handler) handleCounts(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	at := h.Now()
	if raw := strings.TrimSpace(r.URL.Query().Get("at")); raw != "" {
		parsed, err := parseInstant(raw, at.Location())
		if err != nil {
			v := shared.NewValidator()
			v.Add("at", "must be RFC3339 or YYYY-MM-DD")
			v.Reject(w, middleware.GetRequestID(r.Context()))
			return
		}
		at = parsed
	}

	counts, err := h.Service.WindowCounts(r.Context(), principal, at)
	if err != nil {
		shared.FailDomain(w, err, "notification_counts_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, counts, middleware.GetRequestID(r.Context()))
}

func parseInstant(value string, loc *time.Location) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}
