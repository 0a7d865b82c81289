package hierarchyhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/hierarchy"
	"hrmperf/internal/transport/http/api"
	"hrmperf/internal/transport/http/middleware"
	"hrmperf/internal/transport/http/shared"
)

type Resolver interface {
	View(ctx context.Context) (hierarchy.View, error)
	EmployeeView(ctx context.Context, id string) (hierarchy.EmployeeView, error)
}

type Handler struct {
	Service Resolver
	Perms   middleware.PermissionStore
}

func NewHandler(service Resolver, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hierarchy", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermHierarchyRead, h.Perms))
		r.Get("/", h.handleView)
		r.Get("/employees/{employeeID}", h.handleEmployee)
	})
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.View(r.Context())
	if err != nil {
		shared.FailDomain(w, err, "hierarchy_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Service.EmployeeView(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.FailDomain(w, err, "employee_lookup_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}
