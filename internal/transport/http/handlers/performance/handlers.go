package performancehandler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmperf/internal/domain/audit"
	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/hierarchy"
	"hrmperf/internal/domain/performance"
	"hrmperf/internal/transport/http/api"
	"hrmperf/internal/transport/http/middleware"
	"hrmperf/internal/transport/http/shared"
)

const entityPlan = "performance_plan"

type PlanService interface {
	Get(ctx context.Context, principal auth.Principal, id string) (performance.Plan, error)
	List(ctx context.Context, principal auth.Principal, filter performance.PlanFilter) ([]performance.Plan, error)
	Create(ctx context.Context, principal auth.Principal, in performance.CreateInput) (performance.Plan, error)
	UpdateContent(ctx context.Context, principal auth.Principal, id string, upd performance.ContentUpdate) (performance.Plan, error)
	Submit(ctx context.Context, principal auth.Principal, id string) (performance.Plan, error)
	BeginReview(ctx context.Context, principal auth.Principal, id string, stage performance.Status) (performance.Plan, error)
	RecordRating(ctx context.Context, principal auth.Principal, id, role string, rating *float64) (performance.Plan, error)
	ApplyAction(ctx context.Context, principal auth.Principal, id string, req performance.ActionRequest) (performance.Plan, error)
	Summary(ctx context.Context) (performance.Summary, error)
}

type AuditLog interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service PlanService
	Perms   middleware.PermissionStore
	Audit   AuditLog
}

func NewHandler(service PlanService, perms middleware.PermissionStore, auditLog AuditLog) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditLog}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPerformanceAdmin, h.Perms)).Get("/summary", h.handleSummary)
		r.Route("/{planID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/submit", h.handleSubmit)
			r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/review/start", h.handleStartReview)
			r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/rating", h.handleRating)
			r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/workflow", h.handleWorkflow)
			r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/workflow", h.handleAction)
			r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/workflow/export", h.handleExport)
			r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/audit", h.handleAudit)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	query := r.URL.Query()
	v := shared.NewValidator()
	filter := performance.PlanFilter{
		Kind:       performance.Kind(strings.ToLower(strings.TrimSpace(query.Get("kind")))),
		EmployeeID: strings.TrimSpace(query.Get("employeeId")),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		v.Add("kind", "must be plan or appraisal")
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, ok := performance.ParseStatus(part)
			if !ok {
				v.Add("status", fmt.Sprintf("unknown status %q", strings.TrimSpace(part)))
				continue
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	plans, err := h.Service.List(r.Context(), principal, filter)
	if err != nil {
		shared.FailDomain(w, err, "plan_list_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, plans, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload performance.CreateInput
	if !shared.DecodeJSON(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	payload.Kind = performance.Kind(strings.ToLower(strings.TrimSpace(string(payload.Kind))))
	if payload.Kind == "" {
		payload.Kind = performance.KindPlan
	}
	v := shared.NewValidator()
	v.Enum("kind", string(payload.Kind), []string{string(performance.KindPlan), string(performance.KindAppraisal)}, "must be plan or appraisal")
	v.Required("period", payload.Period, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	plan, err := h.Service.Create(r.Context(), principal, payload)
	if err != nil {
		shared.FailDomain(w, err, "plan_create_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, principal, "performance.plan.create", plan.ID, nil, plan)
	api.Created(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		shared.FailDomain(w, err, "plan_summary_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	plan, err := h.Service.Get(r.Context(), principal, chi.URLParam(r, "planID"))
	if err != nil {
		shared.FailDomain(w, err, "plan_get_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload performance.ContentUpdate
	if !shared.DecodeJSON(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	planID := chi.URLParam(r, "planID")
	plan, err := h.Service.UpdateContent(r.Context(), principal, planID, payload)
	if err != nil {
		shared.FailDomain(w, err, "plan_update_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, principal, "performance.plan.update", planID, nil, payload)
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	planID := chi.URLParam(r, "planID")
	plan, err := h.Service.Submit(r.Context(), principal, planID)
	if err != nil {
		shared.FailDomain(w, err, "plan_submit_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, principal, "performance.plan.submit", planID, nil, map[string]any{"status": plan.Status})
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStartReview(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Stage string `json:"stage"`
	}
	if !shared.DecodeJSON(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	v := shared.NewValidator()
	v.Required("stage", payload.Stage, "is required")
	v.Enum("stage", payload.Stage, []string{string(performance.StatusSupervisorReview), string(performance.StatusReviewerAssessment)}, "must be supervisor_review or reviewer_assessment")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	planID := chi.URLParam(r, "planID")
	stage := performance.Status(strings.ToLower(strings.TrimSpace(payload.Stage)))
	plan, err := h.Service.BeginReview(r.Context(), principal, planID, stage)
	if err != nil {
		shared.FailDomain(w, err, "plan_review_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, principal, "performance.plan.review_start", planID, nil, map[string]any{"status": plan.Status})
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRating(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Role   string   `json:"role"`
		Rating *float64 `json:"rating"`
	}
	if !shared.DecodeJSON(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	v := shared.NewValidator()
	v.Required("role", payload.Role, "is required")
	if payload.Rating != nil && (*payload.Rating < 0 || *payload.Rating > performance.MaxRating) {
		v.Add("rating", "must be between 0 and 5")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	planID := chi.URLParam(r, "planID")
	plan, err := h.Service.RecordRating(r.Context(), principal, planID, payload.Role, payload.Rating)
	if err != nil {
		shared.FailDomain(w, err, "plan_rating_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, principal, "performance.plan.rate", planID, nil, payload)
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

type workflowView struct {
	performance.WorkflowHistory
	AvailableActions map[hierarchy.Role][]performance.Action `json:"availableActions"`
}

func (h *Handler) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	plan, err := h.Service.Get(r.Context(), principal, chi.URLParam(r, "planID"))
	if err != nil {
		shared.FailDomain(w, err, "plan_workflow_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, workflowView{
		WorkflowHistory: performance.HistoryOf(plan),
		AvailableActions: map[hierarchy.Role][]performance.Action{
			hierarchy.RoleSupervisor: performance.AvailableActions(plan, principal, hierarchy.RoleSupervisor),
			hierarchy.RoleReviewer:   performance.AvailableActions(plan, principal, hierarchy.RoleReviewer),
		},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload performance.ActionRequest
	if !shared.DecodeJSON(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	payload.Action = performance.Action(strings.ToLower(strings.TrimSpace(string(payload.Action))))

	planID := chi.URLParam(r, "planID")
	plan, err := h.Service.ApplyAction(r.Context(), principal, planID, payload)
	if err != nil {
		shared.FailDomain(w, err, "plan_action_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, principal, "performance.plan."+string(payload.Action), planID, nil, map[string]any{
		"role":   payload.Role,
		"status": plan.Status,
	})
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	plan, err := h.Service.Get(r.Context(), principal, chi.URLParam(r, "planID"))
	if err != nil {
		shared.FailDomain(w, err, "plan_export_failed", middleware.GetRequestID(r.Context()))
		return
	}

	var buf bytes.Buffer
	if err := performance.WriteHistoryPDF(&buf, plan); err != nil {
		slog.Warn("workflow export failed", "planId", plan.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "plan_export_failed", "failed to render export", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=workflow-%s.pdf", plan.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("workflow export write failed", "err", err)
	}
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		api.Success(w, []audit.Event{}, middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	filter := audit.Filter{EntityType: entityPlan, EntityID: chi.URLParam(r, "planID")}
	events, err := h.Audit.List(r.Context(), filter, r.URL.Query().Get("includeDetails") == "true", page.Limit, page.Offset)
	if err != nil {
		slog.Warn("plan audit list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, principal auth.Principal, action, planID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), principal.UserID, action, entityPlan, planID, middleware.GetRequestID(r.Context()), middleware.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
