// Package mealplan serves meal-plan-assignments.
package mealplan

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
)

const (
	pageSize = 100
	resource = service.ResourceMealPlanAssignments
)

// Service is what the meal-plan-assignments routes need.
type Service interface {
	ethos.Support
	List(ctx context.Context, offset, limit int, c types.MealPlanCriteria) ([]types.StudentMealPlan, int, error)
	Get(ctx context.Context, id string) (types.StudentMealPlan, error)
	Create(ctx context.Context, p types.StudentMealPlan) (types.StudentMealPlan, error)
	Update(ctx context.Context, p types.StudentMealPlan) (types.StudentMealPlan, error)
}

type Handler struct {
	svc   Service
	pager ethos.Pager
	log   *slog.Logger
}

func New(svc Service, pager ethos.Pager, log *slog.Logger) *Handler {
	return &Handler{svc: svc, pager: pager, log: log}
}

// Register adds the v16.0.0 (default) and v10.1.0 routes.
func (h *Handler) Register(reg *ethos.Registry) {
	for _, p := range []struct {
		pattern string
		handler func(v10 bool) http.HandlerFunc
	}{
		{"GET /meal-plan-assignments", h.List},
		{"GET /meal-plan-assignments/{id}", h.Get},
		{"POST /meal-plan-assignments", h.Create},
		{"PUT /meal-plan-assignments/{id}", h.Update},
	} {
		reg.Handle(p.pattern,
			ethos.Route{Version: "16.0.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: p.handler(false)},
			ethos.Route{Version: "10.1.0", MediaType: ethos.MediaTypeIntegration, Handler: p.handler(true)},
		)
	}
	reg.Handle("DELETE /meal-plan-assignments/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "16.0.0", "10.1.0")...)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusForbidden)
}

func shape(p types.StudentMealPlan, v10 bool) any {
	if v10 {
		return p.V10()
	}
	return p
}

// List handles GET /meal-plan-assignments
func (h *Handler) List(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing meal plan assignments")

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list meal plan assignments", err)
			return
		}

		var c types.MealPlanCriteria
		empty, err := ethos.DecodeFilter(r, "criteria", &c)
		if err != nil {
			h.fail(w, "list meal plan assignments", err)
			return
		}
		if empty {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []types.StudentMealPlan{}, ethos.Metadata{})
			return
		}

		items, total, err := h.svc.List(r.Context(), page.Offset, page.Limit, c)
		if err != nil {
			h.fail(w, "list meal plan assignments", err)
			return
		}

		ids := make([]string, 0, len(items))
		out := make([]any, 0, len(items))
		for _, p := range items {
			ids = append(ids, p.ID)
			out = append(out, shape(p, v10))
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.svc, resource, ids, http.StatusOK, out); err != nil {
			h.fail(w, "list meal plan assignments", err)
		}
	}
}

// Get handles GET /meal-plan-assignments/{id}
func (h *Handler) Get(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a meal plan assignment", slog.String("id", id))

		p, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.fail(w, "get meal plan assignment", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, []string{p.ID}, http.StatusOK, shape(p, v10)); err != nil {
			h.fail(w, "get meal plan assignment", err)
		}
	}
}

// Create handles POST /meal-plan-assignments
func (h *Handler) Create(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("creating a meal plan assignment")

		body, err := request.Body(w, r, "mealPlanAssignment")
		if err != nil {
			h.fail(w, "create meal plan assignment", err)
			return
		}

		var p types.StudentMealPlan
		var ext []byte
		if v10 {
			var v types.StudentMealPlanV10
			ext, err = ethos.SplitExtended(body, &v)
			p = v.Current()
		} else {
			ext, err = ethos.SplitExtended(body, &p)
		}
		if err != nil {
			h.fail(w, "create meal plan assignment", err)
			return
		}

		created, err := h.svc.Create(r.Context(), p)
		if err != nil {
			h.fail(w, "create meal plan assignment", err)
			return
		}
		if err := h.svc.ImportExtendedData(r.Context(), resource, created.ID, ext); err != nil {
			h.fail(w, "create meal plan assignment", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, []string{created.ID}, http.StatusOK, shape(created, v10)); err != nil {
			h.fail(w, "create meal plan assignment", err)
		}
	}
}

// Update handles PUT /meal-plan-assignments/{id}. The body is merged over
// the stored assignment. v10.1.0 bodies cannot carry the status reason or
// the assigned rate, so those keep their stored values.
func (h *Handler) Update(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("updating a meal plan assignment", slog.String("id", r.PathValue("id")))
		ctx := r.Context()

		body, err := request.Body(w, r, "mealPlanAssignment")
		if err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}
		id, err := request.PutID(r.PathValue("id"), request.BodyID(body))
		if err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}

		stored, err := h.svc.Get(ctx, id)
		if err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}
		restricted, err := h.svc.DataPrivacyList(ctx, resource, true)
		if err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}

		var p types.StudentMealPlan
		var ext []byte
		if v10 {
			var v types.StudentMealPlanV10
			ext, err = ethos.MergeUpdate(stored.V10(), body, restricted, &v)
			p = v.Current()
			p.StatusReason = stored.StatusReason
			p.AssignedRate = stored.AssignedRate
		} else {
			ext, err = ethos.MergeUpdate(stored, body, restricted, &p)
		}
		if err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}
		p.ID = id

		updated, err := h.svc.Update(ctx, p)
		if err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}
		if err := h.svc.ImportExtendedData(ctx, resource, id, ext); err != nil {
			h.fail(w, "update meal plan assignment", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, []string{id}, http.StatusOK, shape(updated, v10)); err != nil {
			h.fail(w, "update meal plan assignment", err)
		}
	}
}
