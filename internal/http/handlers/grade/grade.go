// Package grade serves grade codes, pilot grade queries, anonymous grading
// ids and the grade-definitions EEDM resource.
package grade

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Service is what the grade routes need.
type Service interface {
	ethos.Support
	All(ctx context.Context, bypassCache bool) ([]types.Grade, error)
	PilotGrades(ctx context.Context, c types.GradeQueryCriteria, includeVerified bool) ([]types.PilotGrade, error)
	AnonymousGradingIds(ctx context.Context, c types.AnonymousGradingQueryCriteria) ([]types.StudentAnonymousGrading, error)
	GradeDefinitions(ctx context.Context, bypassCache bool) ([]types.GradeDefinition, error)
	GradeDefinition(ctx context.Context, id string, bypassCache bool) (types.GradeDefinition, error)
	GradeDefinitionsMaximum(ctx context.Context, bypassCache bool) ([]types.GradeDefinitionMaximum, error)
	GradeDefinitionMaximum(ctx context.Context, id string, bypassCache bool) (types.GradeDefinitionMaximum, error)
}

type Handler struct {
	svc      Service
	validate *validator.Validate
	log      *slog.Logger
}

func New(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, validate: validator.New(), log: log}
}

func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("GET /grades",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.List()})
	reg.Handle("POST /qapi/grades",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypePilot, Handler: h.QueryPilot(false)},
		ethos.Route{Version: "2", MediaType: ethos.MediaTypePilot, Handler: h.QueryPilot(true)},
	)
	reg.Handle("POST /qapi/anonymous-grading-ids",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.QueryAnonymousGradingIds()})

	reg.Handle("GET /grade-definitions",
		ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.ListDefinitions()},
		ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegrationMaximum, Handler: h.ListDefinitionsMaximum()},
	)
	reg.Handle("GET /grade-definitions/{id}",
		ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.GetDefinition()},
		ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegrationMaximum, Handler: h.GetDefinitionMaximum()},
	)
	for _, p := range []string{"POST /grade-definitions", "PUT /grade-definitions/{id}", "DELETE /grade-definitions/{id}"} {
		reg.Handle(p, ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "6")...)
		reg.Handle(p, ethos.NotSupportedRoutes(ethos.MediaTypeIntegrationMaximum, "6")...)
	}
}

func (h *Handler) selfServiceError(w http.ResponseWriter, op string, err error, message string) {
	h.log.Error(op, slog.String("error", err.Error()))
	response.WriteGeneralError(w, err, message)
}

// List handles GET /grades
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing grades")

		grades, err := h.svc.All(r.Context(), ethos.BypassCache(r))
		if err != nil {
			if apperr.Is(err, apperr.KindSessionExpired) {
				h.selfServiceError(w, "list grades", err, "Session has expired while retrieving grades")
				return
			}
			h.selfServiceError(w, "list grades", apperr.Argument("Exception occurred while retrieving grades"), "")
			return
		}
		response.WriteJSON(w, http.StatusOK, grades)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// QueryPilot handles POST /qapi/grades
//
// Request body (JSON):
//
//	{ "StudentIds": ["0001234"], "Term": "2024/FA" }
//
// v2 adds the verified grade timestamp to every grade.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) QueryPilot(includeVerified bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("querying pilot grades", slog.Bool("verified", includeVerified))

		var c types.GradeQueryCriteria
		if _, err := request.DecodeJSON(r, &c, false); err != nil {
			h.selfServiceError(w, "query pilot grades", err, "")
			return
		}
		if err := h.validate.Struct(c); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
				return
			}
			h.selfServiceError(w, "query pilot grades", err, "")
			return
		}

		grades, err := h.svc.PilotGrades(r.Context(), c, includeVerified)
		if err != nil {
			h.selfServiceError(w, "query pilot grades", err, "")
			return
		}
		response.WriteJSON(w, http.StatusOK, grades)
	}
}

// QueryAnonymousGradingIds handles POST /qapi/anonymous-grading-ids
func (h *Handler) QueryAnonymousGradingIds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("querying anonymous grading ids")

		var c types.AnonymousGradingQueryCriteria
		if _, err := request.DecodeJSON(r, &c, false); err != nil {
			h.selfServiceError(w, "query anonymous grading ids", err, "")
			return
		}

		ids, err := h.svc.AnonymousGradingIds(r.Context(), c)
		switch {
		case err == nil:
			response.WriteJSON(w, http.StatusOK, ids)
		case apperr.Is(err, apperr.KindSessionExpired):
			h.selfServiceError(w, "query anonymous grading ids", err, "Session has expired while querying anonymous grading Ids")
		case apperr.Is(err, apperr.KindPermission):
			h.selfServiceError(w, "query anonymous grading ids",
				apperr.Permission("User is not permitted to retrieve anonymous grading ids for the student."), "")
		default:
			h.selfServiceError(w, "query anonymous grading ids", err, "")
		}
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusForbidden)
}

const definitionsResource = service.ResourceGradeDefinitions

// ListDefinitions handles GET /grade-definitions
func (h *Handler) ListDefinitions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing grade definitions")

		defs, err := h.svc.GradeDefinitions(r.Context(), ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "list grade definitions", err)
			return
		}

		ids := make([]string, 0, len(defs))
		for _, d := range defs {
			ids = append(ids, d.ID)
		}
		if err := ethos.WriteResult(w, r, h.svc, definitionsResource, ids, http.StatusOK, defs); err != nil {
			h.fail(w, "list grade definitions", err)
		}
	}
}

// GetDefinition handles GET /grade-definitions/{id}
func (h *Handler) GetDefinition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a grade definition", slog.String("id", id))

		d, err := h.svc.GradeDefinition(r.Context(), id, ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "get grade definition", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, definitionsResource, []string{d.ID}, http.StatusOK, d); err != nil {
			h.fail(w, "get grade definition", err)
		}
	}
}

// ListDefinitionsMaximum handles GET /grade-definitions in the maximum
// format, with scheme, academic level and grade details expanded.
func (h *Handler) ListDefinitionsMaximum() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing grade definitions maximum")

		defs, err := h.svc.GradeDefinitionsMaximum(r.Context(), ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "list grade definitions maximum", err)
			return
		}

		ids := make([]string, 0, len(defs))
		for _, d := range defs {
			ids = append(ids, d.ID)
		}
		if err := ethos.WriteResult(w, r, h.svc, definitionsResource, ids, http.StatusOK, defs); err != nil {
			h.fail(w, "list grade definitions maximum", err)
		}
	}
}

// GetDefinitionMaximum handles GET /grade-definitions/{id} in the maximum
// format.
func (h *Handler) GetDefinitionMaximum() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a grade definition maximum", slog.String("id", id))

		d, err := h.svc.GradeDefinitionMaximum(r.Context(), id, ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "get grade definition maximum", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, definitionsResource, []string{d.ID}, http.StatusOK, d); err != nil {
			h.fail(w, "get grade definition maximum", err)
		}
	}
}
