// Package academicprogram serves the academic-programs reference data in
// the self-service (v1) and EEDM (v6, v10, v15.2.0) formats.
package academicprogram

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

const resource = service.ResourceAcademicPrograms

// Service is what the academic-programs routes need.
type Service interface {
	ethos.Support
	All(ctx context.Context, bypassCache bool) ([]types.AcademicProgram, error)
	List(ctx context.Context, f service.ProgramFilter, bypassCache bool) ([]types.AcademicProgram, error)
	Get(ctx context.Context, id string, bypassCache bool) (types.AcademicProgram, error)
}

// criteria is the v15.2.0 criteria filter.
type criteria struct {
	Code          string            `json:"code,omitempty"`
	Title         string            `json:"title,omitempty"`
	Status        string            `json:"status,omitempty"`
	AcademicLevel *types.GUIDObject `json:"academicLevel,omitempty"`
}

type version int

const (
	v6 version = iota
	v10
	v15
)

type Handler struct {
	svc Service
	log *slog.Logger
}

func New(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("GET /academic-programs",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.ListSummaries()},
		ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegration, Handler: h.List(v6)},
		ethos.Route{Version: "10", MediaType: ethos.MediaTypeIntegration, Handler: h.List(v10)},
		ethos.Route{Version: "15.2.0", MediaType: ethos.MediaTypeIntegration, Handler: h.List(v15)},
	)
	reg.Handle("GET /academic-programs/{id}",
		ethos.Route{Version: "15.2.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.Get(v15)},
		ethos.Route{Version: "10", MediaType: ethos.MediaTypeIntegration, Handler: h.Get(v10)},
		ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegration, Handler: h.Get(v6)},
	)

	versions := []string{"15.2.0", "10", "6"}
	reg.Handle("POST /academic-programs", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, versions...)...)
	reg.Handle("PUT /academic-programs/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, versions...)...)
	reg.Handle("DELETE /academic-programs/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, versions...)...)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusUnauthorized)
}

func shape(p types.AcademicProgram, v version) any {
	switch v {
	case v6:
		return p.V6()
	case v10:
		return p.V10()
	}
	p.Legacy = nil
	return p
}

// ListSummaries handles GET /academic-programs in the self-service format.
func (h *Handler) ListSummaries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing academic program summaries")

		all, err := h.svc.All(r.Context(), ethos.BypassCache(r))
		if err != nil {
			h.log.Error("list academic programs", slog.String("error", err.Error()))
			response.WriteJSON(w, apperr.Status(err, http.StatusUnauthorized), response.GeneralError(err))
			return
		}

		out := make([]types.AcademicProgramSummary, 0, len(all))
		for _, p := range all {
			out = append(out, p.Summary())
		}
		response.WriteJSON(w, http.StatusOK, out)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /academic-programs
//
// Only v15.2.0 reads the academicCatalog, recruitmentProgram and criteria
// filters. The list is not paged.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) List(v version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing academic programs")
		bypass := ethos.BypassCache(r)

		var f service.ProgramFilter
		if v == v15 {
			var empty bool
			var err error
			f, empty, err = decodeFilters(r)
			if err != nil {
				h.fail(w, "list academic programs", err)
				return
			}
			if empty {
				ethos.WriteShaped(w, http.StatusOK, []types.AcademicProgram{}, ethos.Metadata{})
				return
			}
		}

		items, err := h.svc.List(r.Context(), f, bypass)
		if err != nil {
			h.fail(w, "list academic programs", err)
			return
		}

		ids := make([]string, 0, len(items))
		out := make([]any, 0, len(items))
		for _, p := range items {
			ids = append(ids, p.ID)
			out = append(out, shape(p, v))
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, ids, http.StatusOK, out); err != nil {
			h.fail(w, "list academic programs", err)
		}
	}
}

func decodeFilters(r *http.Request) (service.ProgramFilter, bool, error) {
	var f service.ProgramFilter

	var catalog types.AcademicCatalogFilter
	empty, err := ethos.DecodeFilter(r, "academicCatalog", &catalog)
	if err != nil || empty {
		return f, empty, err
	}
	f.AcademicCatalog = types.RefID(catalog.AcademicCatalog)

	var recruitment types.RecruitmentProgramFilter
	empty, err = ethos.DecodeFilter(r, "recruitmentProgram", &recruitment)
	if err != nil || empty {
		return f, empty, err
	}
	if recruitment.RecruitmentProgram != nil {
		f.RecruitmentProgram = *recruitment.RecruitmentProgram
	}

	var c criteria
	empty, err = ethos.DecodeFilter(r, "criteria", &c)
	if err != nil || empty {
		return f, empty, err
	}
	f.Code = c.Code
	f.Title = c.Title
	f.Status = c.Status
	f.AcademicLevel = types.RefID(c.AcademicLevel)
	return f, false, nil
}

// Get handles GET /academic-programs/{id}
func (h *Handler) Get(v version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting an academic program", slog.String("id", id))

		if err := request.RequireURLID(id); err != nil {
			h.fail(w, "get academic program", err)
			return
		}

		p, err := h.svc.Get(r.Context(), id, ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "get academic program", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, []string{p.ID}, http.StatusOK, shape(p, v)); err != nil {
			h.fail(w, "get academic program", err)
		}
	}
}
