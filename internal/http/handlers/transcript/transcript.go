// Package transcript serves student-transcript-grades together with its
// options and adjustments representations, which share the same paths and
// are told apart by media type.
package transcript

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

	gradesResource  = service.ResourceTranscriptGrades
	optionsResource = service.ResourceTranscriptGradesOptions
)

// Service is what the transcript grade routes need.
type Service interface {
	ethos.Support
	List(ctx context.Context, offset, limit int, student string) ([]types.StudentTranscriptGrade, int, error)
	Get(ctx context.Context, id string) (types.StudentTranscriptGrade, error)
	Adjust(ctx context.Context, adj types.StudentTranscriptGradeAdjustment) (types.StudentTranscriptGrade, error)
	Options(ctx context.Context, offset, limit int, student string, bypassCache bool) ([]types.StudentTranscriptGradeOptions, int, error)
	Option(ctx context.Context, id string, bypassCache bool) (types.StudentTranscriptGradeOptions, error)
}

type Handler struct {
	svc   Service
	pager ethos.Pager
	log   *slog.Logger
}

func New(svc Service, pager ethos.Pager, log *slog.Logger) *Handler {
	return &Handler{svc: svc, pager: pager, log: log}
}

func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("GET /student-transcript-grades",
		ethos.Route{Version: "1.1.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.List()},
		ethos.Route{Version: "1.0.0", MediaType: ethos.MediaTypeTranscriptGradesOptions, Handler: h.ListOptions()},
	)
	reg.Handle("GET /student-transcript-grades/{id}",
		ethos.Route{Version: "1.1.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.Get()},
		ethos.Route{Version: "1.0.0", MediaType: ethos.MediaTypeTranscriptGradesOptions, Handler: h.GetOption()},
	)

	// Adjustments are chosen by the Content-Type of the body. Every other
	// write is a 405 whatever format the client pins.
	reg.Handle("PUT /student-transcript-grades/{id}", ethos.Route{
		Version:     "1.0.0",
		MediaType:   ethos.MediaTypeIntegration,
		ContentType: ethos.MediaTypeTranscriptGradesAdjustments,
		Handler:     h.Adjust(),
	})
	reg.Handle("POST /student-transcript-grades", ethos.Route{
		Version:     "1.0.0",
		MediaType:   ethos.MediaTypeIntegration,
		ContentType: ethos.MediaTypeTranscriptGradesAdjustments,
		Handler:     ethos.NotSupported,
	})
	for _, p := range []string{"POST /student-transcript-grades", "PUT /student-transcript-grades/{id}", "DELETE /student-transcript-grades/{id}"} {
		reg.Handle(p, ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "1.1.0", "1.0.0")...)
		reg.Handle(p, ethos.NotSupportedRoutes(ethos.MediaTypeTranscriptGradesOptions, "1.0.0")...)
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusForbidden)
}

// List handles GET /student-transcript-grades
//
//	?criteria={"student":{"id":"..."}}
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing student transcript grades")

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list student transcript grades", err)
			return
		}

		var c types.TranscriptGradeCriteria
		empty, err := ethos.DecodeFilter(r, "criteria", &c)
		if err != nil {
			h.fail(w, "list student transcript grades", err)
			return
		}
		if empty {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []types.StudentTranscriptGrade{}, ethos.Metadata{})
			return
		}

		items, total, err := h.svc.List(r.Context(), page.Offset, page.Limit, types.RefID(c.Student))
		if err != nil {
			h.fail(w, "list student transcript grades", err)
			return
		}

		ids := make([]string, 0, len(items))
		for _, g := range items {
			ids = append(ids, g.ID)
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.svc, gradesResource, ids, http.StatusOK, items); err != nil {
			h.fail(w, "list student transcript grades", err)
		}
	}
}

// Get handles GET /student-transcript-grades/{id}
func (h *Handler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a student transcript grade", slog.String("id", id))

		if err := request.RequireURLID(id); err != nil {
			h.fail(w, "get student transcript grade", err)
			return
		}
		g, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.fail(w, "get student transcript grade", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, gradesResource, []string{g.ID}, http.StatusOK, g); err != nil {
			h.fail(w, "get student transcript grade", err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Adjust handles PUT /student-transcript-grades/{id} sent as
// application/vnd.hedtech.integration.student-transcript-grades-adjustments.v1.0.0+json
//
//	{
//	  "id": "...",
//	  "detail": { "grade": { "id": "..." }, "changeReason": { "id": "..." } }
//	}
//
// The response is the adjusted transcript grade.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) Adjust() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("adjusting a student transcript grade", slog.String("id", r.PathValue("id")))
		ctx := r.Context()

		body, err := request.Body(w, r, "studentTranscriptGradesAdjustments")
		if err != nil {
			h.fail(w, "adjust student transcript grade", err)
			return
		}
		id, err := request.PutID(r.PathValue("id"), request.BodyID(body))
		if err != nil {
			h.fail(w, "adjust student transcript grade", err)
			return
		}

		var adj types.StudentTranscriptGradeAdjustment
		ext, err := ethos.SplitExtended(body, &adj)
		if err != nil {
			h.fail(w, "adjust student transcript grade", err)
			return
		}
		adj.ID = id

		g, err := h.svc.Adjust(ctx, adj)
		if err != nil {
			h.fail(w, "adjust student transcript grade", err)
			return
		}
		if err := h.svc.ImportExtendedData(ctx, gradesResource, id, ext); err != nil {
			h.fail(w, "adjust student transcript grade", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.svc, gradesResource, []string{g.ID}, http.StatusOK, g); err != nil {
			h.fail(w, "adjust student transcript grade", err)
		}
	}
}

// ListOptions handles GET /student-transcript-grades in the options format.
//
//	?student={"student":{"id":"..."}}
func (h *Handler) ListOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing student transcript grade options")

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list student transcript grade options", err)
			return
		}

		var f types.StudentFilter
		empty, err := ethos.DecodeFilter(r, "student", &f)
		if err != nil {
			h.fail(w, "list student transcript grade options", err)
			return
		}
		if empty {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []types.StudentTranscriptGradeOptions{}, ethos.Metadata{})
			return
		}

		items, total, err := h.svc.Options(r.Context(), page.Offset, page.Limit, types.RefID(f.Student), ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "list student transcript grade options", err)
			return
		}

		ids := make([]string, 0, len(items))
		for _, o := range items {
			ids = append(ids, o.ID)
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.svc, optionsResource, ids, http.StatusOK, items); err != nil {
			h.fail(w, "list student transcript grade options", err)
		}
	}
}

// GetOption handles GET /student-transcript-grades/{id} in the options
// format.
func (h *Handler) GetOption() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting student transcript grade options", slog.String("id", id))

		if err := request.RequireURLID(id); err != nil {
			h.fail(w, "get student transcript grade options", err)
			return
		}
		o, err := h.svc.Option(r.Context(), id, ethos.BypassCache(r))
		if err != nil {
			h.fail(w, "get student transcript grade options", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, optionsResource, []string{o.ID}, http.StatusOK, o); err != nil {
			h.fail(w, "get student transcript grade options", err)
		}
	}
}
