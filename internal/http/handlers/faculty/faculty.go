// Package faculty serves the self-service faculty endpoints.
package faculty

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

const sessionExpired = apperr.SessionExpiredMessage

// Service is what the faculty routes need.
type Service interface {
	Sections(ctx context.Context, facultyID string, f service.FacultySectionFilter) ([]types.FacultySection, error)
	Get(ctx context.Context, id string) (types.Faculty, error)
	ByIds(ctx context.Context, ids []string) ([]types.Faculty, error)
	QueryIds(ctx context.Context, facultyOnly, advisorOnly bool) ([]string, error)
	Restrictions(ctx context.Context, facultyID string) ([]types.PersonRestriction, error)
	OfficeHours(ctx context.Context, ids []string) ([]types.FacultyOfficeHours, error)
	PermissionCodes(ctx context.Context) []string
	Permissions(ctx context.Context) types.FacultyPermissions
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func New(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(reg *ethos.Registry) {
	sections := make([]ethos.Route, 0, 5)
	for v := 1; v <= 5; v++ {
		sections = append(sections, ethos.Route{Version: strconv.Itoa(v), MediaType: ethos.MediaTypeEllucian, Default: v == 5, Handler: h.Sections(v)})
	}
	reg.Handle("GET /faculty/{facultyId}/sections", sections...)

	reg.Handle("GET /faculty/{id}",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.Get()})
	reg.Handle("POST /faculty",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.ListByIdString()})
	reg.Handle("POST /qapi/faculty",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.QueryByIds()})
	reg.Handle("GET /faculty/{facultyId}/restrictions",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.Restrictions()})
	reg.Handle("POST /qapi/query-faculty-ids",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.QueryIds()})
	reg.Handle("GET /faculty/permissions",
		ethos.Route{Version: "2", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.Permissions()},
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Handler: h.PermissionCodes()},
	)
	reg.Handle("POST /qapi/faculty/office-hours",
		ethos.Route{Version: "1", MediaType: ethos.MediaTypeEllucian, Default: true, Handler: h.OfficeHours()})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error, message string) {
	h.log.Error(op, slog.String("error", err.Error()))
	response.WriteGeneralError(w, err, message)
}

// sectionFilter reads startDate, endDate and bestFit from the query.
func sectionFilter(r *http.Request) (service.FacultySectionFilter, error) {
	var f service.FacultySectionFilter
	q := r.URL.Query()
	for name, dst := range map[string]**types.Date{"startDate": &f.StartDate, "endDate": &f.EndDate} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		d, err := types.ParseDate(v)
		if err != nil {
			return f, apperr.Argument("'%s' is not a valid %s.", v, name)
		}
		*dst = &d
	}
	if v := q.Get("bestFit"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperr.Argument("'%s' is not a valid bestFit.", v)
		}
		f.BestFit = b
	}
	return f, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Sections handles GET /faculty/{facultyId}/sections
//
// Query: startDate, endDate (yyyy-mm-dd) and bestFit. Each version answers
// its own shape: v1 Section, v2 Section2, v3 and v4 Section3, v5 Section4.
// Only v5 hides the underlying error text.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) Sections(version int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facultyID := r.PathValue("facultyId")
		h.log.Info("listing faculty sections", slog.String("facultyId", facultyID), slog.Int("version", version))

		message := ""
		if version >= 5 {
			message = "An error occurred while retrieving faculty details"
		}

		f, err := sectionFilter(r)
		if err != nil {
			h.fail(w, "list faculty sections", err, "")
			return
		}

		sections, err := h.svc.Sections(r.Context(), facultyID, f)
		if err != nil {
			if apperr.Is(err, apperr.KindSessionExpired) {
				message = sessionExpired
			}
			h.fail(w, "list faculty sections", err, message)
			return
		}

		response.WriteJSON(w, http.StatusOK, project(sections, version))
	}
}

func project(sections []types.FacultySection, version int) any {
	switch version {
	case 1:
		return projectAll(sections, types.FacultySection.V1)
	case 2:
		return projectAll(sections, types.FacultySection.V2)
	case 3, 4:
		return projectAll(sections, types.FacultySection.V3)
	default:
		return projectAll(sections, types.FacultySection.V5)
	}
}

func projectAll[T any](sections []types.FacultySection, fn func(types.FacultySection) T) []T {
	out := make([]T, 0, len(sections))
	for _, s := range sections {
		out = append(out, fn(s))
	}
	return out
}

// Get handles GET /faculty/{id}
func (h *Handler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a faculty member", slog.String("id", id))

		f, err := h.svc.Get(r.Context(), id)
		if err != nil {
			message := "An error occurred while retrieving faculty details"
			if apperr.Is(err, apperr.KindSessionExpired) {
				message = sessionExpired
			}
			h.fail(w, "get faculty", err, message)
			return
		}
		response.WriteJSON(w, http.StatusOK, f)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ListByIdString handles POST /faculty
//
// Request body is a JSON string of comma separated ids:
//
//	"0000011,0000012"
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) ListByIdString() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing faculty by id string")

		var ids string
		if _, err := request.DecodeJSON(r, &ids, true); err != nil {
			h.fail(w, "list faculty", err, "")
			return
		}

		out := []types.Faculty{}
		if strings.TrimSpace(ids) == "" {
			response.WriteJSON(w, http.StatusOK, out)
			return
		}
		for _, id := range strings.Split(strings.TrimSpace(ids), ",") {
			f, err := h.svc.Get(r.Context(), strings.TrimSpace(id))
			if err != nil {
				h.fail(w, "list faculty", err, "")
				return
			}
			out = append(out, f)
		}
		response.WriteJSON(w, http.StatusOK, out)
	}
}

// QueryByIds handles POST /qapi/faculty
func (h *Handler) QueryByIds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("querying faculty by ids")

		var c types.FacultyQueryCriteria
		if _, err := request.DecodeJSON(r, &c, false); err != nil {
			h.fail(w, "query faculty", err, "")
			return
		}

		faculty, err := h.svc.ByIds(r.Context(), c.FacultyIds)
		if err != nil {
			var message string
			switch apperr.KindOf(err) {
			case apperr.KindSessionExpired:
				message = "Session has expired while retrieving faculty details"
			case apperr.KindPermission:
				message = "User does not have appropriate permissions to retrieve faculty details"
			default:
				message = "Exception occurred while retrieving faculty details"
			}
			h.fail(w, "query faculty", err, message)
			return
		}
		response.WriteJSON(w, http.StatusOK, faculty)
	}
}

// Restrictions handles GET /faculty/{facultyId}/restrictions
func (h *Handler) Restrictions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facultyID := r.PathValue("facultyId")
		h.log.Info("listing faculty restrictions", slog.String("facultyId", facultyID))

		restrictions, err := h.svc.Restrictions(r.Context(), facultyID)
		if err != nil {
			h.fail(w, "list faculty restrictions", err, "")
			return
		}
		response.WriteJSON(w, http.StatusOK, restrictions)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// QueryIds handles POST /qapi/query-faculty-ids
//
// Request body (JSON), optional:
//
//	{ "IncludeFacultyOnly": true, "IncludeAdvisorOnly": false }
//
// Without a body only advisor ids are returned.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) QueryIds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("querying faculty ids")

		c := types.FacultyQueryCriteria{IncludeAdvisorOnly: true}
		var body *types.FacultyQueryCriteria
		if _, err := request.DecodeJSON(r, &body, true); err != nil {
			h.fail(w, "query faculty ids", err, "")
			return
		}
		if body != nil {
			c = *body
		}

		ids, err := h.svc.QueryIds(r.Context(), c.IncludeFacultyOnly, c.IncludeAdvisorOnly)
		if err != nil {
			switch apperr.KindOf(err) {
			case apperr.KindSessionExpired:
				h.fail(w, "query faculty ids", err, "Session has expired while retrieving list of faculty ids")
			case apperr.KindPermission:
				h.fail(w, "query faculty ids", err, "")
			default:
				h.log.Error("query faculty ids", slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			}
			return
		}
		response.WriteJSON(w, http.StatusOK, ids)
	}
}

// PermissionCodes handles GET /faculty/permissions v1, the faculty function
// codes the caller holds.
func (h *Handler) PermissionCodes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing faculty permission codes")
		response.WriteJSON(w, http.StatusOK, h.svc.PermissionCodes(r.Context()))
	}
}

// Permissions handles GET /faculty/permissions v2.
func (h *Handler) Permissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("getting faculty permissions")
		response.WriteJSON(w, http.StatusOK, h.svc.Permissions(r.Context()))
	}
}

// OfficeHours handles POST /qapi/faculty/office-hours. The body is a JSON
// array of faculty ids.
func (h *Handler) OfficeHours() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("querying faculty office hours")

		var ids []string
		if _, err := request.DecodeJSON(r, &ids, true); err != nil {
			h.fail(w, "query faculty office hours", err, "An error occurred while retrieving faculty office hours")
			return
		}

		hours, err := h.svc.OfficeHours(r.Context(), ids)
		if err != nil {
			message := "An error occurred while retrieving faculty office hours"
			if apperr.Is(err, apperr.KindSessionExpired) {
				message = "Session has expired while retrieving list of faculty office hours"
			}
			h.fail(w, "query faculty office hours", err, message)
			return
		}
		response.WriteJSON(w, http.StatusOK, hours)
	}
}
