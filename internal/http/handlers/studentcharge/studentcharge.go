// Package studentcharge serves student-charges in its v6, v11 and v16.0.0
// representations.
package studentcharge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
)

const (
	pageSize = 100
	resource = service.ResourceStudentCharges
)

// Service is what the student-charges routes need.
type Service interface {
	ethos.Support
	List(ctx context.Context, offset, limit int, f service.ChargeFilter) ([]types.StoredStudentCharge, int, error)
	Get(ctx context.Context, id string) (types.StoredStudentCharge, error)
	Create(ctx context.Context, c types.StoredStudentCharge) (types.StoredStudentCharge, error)
}

type version int

const (
	v6 version = iota
	v11
	v16
)

// permissionStatus is 401 for the two older versions, which predate the
// switch to 403.
func (v version) permissionStatus() int {
	if v == v16 {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
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
	routes := func(handler func(version) http.HandlerFunc) []ethos.Route {
		return []ethos.Route{
			{Version: "16.0.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: handler(v16)},
			{Version: "11", MediaType: ethos.MediaTypeIntegration, Handler: handler(v11)},
			{Version: "6", MediaType: ethos.MediaTypeIntegration, Handler: handler(v6)},
		}
	}
	reg.Handle("GET /student-charges", routes(h.List)...)
	reg.Handle("GET /student-charges/{id}", routes(h.Get)...)
	reg.Handle("POST /student-charges", routes(h.Create)...)
	reg.Handle("PUT /student-charges/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "16.0.0", "11", "6")...)
	reg.Handle("DELETE /student-charges/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "16.0.0", "11", "6")...)
}

func (h *Handler) fail(w http.ResponseWriter, v version, op string, err error) {
	ethos.WriteError(w, h.log, op, err, v.permissionStatus())
}

func shape(c types.StoredStudentCharge, v version) any {
	switch v {
	case v6:
		return c.V6()
	case v11:
		return c.StudentCharge.V11()
	}
	return c.StudentCharge
}

// filter reads the version's filters. empty reports a supplied but blank
// filter value.
func filter(r *http.Request, v version) (f service.ChargeFilter, empty bool, err error) {
	switch v {
	case v6:
		q := r.URL.Query()
		for name, dst := range map[string]*string{
			"student":        &f.Person,
			"academicPeriod": &f.AcademicPeriod,
			"accountingCode": &f.FundingDestination,
			"chargeType":     &f.ChargeType,
		} {
			if !q.Has(name) {
				continue
			}
			value := strings.TrimSpace(q.Get(name))
			if value == "" || value == "null" {
				return f, true, nil
			}
			*dst = value
		}
		return f, false, nil

	case v11:
		var c types.StudentChargeV11Criteria
		if empty, err = ethos.DecodeFilter(r, "criteria", &c); err != nil || empty {
			return f, empty, err
		}
		f.Person = types.RefID(c.Person)
		f.AcademicPeriod = types.RefID(c.AcademicPeriod)
		f.FundingSource = types.RefID(c.FundingSource)
		f.FundingDestination = types.RefID(c.FundingDestination)
		f.ChargeType = c.ChargeType
		return f, false, nil
	}

	var c types.StudentChargeCriteria
	if empty, err = ethos.DecodeFilter(r, "criteria", &c); err != nil || empty {
		return f, empty, err
	}
	f.Person = types.RefID(c.Person)
	f.AcademicPeriod = types.RefID(c.AcademicPeriod)
	f.FundingSource = types.RefID(c.FundingSource)
	f.FundingDestination = types.RefID(c.FundingDestination)
	if c.ReportingDetail != nil {
		f.Usage = c.ReportingDetail.Usage
	}
	return f, false, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /student-charges
//
// v6 filters on the student, academicPeriod, accountingCode and chargeType
// query parameters; v11 and v16.0.0 take a criteria object:
//
//	?criteria={"person":{"id":"..."},"reportingDetail":{"usage":"taxReportingOnly"}}
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) List(v version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing student charges", slog.Int("version", int(v)))

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, v, "list student charges", err)
			return
		}

		f, empty, err := filter(r, v)
		if err != nil {
			h.fail(w, v, "list student charges", err)
			return
		}
		if empty {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []any{}, ethos.Metadata{})
			return
		}

		items, total, err := h.svc.List(r.Context(), page.Offset, page.Limit, f)
		if err != nil {
			h.fail(w, v, "list student charges", err)
			return
		}

		ids := make([]string, 0, len(items))
		out := make([]any, 0, len(items))
		for _, c := range items {
			ids = append(ids, c.ID)
			out = append(out, shape(c, v))
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.svc, resource, ids, http.StatusOK, out); err != nil {
			h.fail(w, v, "list student charges", err)
		}
	}
}

// Get handles GET /student-charges/{id}
func (h *Handler) Get(v version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a student charge", slog.String("id", id))

		c, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.fail(w, v, "get student charge", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, []string{c.ID}, http.StatusOK, shape(c, v)); err != nil {
			h.fail(w, v, "get student charge", err)
		}
	}
}

// decode reads a POST body in the version's shape and lifts it into the
// stored shape.
func decode(body []byte, v version) (types.StoredStudentCharge, json.RawMessage, error) {
	switch v {
	case v6:
		var c types.StudentChargeV6
		ext, err := ethos.SplitExtended(body, &c)
		return c.Stored(), ext, err
	case v11:
		var c types.StudentChargeV11
		ext, err := ethos.SplitExtended(body, &c)
		return types.StoredStudentCharge{StudentCharge: c.Current()}, ext, err
	}
	var c types.StudentCharge
	ext, err := ethos.SplitExtended(body, &c)
	return types.StoredStudentCharge{StudentCharge: c}, ext, err
}

// Create handles POST /student-charges. The id must be the nil GUID.
func (h *Handler) Create(v version) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("creating a student charge", slog.Int("version", int(v)))

		body, err := request.Body(w, r, "studentCharge")
		if err != nil {
			h.fail(w, v, "create student charge", err)
			return
		}
		c, ext, err := decode(body, v)
		if err != nil {
			h.fail(w, v, "create student charge", err)
			return
		}

		created, err := h.svc.Create(r.Context(), c)
		if err != nil {
			h.fail(w, v, "create student charge", err)
			return
		}
		if err := h.svc.ImportExtendedData(r.Context(), resource, created.ID, ext); err != nil {
			h.fail(w, v, "create student charge", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.svc, resource, []string{created.ID}, http.StatusOK, shape(created, v)); err != nil {
			h.fail(w, v, "create student charge", err)
		}
	}
}
