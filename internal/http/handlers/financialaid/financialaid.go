// Package financialaid serves student-financial-aid-awards and
// restricted-student-financial-aid-awards. Both resources share one route
// table and differ only in the service behind them.
package financialaid

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const pageSize = 200

// Service is what the award routes need from one variant.
type Service interface {
	ethos.Support
	Resource() string
	List(ctx context.Context, offset, limit int, f service.AwardFilter) ([]types.StudentFinancialAidAward, int, error)
	Get(ctx context.Context, id string) (types.StudentFinancialAidAward, error)
}

type version int

const (
	v7 version = iota
	v11
	v11_1
)

type Handler struct {
	awards     Service
	restricted Service
	pager      ethos.Pager
	log        *slog.Logger
}

func New(awards, restricted Service, pager ethos.Pager, log *slog.Logger) *Handler {
	return &Handler{awards: awards, restricted: restricted, pager: pager, log: log}
}

func (h *Handler) Register(reg *ethos.Registry) {
	for _, svc := range []Service{h.awards, h.restricted} {
		base := "/" + svc.Resource()
		reg.Handle("GET "+base,
			ethos.Route{Version: "11.1.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.List(svc, v11_1)},
			ethos.Route{Version: "11", MediaType: ethos.MediaTypeIntegration, Handler: h.List(svc, v11)},
			ethos.Route{Version: "7", MediaType: ethos.MediaTypeIntegration, Handler: h.List(svc, v7)},
		)
		reg.Handle("GET "+base+"/{id}",
			ethos.Route{Version: "11.1.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.Get(svc, v11_1)},
			ethos.Route{Version: "7", MediaType: ethos.MediaTypeIntegration, Handler: h.Get(svc, v7)},
		)
		for _, p := range []string{"POST " + base, "PUT " + base + "/{id}", "DELETE " + base + "/{id}"} {
			reg.Handle(p, ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "11.1.0", "11", "7")...)
		}
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusForbidden)
}

func shape(a types.StudentFinancialAidAward, v version) any {
	if v == v7 {
		return a.V7()
	}
	return a
}

// filter reads criteria (v11 and later) and personFilter (v11.1.0).
func filter(r *http.Request, v version) (f service.AwardFilter, empty bool, err error) {
	if v == v7 {
		return f, false, nil
	}

	var c types.FinancialAidAwardCriteria
	if empty, err = ethos.DecodeFilter(r, "criteria", &c); err != nil || empty {
		return f, empty, err
	}
	f.Student = types.RefID(c.Student)
	f.AwardFund = types.RefID(c.AwardFund)
	f.AidYear = types.RefID(c.AidYear)

	if v == v11_1 {
		var pf types.PersonFilterFilter
		if empty, err = ethos.DecodeFilter(r, "personFilter", &pf); err != nil || empty {
			return f, empty, err
		}
		f.PersonFilter = types.RefID(pf.PersonFilter)
	}
	return f, false, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /student-financial-aid-awards and its restricted twin.
//
// v11.1.0 accepts both named queries:
//
//	?criteria={"student":{"id":"..."},"aidYear":{"id":"..."}}
//	?personFilter={"personFilter":{"id":"..."}}
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) List(svc Service, v version) http.HandlerFunc {
	resource := svc.Resource()
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing financial aid awards", slog.String("resource", resource))

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list "+resource, err)
			return
		}

		f, empty, err := filter(r, v)
		if err != nil {
			h.fail(w, "list "+resource, err)
			return
		}
		if empty {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []types.StudentFinancialAidAward{}, ethos.Metadata{})
			return
		}

		items, total, err := svc.List(r.Context(), page.Offset, page.Limit, f)
		if err != nil {
			h.fail(w, "list "+resource, err)
			return
		}

		ids := make([]string, 0, len(items))
		out := make([]any, 0, len(items))
		for _, a := range items {
			ids = append(ids, a.ID)
			out = append(out, shape(a, v))
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, svc, resource, ids, http.StatusOK, out); err != nil {
			h.fail(w, "list "+resource, err)
		}
	}
}

// Get handles GET /student-financial-aid-awards/{id} and its restricted
// twin. An award of the other variant is not found.
func (h *Handler) Get(svc Service, v version) http.HandlerFunc {
	resource := svc.Resource()
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a financial aid award", slog.String("resource", resource), slog.String("id", id))

		a, err := svc.Get(r.Context(), id)
		if err != nil {
			h.fail(w, "get "+resource, err)
			return
		}
		if err := ethos.WriteResult(w, r, svc, resource, []string{a.ID}, http.StatusOK, shape(a, v)); err != nil {
			h.fail(w, "get "+resource, err)
		}
	}
}
