// Package crosslist serves section-crosslists, the one EEDM resource here
// that supports every verb including DELETE.
package crosslist

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
)

const (
	pageSize = 500
	resource = service.ResourceSectionCrosslists
)

// Service is what the section-crosslists routes need.
type Service interface {
	ethos.Support
	List(ctx context.Context, offset, limit int, section string) ([]types.SectionCrosslist, int, error)
	Get(ctx context.Context, id string) (types.SectionCrosslist, error)
	Create(ctx context.Context, c types.SectionCrosslist) (types.SectionCrosslist, error)
	Update(ctx context.Context, c types.SectionCrosslist) (types.SectionCrosslist, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	svc   Service
	pager ethos.Pager
	log   *slog.Logger
}

func New(svc Service, pager ethos.Pager, log *slog.Logger) *Handler {
	return &Handler{svc: svc, pager: pager, log: log}
}

func route(h http.HandlerFunc) ethos.Route {
	return ethos.Route{Version: "6", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h}
}

func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("GET /section-crosslists", route(h.List()))
	reg.Handle("GET /section-crosslists/{id}", route(h.Get()))
	reg.Handle("POST /section-crosslists", route(h.Create()))
	reg.Handle("PUT /section-crosslists/{id}", route(h.Update()))
	reg.Handle("DELETE /section-crosslists/{id}", route(h.Delete()))
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusForbidden)
}

// List handles GET /section-crosslists. The section query parameter keeps
// only crosslists containing that section; the literal "null" matches
// nothing.
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing section crosslists")

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list section crosslists", err)
			return
		}

		section := r.URL.Query().Get("section")
		if section == "null" {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []types.SectionCrosslist{}, ethos.Metadata{})
			return
		}

		items, total, err := h.svc.List(r.Context(), page.Offset, page.Limit, section)
		if err != nil {
			h.fail(w, "list section crosslists", err)
			return
		}

		ids := make([]string, 0, len(items))
		for _, c := range items {
			ids = append(ids, c.ID)
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.svc, resource, ids, http.StatusOK, items); err != nil {
			h.fail(w, "list section crosslists", err)
		}
	}
}

// Get handles GET /section-crosslists/{id}
func (h *Handler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a section crosslist", slog.String("id", id))

		if err := request.RequireURLID(id); err != nil {
			h.fail(w, "get section crosslist", err)
			return
		}

		c, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.fail(w, "get section crosslist", err)
			return
		}
		if err := ethos.WriteResult(w, r, h.svc, resource, []string{c.ID}, http.StatusOK, c); err != nil {
			h.fail(w, "get section crosslist", err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /section-crosslists
//
// Request body (JSON), id must be the nil GUID:
//
//	{
//	  "id": "00000000-0000-0000-0000-000000000000",
//	  "sections": [
//	    { "section": { "id": "..." }, "type": "primary" },
//	    { "section": { "id": "..." }, "type": "secondary" }
//	  ]
//	}
//
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("creating a section crosslist")

		body, err := request.Body(w, r, "sectioncrosslist")
		if err != nil {
			h.fail(w, "create section crosslist", err)
			return
		}

		var c types.SectionCrosslist
		ext, err := ethos.SplitExtended(body, &c)
		if err != nil {
			h.fail(w, "create section crosslist", err)
			return
		}

		created, err := h.svc.Create(r.Context(), c)
		if err != nil {
			h.fail(w, "create section crosslist", err)
			return
		}
		if err := h.svc.ImportExtendedData(r.Context(), resource, created.ID, ext); err != nil {
			h.fail(w, "create section crosslist", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.svc, resource, []string{created.ID}, http.StatusOK, created); err != nil {
			h.fail(w, "create section crosslist", err)
		}
	}
}

// Update handles PUT /section-crosslists/{id}. Unlike the other resources
// the body must carry an id, and it must match the URL.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urlID := r.PathValue("id")
		h.log.Info("updating a section crosslist", slog.String("id", urlID))
		ctx := r.Context()

		if err := request.RequireURLID(urlID); err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}
		body, err := request.Body(w, r, "sectioncrosslist")
		if err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}
		bodyID := request.BodyID(body)
		switch {
		case bodyID == "":
			h.fail(w, "update section crosslist", apperr.Integration("Null id argument", "The id must be specified in the request body."))
			return
		case !strings.EqualFold(urlID, bodyID):
			h.fail(w, "update section crosslist", apperr.Integration("GUID mismatch", "GUID not the same as in request body."))
			return
		}
		id := strings.ToLower(urlID)

		stored, err := h.svc.Get(ctx, id)
		if err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}
		restricted, err := h.svc.DataPrivacyList(ctx, resource, true)
		if err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}

		var c types.SectionCrosslist
		ext, err := ethos.MergeUpdate(stored, body, restricted, &c)
		if err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}
		c.ID = id

		updated, err := h.svc.Update(ctx, c)
		if err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}
		if err := h.svc.ImportExtendedData(ctx, resource, id, ext); err != nil {
			h.fail(w, "update section crosslist", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.svc, resource, []string{id}, http.StatusOK, updated); err != nil {
			h.fail(w, "update section crosslist", err)
		}
	}
}

// Delete handles DELETE /section-crosslists/{id} and answers 204.
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("deleting a section crosslist", slog.String("id", id))

		if err := request.RequireURLID(id); err != nil {
			h.fail(w, "delete section crosslist", err)
			return
		}
		if err := h.svc.Delete(r.Context(), id); err != nil {
			h.fail(w, "delete section crosslist", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
