package housing

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
)

// ListRequests handles GET /housing-requests
func (h *Handler) ListRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing housing requests")

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list housing requests", err)
			return
		}

		items, total, err := h.requests.List(r.Context(), page.Offset, page.Limit)
		if err != nil {
			h.fail(w, "list housing requests", err)
			return
		}

		ids := make([]string, 0, len(items))
		for _, hr := range items {
			ids = append(ids, hr.ID)
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.requests, requestsResource, ids, http.StatusOK, items); err != nil {
			h.fail(w, "list housing requests", err)
		}
	}
}

// GetRequest handles GET /housing-requests/{id}
func (h *Handler) GetRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a housing request", slog.String("id", id))

		hr, err := h.requests.Get(r.Context(), id)
		if err != nil {
			h.fail(w, "get housing request", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.requests, requestsResource, []string{hr.ID}, http.StatusOK, hr); err != nil {
			h.fail(w, "get housing request", err)
		}
	}
}

// CreateRequest handles POST /housing-requests
func (h *Handler) CreateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("creating a housing request")

		body, err := request.Body(w, r, "housingRequest")
		if err != nil {
			h.fail(w, "create housing request", err)
			return
		}

		var hr types.HousingRequest
		ext, err := ethos.SplitExtended(body, &hr)
		if err != nil {
			h.fail(w, "create housing request", err)
			return
		}

		created, err := h.requests.Create(r.Context(), hr)
		if err != nil {
			h.fail(w, "create housing request", err)
			return
		}
		if err := h.requests.ImportExtendedData(r.Context(), requestsResource, created.ID, ext); err != nil {
			h.fail(w, "create housing request", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.requests, requestsResource, []string{created.ID}, http.StatusOK, created); err != nil {
			h.fail(w, "create housing request", err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateRequest handles PUT /housing-requests/{id}
//
// Same partial merge as housing assignments: only the properties present in
// the body replace the stored ones.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) UpdateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("updating a housing request", slog.String("id", r.PathValue("id")))
		ctx := r.Context()

		body, err := request.Body(w, r, "housingRequest")
		if err != nil {
			h.fail(w, "update housing request", err)
			return
		}
		id, err := request.PutIDMatching(r.PathValue("id"), request.BodyID(body))
		if err != nil {
			h.fail(w, "update housing request", err)
			return
		}

		stored, err := h.requests.Get(ctx, id)
		if err != nil {
			h.fail(w, "update housing request", err)
			return
		}
		restricted, err := h.requests.DataPrivacyList(ctx, requestsResource, true)
		if err != nil {
			h.fail(w, "update housing request", err)
			return
		}

		var hr types.HousingRequest
		ext, err := ethos.MergeUpdate(stored, body, restricted, &hr)
		if err != nil {
			h.fail(w, "update housing request", err)
			return
		}
		hr.ID = id

		updated, err := h.requests.Update(ctx, hr)
		if err != nil {
			h.fail(w, "update housing request", err)
			return
		}
		if err := h.requests.ImportExtendedData(ctx, requestsResource, id, ext); err != nil {
			h.fail(w, "update housing request", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.requests, requestsResource, []string{id}, http.StatusOK, updated); err != nil {
			h.fail(w, "update housing request", err)
		}
	}
}
