package housing

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/request"
)

// shapeAssignments returns the representation of items for the version.
func shapeAssignments(items []types.HousingAssignment, v10 bool) any {
	if !v10 {
		return items
	}
	out := make([]types.HousingAssignmentV10, 0, len(items))
	for _, a := range items {
		out = append(out, a.V10())
	}
	return out
}

func shapeAssignment(a types.HousingAssignment, v10 bool) any {
	if v10 {
		return a.V10()
	}
	return a
}

func assignmentIDs(items []types.HousingAssignment) []string {
	ids := make([]string, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
	}
	return ids
}

// ─────────────────────────────────────────────────────────────────────────────
// ListAssignments handles GET /housing-assignments
//
// Query: offset, limit and criteria={"person":{"id":"..."},"status":"..."}.
// A criteria value that is blank answers an empty page.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) ListAssignments(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("listing housing assignments")

		page, err := h.pager.Parse(r, pageSize)
		if err != nil {
			h.fail(w, "list housing assignments", err)
			return
		}

		var c types.HousingAssignmentCriteria
		empty, err := ethos.DecodeFilter(r, "criteria", &c)
		if err != nil {
			h.fail(w, "list housing assignments", err)
			return
		}
		if empty {
			h.pager.WriteHeaders(w, r, page, pageSize, 0)
			ethos.WriteShaped(w, http.StatusOK, []types.HousingAssignment{}, ethos.Metadata{})
			return
		}

		items, total, err := h.assignments.List(r.Context(), page.Offset, page.Limit, c)
		if err != nil {
			h.fail(w, "list housing assignments", err)
			return
		}

		h.pager.WriteHeaders(w, r, page, pageSize, total)
		if err := ethos.WriteResult(w, r, h.assignments, assignmentsResource, assignmentIDs(items), http.StatusOK, shapeAssignments(items, v10)); err != nil {
			h.fail(w, "list housing assignments", err)
		}
	}
}

// GetAssignment handles GET /housing-assignments/{id}
func (h *Handler) GetAssignment(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		h.log.Info("getting a housing assignment", slog.String("id", id))

		if err := request.RequireURLID(id); err != nil {
			h.fail(w, "get housing assignment", err)
			return
		}

		a, err := h.assignments.Get(r.Context(), id)
		if err != nil {
			h.fail(w, "get housing assignment", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.assignments, assignmentsResource, []string{a.ID}, http.StatusOK, shapeAssignment(a, v10)); err != nil {
			h.fail(w, "get housing assignment", err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateAssignment handles POST /housing-assignments
//
// The body id must be the nil GUID; the new id is assigned by the service.
// Properties the representation does not define are stored as extended
// data.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) CreateAssignment(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("creating a housing assignment")

		body, err := request.Body(w, r, "housingAssignment")
		if err != nil {
			h.fail(w, "create housing assignment", err)
			return
		}

		var a types.HousingAssignment
		var ext []byte
		if v10 {
			var v types.HousingAssignmentV10
			ext, err = ethos.SplitExtended(body, &v)
			a = v.Current()
		} else {
			ext, err = ethos.SplitExtended(body, &a)
		}
		if err != nil {
			h.fail(w, "create housing assignment", err)
			return
		}

		created, err := h.assignments.Create(r.Context(), a)
		if err != nil {
			h.fail(w, "create housing assignment", err)
			return
		}
		if err := h.assignments.ImportExtendedData(r.Context(), assignmentsResource, created.ID, ext); err != nil {
			h.fail(w, "create housing assignment", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.assignments, assignmentsResource, []string{created.ID}, http.StatusOK, shapeAssignment(created, v10)); err != nil {
			h.fail(w, "create housing assignment", err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateAssignment handles PUT /housing-assignments/{id}
//
// The body is merged over the stored assignment, so clients may send only
// the properties they change. Restricted properties keep their stored
// values.
// ─────────────────────────────────────────────────────────────────────────────
func (h *Handler) UpdateAssignment(v10 bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Info("updating a housing assignment", slog.String("id", r.PathValue("id")))
		ctx := r.Context()

		body, err := request.Body(w, r, "housingAssignment")
		if err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}
		id, err := request.PutID(r.PathValue("id"), request.BodyID(body))
		if err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}

		stored, err := h.assignments.Get(ctx, id)
		if err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}
		restricted, err := h.assignments.DataPrivacyList(ctx, assignmentsResource, true)
		if err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}

		var a types.HousingAssignment
		var ext []byte
		if v10 {
			var v types.HousingAssignmentV10
			ext, err = ethos.MergeUpdate(stored.V10(), body, restricted, &v)
			a = v.Current()
			a.ResidentType = stored.ResidentType
			a.ContractNumber = stored.ContractNumber
		} else {
			ext, err = ethos.MergeUpdate(stored, body, restricted, &a)
		}
		if err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}
		a.ID = id

		updated, err := h.assignments.Update(ctx, a)
		if err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}
		if err := h.assignments.ImportExtendedData(ctx, assignmentsResource, id, ext); err != nil {
			h.fail(w, "update housing assignment", err)
			return
		}

		if err := ethos.WriteResult(w, r, h.assignments, assignmentsResource, []string{id}, http.StatusOK, shapeAssignment(updated, v10)); err != nil {
			h.fail(w, "update housing assignment", err)
		}
	}
}
