package housing

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/handlertest"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA   = "6f3b2c1a-0000-4000-8000-00000000000a"
	idB   = "6f3b2c1a-0000-4000-8000-00000000000b"
	idC   = "6f3b2c1a-0000-4000-8000-00000000000c"
	newID = "6f3b2c1a-0000-4000-8000-0000000000ff"

	v16 = "application/vnd.hedtech.integration.v16.0.0+json"
	v10 = "application/vnd.hedtech.integration.v10.1.0+json"
)

type fakeAssignments struct {
	handlertest.Support
	items     []types.HousingAssignment
	criteria  *types.HousingAssignmentCriteria
	updated   *types.HousingAssignment
	err       error
	updateErr error
}

func (f *fakeAssignments) List(_ context.Context, offset, limit int, c types.HousingAssignmentCriteria) ([]types.HousingAssignment, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.criteria = &c
	return ethos.Slice(f.items, ethos.Page{Offset: offset, Limit: limit}), len(f.items), nil
}

func (f *fakeAssignments) Get(_ context.Context, id string) (types.HousingAssignment, error) {
	if f.err != nil {
		return types.HousingAssignment{}, f.err
	}
	for _, a := range f.items {
		if strings.EqualFold(a.ID, id) {
			return a, nil
		}
	}
	return types.HousingAssignment{}, apperr.NotFound("No housing assignment was found for GUID '%s'.", id)
}

func (f *fakeAssignments) Create(_ context.Context, a types.HousingAssignment) (types.HousingAssignment, error) {
	if !types.IsNilGUID(a.ID) {
		return a, apperr.Argument("On a post you can not define a GUID.")
	}
	a.ID = newID
	f.items = append(f.items, a)
	return a, nil
}

func (f *fakeAssignments) Update(_ context.Context, a types.HousingAssignment) (types.HousingAssignment, error) {
	if f.updateErr != nil {
		return a, f.updateErr
	}
	f.updated = &a
	return a, nil
}

type fakeRequests struct {
	handlertest.Support
	stored  types.HousingRequest
	updated *types.HousingRequest
}

func (f *fakeRequests) List(context.Context, int, int) ([]types.HousingRequest, int, error) {
	return []types.HousingRequest{f.stored}, 1, nil
}

func (f *fakeRequests) Get(_ context.Context, id string) (types.HousingRequest, error) {
	if !strings.EqualFold(id, f.stored.ID) {
		return types.HousingRequest{}, apperr.NotFound("No housing request was found for GUID '%s'.", id)
	}
	return f.stored, nil
}

func (f *fakeRequests) Create(_ context.Context, hr types.HousingRequest) (types.HousingRequest, error) {
	hr.ID = newID
	return hr, nil
}

func (f *fakeRequests) Update(_ context.Context, hr types.HousingRequest) (types.HousingRequest, error) {
	f.updated = &hr
	return hr, nil
}

func date(y int, m time.Month, d int) *types.Date {
	v := types.NewDate(y, m, d)
	return &v
}

func assignment(id string) types.HousingAssignment {
	return types.HousingAssignment{
		ID:                  id,
		Person:              types.Ref("person-1"),
		Room:                types.Ref("room-1"),
		StartOn:             date(2024, time.August, 20),
		EndOn:               date(2024, time.December, 15),
		Status:              types.HousingAssignmentStatusAssigned,
		StatusDate:          date(2024, time.March, 1),
		Comment:             "corner room",
		ContractNumber:      "C-100",
		BillingOverrideRate: &types.Amount{Value: decimal.NewFromInt(1200), Currency: "USD"},
	}
}

func setup(t *testing.T) (http.Handler, *fakeAssignments, *fakeRequests) {
	t.Helper()
	fa := &fakeAssignments{items: []types.HousingAssignment{assignment(idA), assignment(idB), assignment(idC)}}
	fr := &fakeRequests{stored: types.HousingRequest{
		ID:      idA,
		Person:  types.Ref("person-1"),
		StartOn: date(2024, time.August, 1),
		Status:  types.HousingRequestStatusSubmitted,
	}}
	h := New(fa, fr, handlertest.Pager(), handlertest.Logger())
	return handlertest.Server(h.Register), fa, fr
}

func TestListAssignments(t *testing.T) {
	srv, fa, _ := setup(t)
	fa.Restricted = []string{"comment"}

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/housing-assignments?limit=2", "", v16))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, "100", rec.Header().Get("X-Max-Page-Size"))
	assert.Equal(t, "partial", rec.Header().Get("X-Content-Restricted"))
	assert.Equal(t, v16, rec.Header().Get("X-Media-Type"))
	assert.Contains(t, rec.Header().Get("Link"), `rel="next"`)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.NotContains(t, got[0], "comment")
	assert.Equal(t, "C-100", got[0]["contractNumber"])
}

func TestListAssignmentsCriteria(t *testing.T) {
	srv, fa, _ := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet,
		`/housing-assignments?criteria={"person":{"id":"person-1"},"status":"assigned"}`, "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, fa.criteria)
	assert.Equal(t, "person-1", fa.criteria.Person.ID)
	assert.Equal(t, "assigned", fa.criteria.Status)

	t.Run("BlankValueIsEmptyPage", func(t *testing.T) {
		fa.criteria = nil
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, `/housing-assignments?criteria={"person":{"id":""}}`, "", ""))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
		assert.Nil(t, fa.criteria)
	})

	t.Run("UnknownProperty", func(t *testing.T) {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, `/housing-assignments?criteria={"building":{"id":"b"}}`, "", ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAssignmentV10(t *testing.T) {
	srv, _, _ := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/housing-assignments/"+idB, "", v10))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, idB, got["id"])
	assert.Contains(t, got, "overrideRate")
	assert.NotContains(t, got, "contractNumber")
}

func TestGetAssignmentErrors(t *testing.T) {
	srv, fa, _ := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/housing-assignments/"+newID, "", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	fa.err = apperr.Permission("User 'p1' does not have permission to view housing assignments.")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/housing-assignments/"+idA, "", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User 'p1' does not have permission to view housing assignments.", handlertest.ErrorDescription(t, rec))

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/housing-assignments/"+idA, "", "application/vnd.hedtech.integration.v2+json"))
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestCreateAssignment(t *testing.T) {
	srv, fa, _ := setup(t)

	body := `{"id":"00000000-0000-0000-0000-000000000000","person":{"id":"p9"},"room":{"id":"r9"},
		"startOn":"2024-08-20","endOn":"2024-12-15","status":"assigned","statusDate":"2024-03-01","roomKey":"K-9"}`
	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/housing-assignments", body, v16))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got types.HousingAssignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, newID, got.ID)
	assert.Equal(t, "r9", got.Room.ID)
	assert.JSONEq(t, `{"roomKey":"K-9"}`, string(fa.Imported[newID]))

	t.Run("GUIDOnPost", func(t *testing.T) {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/housing-assignments", `{"id":"`+idA+`"}`, v16))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "On a post you can not define a GUID.", handlertest.ErrorDescription(t, rec))
	})

	t.Run("EmptyBody", func(t *testing.T) {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/housing-assignments", "", v16))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "The request body is required.", handlertest.ErrorDescription(t, rec))
	})
}

func TestUpdateAssignmentMergesPartialBody(t *testing.T) {
	srv, fa, _ := setup(t)
	fa.Restricted = []string{"contractNumber"}

	body := `{"comment":"window seat","contractNumber":"HACKED"}`
	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, "/housing-assignments/"+strings.ToUpper(idB), body, v16))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, fa.updated)
	assert.Equal(t, idB, fa.updated.ID)
	assert.Equal(t, "window seat", fa.updated.Comment)
	assert.Equal(t, "room-1", fa.updated.Room.ID)
	assert.Equal(t, "C-100", fa.updated.ContractNumber)
	assert.True(t, fa.updated.BillingOverrideRate.Value.Equal(decimal.NewFromInt(1200)))
}

func TestUpdateAssignmentV10KeepsCurrentOnlyFields(t *testing.T) {
	srv, fa, _ := setup(t)

	body := `{"id":"` + idA + `","overrideRate":{"value":950,"currency":"USD"}}`
	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, "/housing-assignments/"+idA, body, v10))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, fa.updated)
	assert.True(t, fa.updated.BillingOverrideRate.Value.Equal(decimal.NewFromInt(950)))
	assert.Equal(t, "C-100", fa.updated.ContractNumber)
}

func TestUpdateAssignmentIDRules(t *testing.T) {
	srv, fa, _ := setup(t)

	tests := []struct {
		name string
		path string
		body string
		desc string
	}{
		{"NilGUID", "/housing-assignments/00000000-0000-0000-0000-000000000000", `{"comment":"x"}`, "Nil GUID cannot be used in PUT operation."},
		{"Mismatch", "/housing-assignments/" + idA, `{"id":"` + idB + `"}`, "Id not the same as in request body."},
		{"NoBody", "/housing-assignments/" + idA, ``, "The request body is required."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, tc.path, tc.body, v16))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.desc, handlertest.ErrorDescription(t, rec))
		})
	}
	assert.Nil(t, fa.updated)
}

func TestDeleteAssignmentNotSupported(t *testing.T) {
	srv, _, _ := setup(t)

	for _, accept := range []string{v16, v10, ""} {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodDelete, "/housing-assignments/"+idA, "", accept))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, accept)
	}
}

func TestUpdateRequestKeepsRestrictedProperties(t *testing.T) {
	srv, _, fr := setup(t)
	fr.Restricted = []string{"startOn"}

	body := `{"id":"` + idA + `","startOn":"2030-01-01","status":"canceled","floorCharacteristics":{"preferred":{"id":"f1"},"required":"mandatory"}}`
	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, "/housing-requests/"+idA, body, ""))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, fr.updated)
	assert.Equal(t, "2024-08-01", fr.updated.StartOn.String())
	assert.Equal(t, types.HousingRequestStatusCanceled, fr.updated.Status)
	assert.Equal(t, "f1", fr.updated.FloorCharacteristics.Preferred.ID)
	assert.Equal(t, "partial", rec.Header().Get("X-Content-Restricted"))
}

func TestUpdateRequestRequiresBodyID(t *testing.T) {
	srv, _, fr := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, "/housing-requests/"+idA, `{"status":"canceled"}`, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Id not the same as in request body.", handlertest.ErrorDescription(t, rec))
	assert.Nil(t, fr.updated)
}

func TestUpdateAssignmentRejectedStoresNoExtendedData(t *testing.T) {
	for _, tc := range []struct {
		name   string
		err    error
		status int
	}{
		{"Permission", apperr.Permission("User 'viewer' does not have permission to update housing assignments."), http.StatusForbidden},
		{"Validation", apperr.Argument("The startOn date must be on or before the endOn date."), http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv, fa, _ := setup(t)
			fa.updateErr = tc.err

			body := `{"id":"` + idA + `","comment":"x","roomKey":"K-1"}`
			rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, "/housing-assignments/"+idA, body, v16))
			assert.Equal(t, tc.status, rec.Code)
			assert.Empty(t, fa.Imported)
		})
	}
}

func TestListRequests(t *testing.T) {
	srv, _, fr := setup(t)
	fr.Extended = map[string]json.RawMessage{idA: json.RawMessage(`{"priority":2}`)}

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/housing-requests", "", "application/vnd.hedtech.integration.v10+json"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0]["priority"])
}
