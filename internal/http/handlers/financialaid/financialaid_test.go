package financialaid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/handlertest"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	awardID      = "c4d5e6f7-0000-4000-8000-000000000001"
	restrictedID = "c4d5e6f7-0000-4000-8000-000000000002"
	studentID    = "a1000000-0000-4000-8000-000000000001"
	filterID     = "f0000000-0000-4000-8000-000000000001"

	mt7  = "application/vnd.hedtech.integration.v7+json"
	mt11 = "application/vnd.hedtech.integration.v11+json"
)

type fakeService struct {
	handlertest.Support
	resource string
	award    types.StudentFinancialAidAward
	filter   *service.AwardFilter
	err      error
}

func (f *fakeService) Resource() string { return f.resource }

func (f *fakeService) List(_ context.Context, _, _ int, af service.AwardFilter) ([]types.StudentFinancialAidAward, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.filter = &af
	return []types.StudentFinancialAidAward{f.award}, 1, nil
}

func (f *fakeService) Get(_ context.Context, id string) (types.StudentFinancialAidAward, error) {
	if id != f.award.ID {
		return types.StudentFinancialAidAward{}, apperr.NotFound("No %s was found for GUID '%s'.", f.resource, id)
	}
	return f.award, nil
}

func award(id string) types.StudentFinancialAidAward {
	return types.StudentFinancialAidAward{
		ID:        id,
		Student:   types.Ref(studentID),
		AwardFund: types.Ref("fund-1"),
		AwardType: "grant",
		Status:    "accepted",
	}
}

func setup(t *testing.T) (http.Handler, *fakeService, *fakeService) {
	t.Helper()
	awards := &fakeService{resource: service.ResourceFinancialAidAwards, award: award(awardID)}
	restricted := &fakeService{resource: service.ResourceRestrictedFinancialAid, award: award(restrictedID)}
	return handlertest.Server(New(awards, restricted, handlertest.Pager(), handlertest.Logger()).Register), awards, restricted
}

func TestListVariants(t *testing.T) {
	srv, _, _ := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/student-financial-aid-awards", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "200", rec.Header().Get("X-Max-Page-Size"))
	assert.Contains(t, rec.Body.String(), awardID)

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/restricted-student-financial-aid-awards", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), restrictedID)
	assert.NotContains(t, rec.Body.String(), awardID)
}

func TestListFilters(t *testing.T) {
	srv, awards, _ := setup(t)

	criteria := url.QueryEscape(`{"student":{"id":"` + studentID + `"},"aidYear":{"id":"2024"}}`)
	personFilter := url.QueryEscape(`{"personFilter":{"id":"` + filterID + `"}}`)
	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet,
		"/student-financial-aid-awards?criteria="+criteria+"&personFilter="+personFilter, "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.AwardFilter{Student: studentID, AidYear: "2024", PersonFilter: filterID}, *awards.filter)

	t.Run("V11IgnoresPersonFilter", func(t *testing.T) {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet,
			"/student-financial-aid-awards?criteria="+criteria+"&personFilter="+personFilter, "", mt11))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, service.AwardFilter{Student: studentID, AidYear: "2024"}, *awards.filter)
	})

	t.Run("BlankPersonFilter", func(t *testing.T) {
		awards.filter = nil
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet,
			"/student-financial-aid-awards?personFilter="+url.QueryEscape(`{"personFilter":{"id":""}}`), "", ""))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		assert.Nil(t, awards.filter)
	})

	t.Run("UnknownCriteria", func(t *testing.T) {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet,
			"/student-financial-aid-awards?criteria="+url.QueryEscape(`{"bogus":1}`), "", ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetV7(t *testing.T) {
	srv, _, _ := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/student-financial-aid-awards/"+awardID, "", mt7))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "grant", got["awardType"])
	assert.NotContains(t, got, "status")

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/student-financial-aid-awards/"+restrictedID, "", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPermission(t *testing.T) {
	srv, _, restricted := setup(t)
	restricted.err = apperr.Permission("User '0000011' does not have permission to view restricted student financial aid awards.")

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/restricted-student-financial-aid-awards", "", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWritesNotSupported(t *testing.T) {
	srv, _, _ := setup(t)

	for _, base := range []string{"/student-financial-aid-awards", "/restricted-student-financial-aid-awards"} {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, base, `{}`, ""))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, base+"/"+awardID, `{}`, mt7))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodDelete, base+"/"+awardID, "", ""))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	}
}
