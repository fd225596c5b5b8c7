package faculty

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/handlertest"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	err         error
	filter      *service.FacultySectionFilter
	gets        []string
	facultyOnly bool
	advisorOnly bool
	hoursIDs    []string
}

func (f *fakeService) Sections(_ context.Context, _ string, sf service.FacultySectionFilter) ([]types.FacultySection, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.filter = &sf
	return []types.FacultySection{{
		Id:              "sec-1",
		CourseId:        "MATH-100",
		StartDate:       types.NewDate(2024, time.August, 26),
		FacultyIds:      []string{"0000011"},
		GradeSchemeCode: "UG",
		OnlineCategory:  "hybrid",
		AllowWaitlist:   true,
		ShowDropRoster:  true,
	}}, nil
}

func (f *fakeService) Get(_ context.Context, id string) (types.Faculty, error) {
	if f.err != nil {
		return types.Faculty{}, f.err
	}
	f.gets = append(f.gets, id)
	return types.Faculty{Id: id, LastName: "Hopper", IsFaculty: true}, nil
}

func (f *fakeService) ByIds(_ context.Context, ids []string) ([]types.Faculty, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []types.Faculty{}
	for _, id := range ids {
		out = append(out, types.Faculty{Id: id})
	}
	return out, nil
}

func (f *fakeService) QueryIds(_ context.Context, facultyOnly, advisorOnly bool) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.facultyOnly, f.advisorOnly = facultyOnly, advisorOnly
	return []string{"0000011"}, nil
}

func (f *fakeService) Restrictions(_ context.Context, facultyID string) ([]types.PersonRestriction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []types.PersonRestriction{{Id: "r1", StudentId: facultyID, Title: "Parking"}}, nil
}

func (f *fakeService) OfficeHours(_ context.Context, ids []string) ([]types.FacultyOfficeHours, error) {
	if ids == nil {
		return nil, apperr.Argument("IDs cannot be empty/null for Faculty office hours retrieval.")
	}
	f.hoursIDs = ids
	return []types.FacultyOfficeHours{{FacultyId: ids[0], OfficeHours: []types.OfficeHour{}}}, nil
}

func (f *fakeService) PermissionCodes(context.Context) []string {
	return []string{service.PermUpdateGrades}
}

func (f *fakeService) Permissions(context.Context) types.FacultyPermissions {
	return types.FacultyPermissions{CanUpdateGrades: true}
}

func setup(t *testing.T) (http.Handler, *fakeService) {
	t.Helper()
	f := &fakeService{}
	return handlertest.Server(New(f, handlertest.Logger()).Register), f
}

func TestSections(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet,
		"/faculty/0000011/sections?startDate=2024-08-01&endDate=2024-12-31&bestFit=true", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, f.filter)
	assert.Equal(t, "2024-08-01", f.filter.StartDate.String())
	assert.Equal(t, "2024-12-31", f.filter.EndDate.String())
	assert.True(t, f.filter.BestFit)

	var v5 []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v5))
	require.Len(t, v5, 1)
	assert.Equal(t, "UG", v5[0]["GradeSchemeCode"])
	assert.Equal(t, true, v5[0]["AllowWaitlist"])

}

func TestSectionsShapePerVersion(t *testing.T) {
	srv, _ := setup(t)

	keys := func(accept string) []string {
		t.Helper()
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/sections", "", accept))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "MATH-100", got[0]["CourseId"])
		out := make([]string, 0, len(got[0]))
		for k := range got[0] {
			out = append(out, k)
		}
		return out
	}

	v1 := keys("application/vnd.ellucian.v1+json")
	v2 := keys("application/vnd.ellucian.v2+json")
	v3 := keys("application/vnd.ellucian.v3+json")
	v4 := keys("application/vnd.ellucian.v4+json")
	v5 := keys("application/vnd.ellucian.v5+json")

	assert.NotContains(t, v1, "OnlineCategory")
	assert.Contains(t, v2, "OnlineCategory")
	assert.NotContains(t, v2, "GradeSchemeCode")
	assert.Contains(t, v3, "GradeSchemeCode")
	assert.Contains(t, v3, "AllowWaitlist")
	assert.NotContains(t, v3, "ShowDropRoster")
	assert.ElementsMatch(t, v3, v4)
	assert.Contains(t, v5, "ShowDropRoster")
	assert.Contains(t, v5, "GradeVerifyDate")

	assert.Len(t, v2, len(v1)+1)
	assert.Len(t, v3, len(v2)+2)
	assert.Len(t, v5, len(v3)+2)
}

func TestSectionsErrors(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/sections?startDate=08/01/2024", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "'08/01/2024' is not a valid startDate.", handlertest.GeneralError(t, rec))

	f.err = apperr.Argument("boom")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/sections", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "An error occurred while retrieving faculty details", handlertest.GeneralError(t, rec))

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/sections", "", "application/vnd.ellucian.v2+json"))
	assert.Equal(t, "boom", handlertest.GeneralError(t, rec))

	f.err = apperr.SessionExpired()
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/sections", "", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperr.SessionExpiredMessage, handlertest.GeneralError(t, rec))
}

func TestGetAndListByIdString(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"LastName":"Hopper"`)

	f.gets = nil
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/faculty", `"0000011, 0000012"`, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"0000011", "0000012"}, f.gets)

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/faculty", "", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestQueryByIds(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/faculty", `{"FacultyIds":["0000011"]}`, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []types.Faculty
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)

	f.err = apperr.Permission("nope")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/faculty", `{"FacultyIds":["0000011"]}`, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User does not have appropriate permissions to retrieve faculty details", handlertest.GeneralError(t, rec))
}

func TestQueryIds(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/query-faculty-ids", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, f.facultyOnly)
	assert.True(t, f.advisorOnly)

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/query-faculty-ids",
		`{"IncludeFacultyOnly":true,"IncludeAdvisorOnly":false}`, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.facultyOnly)
	assert.False(t, f.advisorOnly)
	assert.JSONEq(t, `["0000011"]`, rec.Body.String())

	f.err = apperr.Repository(assert.AnError, "read faculty")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/query-faculty-ids", "", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRestrictions(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/restrictions", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Title":"Parking"`)

	f.err = apperr.Permission("User '0000099' does not have permission to view restrictions for faculty '0000011'.")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/0000011/restrictions", "", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User '0000099' does not have permission to view restrictions for faculty '0000011'.", handlertest.GeneralError(t, rec))
}

func TestPermissions(t *testing.T) {
	srv, _ := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/permissions", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var flags types.FacultyPermissions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flags))
	assert.True(t, flags.CanUpdateGrades)
	assert.False(t, flags.CanDropStudent)

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/faculty/permissions", "", "application/vnd.ellucian.v1+json"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["`+service.PermUpdateGrades+`"]`, rec.Body.String())
}

func TestOfficeHours(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/faculty/office-hours", `["0000011"]`, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"0000011"}, f.hoursIDs)
	assert.JSONEq(t, `[{"FacultyId":"0000011","OfficeHours":[]}]`, rec.Body.String())

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/faculty/office-hours", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "An error occurred while retrieving faculty office hours", handlertest.GeneralError(t, rec))
}
