package grade

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/handlertest"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defID = "c0a8e3f1-0000-4000-8000-000000000001"

	pilotV1 = "application/vnd.ellucian-pilot.v1+json"
	pilotV2 = "application/vnd.ellucian-pilot.v2+json"
	maximum = "application/vnd.hedtech.integration.maximum.v6+json"
)

type fakeService struct {
	handlertest.Support
	err       error
	criteria  *types.GradeQueryCriteria
	verified  bool
	anonymous *types.AnonymousGradingQueryCriteria
}

func (f *fakeService) All(context.Context, bool) ([]types.Grade, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []types.Grade{{Id: "A", LetterGrade: "A", GradeSchemeCode: "UG"}}, nil
}

func (f *fakeService) PilotGrades(_ context.Context, c types.GradeQueryCriteria, includeVerified bool) ([]types.PilotGrade, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.criteria = &c
	f.verified = includeVerified
	verified := types.NewDate(2024, time.December, 20)
	g := types.PilotGrade{StudentId: c.StudentIds[0], SectionId: "sec-1", TermCode: c.Term, FinalGradeId: "A"}
	if includeVerified {
		g.VerifiedGradeTimestamp = &verified
	}
	return []types.PilotGrade{g}, nil
}

func (f *fakeService) AnonymousGradingIds(_ context.Context, c types.AnonymousGradingQueryCriteria) ([]types.StudentAnonymousGrading, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.anonymous = &c
	if c.StudentId == "" {
		return nil, apperr.Argument("a student id is required in order to retrieve grading ids for a student")
	}
	return []types.StudentAnonymousGrading{{AnonymousGradingId: "9001", TermId: "2024/FA"}}, nil
}

func (f *fakeService) GradeDefinitions(context.Context, bool) ([]types.GradeDefinition, error) {
	return []types.GradeDefinition{{ID: defID, Scheme: types.Ref("scheme-1"), Grade: &types.GradeItem{Type: "letter", Value: "A"}}}, nil
}

func (f *fakeService) GradeDefinition(_ context.Context, id string, _ bool) (types.GradeDefinition, error) {
	if id != defID {
		return types.GradeDefinition{}, apperr.NotFound("No grade definition was found for GUID '%s'.", id)
	}
	return types.GradeDefinition{ID: defID, Scheme: types.Ref("scheme-1")}, nil
}

func (f *fakeService) GradeDefinitionsMaximum(context.Context, bool) ([]types.GradeDefinitionMaximum, error) {
	return []types.GradeDefinitionMaximum{{ID: defID, Scheme: &types.GradeSchemeDetail{ID: "scheme-1", Code: "UG"}}}, nil
}

func (f *fakeService) GradeDefinitionMaximum(_ context.Context, id string, _ bool) (types.GradeDefinitionMaximum, error) {
	return types.GradeDefinitionMaximum{ID: id, Scheme: &types.GradeSchemeDetail{ID: "scheme-1", Code: "UG"}}, nil
}

func setup(t *testing.T) (http.Handler, *fakeService) {
	t.Helper()
	f := &fakeService{}
	return handlertest.Server(New(f, handlertest.Logger()).Register), f
}

func TestListGrades(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/grades", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[{"Id":"A","LetterGrade":"A","Description":"","GradeValue":null,"GradeSchemeCode":"UG",
		"IsWithdraw":false,"GradePriority":null,"IncompleteGrade":"","RequireLastAttendDate":false,
		"CanBeUsedAsFinalGrade":false,"ExcludeFromFacultyGrading":false}]`, rec.Body.String())

	f.err = apperr.Repository(assert.AnError, "read grades")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/grades", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Exception occurred while retrieving grades", handlertest.GeneralError(t, rec))

	f.err = apperr.SessionExpired()
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/grades", "", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Session has expired while retrieving grades", handlertest.GeneralError(t, rec))
}

func TestQueryPilot(t *testing.T) {
	srv, f := setup(t)
	body := `{"StudentIds":["0001234"],"Term":"2024/FA"}`

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/grades", body, pilotV1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, f.verified)
	assert.Equal(t, "2024/FA", f.criteria.Term)
	assert.NotContains(t, rec.Body.String(), "VerifiedGradeTimestamp")

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/grades", body, pilotV2))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, f.verified)
	var got []types.PilotGrade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-12-20", got[0].VerifiedGradeTimestamp.String())
}

func TestQueryPilotValidation(t *testing.T) {
	srv, f := setup(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"EmptyBody", "", "request body is empty"},
		{"MissingStudents", `{"Term":"2024/FA"}`, "field GradeQueryCriteria.StudentIds is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/grades", tc.body, pilotV2))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, handlertest.GeneralError(t, rec))
		})
	}
	assert.Nil(t, f.criteria)

	t.Run("Permission", func(t *testing.T) {
		f.err = apperr.Permission("User '0000011' does not have permission to view student grades.")
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/grades", `{"StudentIds":["1"]}`, pilotV1))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NoPilotMediaType", func(t *testing.T) {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/grades", `{"StudentIds":["1"]}`, "application/json"))
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})
}

func TestQueryAnonymousGradingIds(t *testing.T) {
	srv, f := setup(t)

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/anonymous-grading-ids",
		`{"StudentId":"0001234","TermIds":["2024/FA"]}`, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"2024/FA"}, f.anonymous.TermIds)
	assert.JSONEq(t, `[{"AnonymousGradingId":"9001","TermId":"2024/FA"}]`, rec.Body.String())

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/anonymous-grading-ids", `{}`, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "a student id is required in order to retrieve grading ids for a student", handlertest.GeneralError(t, rec))

	f.err = apperr.Permission("denied for 0001234")
	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/qapi/anonymous-grading-ids", `{"StudentId":"0001234"}`, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User is not permitted to retrieve anonymous grading ids for the student.", handlertest.GeneralError(t, rec))
}

func TestGradeDefinitions(t *testing.T) {
	srv, f := setup(t)
	f.Restricted = []string{"grade.value"}

	rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/grade-definitions", "", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.hedtech.integration.v6+json", rec.Header().Get("X-Media-Type"))
	assert.Equal(t, "partial", rec.Header().Get("X-Content-Restricted"))
	assert.JSONEq(t, `[{"id":"`+defID+`","scheme":{"id":"scheme-1"},"grade":{"type":"letter"}}]`, rec.Body.String())

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/grade-definitions/"+defID, "", maximum))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, maximum, rec.Header().Get("X-Media-Type"))
	assert.Contains(t, rec.Body.String(), `"code":"UG"`)

	rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodGet, "/grade-definitions/missing", "", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGradeDefinitionWritesNotSupported(t *testing.T) {
	srv, _ := setup(t)

	for _, accept := range []string{"", maximum} {
		rec := handlertest.Do(srv, handlertest.NewRequest(http.MethodPut, "/grade-definitions/"+defID, `{}`, accept))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodPost, "/grade-definitions", `{}`, accept))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		rec = handlertest.Do(srv, handlertest.NewRequest(http.MethodDelete, "/grade-definitions/"+defID, "", accept))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	}
}
