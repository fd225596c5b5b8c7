package service

import (
	"testing"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFaculty(t *testing.T, d Deps) {
	t.Helper()
	put(t, d, ResourceFaculty, "f1", types.FacultyRecord{
		Faculty:     types.Faculty{Id: "f1", LastName: "Curie", IsFaculty: true},
		OfficeHours: []types.OfficeHour{{DaysOfWeek: []string{"Monday"}, StartTime: "09:00", EndTime: "10:00"}},
		Restrictions: []types.PersonRestriction{
			{Id: "r1", StudentId: "f1", RestrictionId: "PARK", Title: "Parking"},
		},
	})
	put(t, d, ResourceFaculty, "f2", types.FacultyRecord{
		Faculty: types.Faculty{Id: "f2", LastName: "Bohr", IsAdvisor: true},
	})
	put(t, d, ResourceFaculty, "f3", types.FacultyRecord{
		Faculty: types.Faculty{Id: "f3", LastName: "Fermi", IsFaculty: true, IsAdvisor: true},
	})

	for _, s := range []types.FacultySection{
		{Id: "sec-past", FacultyIds: []string{"f1"}, StartDate: types.NewDate(2023, time.January, 10), EndDate: date(2023, time.May, 10)},
		{Id: "sec-now", FacultyIds: []string{"f1", "f3"}, StartDate: types.NewDate(2024, time.January, 10), EndDate: date(2024, time.May, 10)},
		{Id: "sec-next", FacultyIds: []string{"f1"}, StartDate: types.NewDate(2024, time.August, 20)},
	} {
		put(t, d, ResourceFacultySections, s.Id, s)
	}
}

func TestFacultySections(t *testing.T) {
	d, _ := newTestDeps(t)
	seedFaculty(t, d)
	svc := NewFaculty(d)
	ctx := as("f1")

	all, err := svc.Sections(ctx, "f1", FacultySectionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	now, err := svc.Sections(ctx, "f1", FacultySectionFilter{BestFit: true})
	require.NoError(t, err)
	require.Len(t, now, 1)
	assert.Equal(t, "sec-now", now[0].Id)

	from, err := svc.Sections(ctx, "f1", FacultySectionFilter{StartDate: date(2024, time.June, 1)})
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "sec-next", from[0].Id)

	_, err = svc.Sections(as("f2"), "f1", FacultySectionFilter{})
	requireKind(t, err, apperr.KindPermission, "")

	staff, err := svc.Sections(as("dean", PermViewFacultyInformation), "f3", FacultySectionFilter{})
	require.NoError(t, err)
	assert.Len(t, staff, 1)
}

func TestFacultyLookups(t *testing.T) {
	d, _ := newTestDeps(t)
	seedFaculty(t, d)
	svc := NewFaculty(d)
	ctx := as("dean", PermViewFacultyInformation)

	f, err := svc.Get(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, "Bohr", f.LastName)

	_, err = svc.Get(ctx, "f9")
	requireKind(t, err, apperr.KindNotFound, "Faculty 'f9' was not found.")

	many, err := svc.ByIds(ctx, []string{"f1", "f3", "f9"})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	ids, err := svc.QueryIds(ctx, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"f2", "f3"}, ids)

	ids, err = svc.QueryIds(ctx, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f3"}, ids)

	restrictions, err := svc.Restrictions(as("f1"), "f1")
	require.NoError(t, err)
	require.Len(t, restrictions, 1)
	assert.Equal(t, "PARK", restrictions[0].RestrictionId)

	restrictions, err = svc.Restrictions(ctx, "f2")
	require.NoError(t, err)
	assert.NotNil(t, restrictions)
	assert.Empty(t, restrictions)
}

func TestFacultyOfficeHours(t *testing.T) {
	d, _ := newTestDeps(t)
	seedFaculty(t, d)
	svc := NewFaculty(d)
	ctx := as("anyone")

	_, err := svc.OfficeHours(ctx, nil)
	requireKind(t, err, apperr.KindArgument, "IDs cannot be empty/null for Faculty office hours retrieval.")

	hours, err := svc.OfficeHours(ctx, []string{"f1", "f2"})
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, "f1", hours[0].FacultyId)
	assert.Len(t, hours[0].OfficeHours, 1)
	assert.NotNil(t, hours[1].OfficeHours)
}

func TestFacultyPermissions(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewFaculty(d)
	ctx := as("f1", PermUpdateGrades, PermDropStudent, PermViewStudentCharges)

	perms := svc.Permissions(ctx)
	assert.True(t, perms.CanUpdateGrades)
	assert.True(t, perms.CanDropStudent)
	assert.False(t, perms.CanGrantFacultyConsent)

	assert.Equal(t, []string{PermUpdateGrades, PermDropStudent}, svc.PermissionCodes(ctx))
	assert.Empty(t, svc.PermissionCodes(as("f2")))
}
