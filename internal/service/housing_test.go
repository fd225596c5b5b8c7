package service

import (
	"testing"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *types.Date {
	v := types.NewDate(y, m, d)
	return &v
}

func validAssignment() types.HousingAssignment {
	return types.HousingAssignment{
		ID:         types.NilGUID,
		Person:     types.Ref("person-1"),
		Room:       types.Ref("room-1"),
		StartOn:    date(2024, time.August, 20),
		EndOn:      date(2024, time.December, 15),
		Status:     types.HousingAssignmentStatusAssigned,
		StatusDate: date(2024, time.March, 1),
	}
}

func TestHousingAssignmentCreate(t *testing.T) {
	d, rec := newTestDeps(t)
	svc := NewHousingAssignments(d)
	ctx := as("staff", PermCreateUpdateHousingAssignment)

	created, err := svc.Create(ctx, validAssignment())
	require.NoError(t, err)
	assert.True(t, validGUID(created.ID))

	n := rec.last(t)
	assert.Equal(t, ResourceHousingAssignments, n.Resource.Name)
	assert.Equal(t, "16.0.0", n.Resource.Version)
	assert.Equal(t, events.OperationCreated, n.Operation)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "room-1", got.Room.ID)
}

func TestHousingAssignmentCreateRejects(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewHousingAssignments(d)
	ctx := as("staff", PermCreateUpdateHousingAssignment)

	tests := []struct {
		name   string
		modify func(a *types.HousingAssignment)
		msg    string
	}{
		{"GUIDOnPost", func(a *types.HousingAssignment) { a.ID = "6f3b2c1a-0000-4000-8000-000000000001" }, "On a post you can not define a GUID."},
		{"NoPerson", func(a *types.HousingAssignment) { a.Person = nil }, "The person property is a required property."},
		{"EmptyPersonID", func(a *types.HousingAssignment) { a.Person = &types.GUIDObject{} }, "The person id property is a required property."},
		{"NoRoom", func(a *types.HousingAssignment) { a.Room = nil }, "The room property is required."},
		{"NoEnd", func(a *types.HousingAssignment) { a.EndOn = nil }, "The endOn property is required."},
		{"EndBeforeStart", func(a *types.HousingAssignment) { a.EndOn = date(2024, time.August, 1) }, "The end date cannot be earlier start date."},
		{"NoStatusDate", func(a *types.HousingAssignment) { a.StatusDate = nil }, "The statusDate property is required."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := validAssignment()
			tc.modify(&a)
			_, err := svc.Create(ctx, a)
			requireKind(t, err, apperr.KindArgument, tc.msg)
		})
	}
}

func TestHousingAssignmentPermissions(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewHousingAssignments(d)

	_, _, err := svc.List(as("nobody"), 0, 100, types.HousingAssignmentCriteria{})
	requireKind(t, err, apperr.KindPermission, "")

	_, err = svc.Create(as("viewer", PermViewHousingAssignment), validAssignment())
	requireKind(t, err, apperr.KindPermission, "")
}

func TestHousingAssignmentListCriteria(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewHousingAssignments(d)
	ctx := as("staff", PermCreateUpdateHousingAssignment)

	for _, person := range []string{"p1", "p2", "p1"} {
		a := validAssignment()
		a.Person = types.Ref(person)
		_, err := svc.Create(ctx, a)
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, 0, 100, types.HousingAssignmentCriteria{Person: types.Ref("p1")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = svc.List(ctx, 1, 1, types.HousingAssignmentCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)
}

func TestHousingAssignmentUpdateMissing(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewHousingAssignments(d)

	a := validAssignment()
	a.ID = "6f3b2c1a-0000-4000-8000-000000000009"
	_, err := svc.Update(as("staff", PermCreateUpdateHousingAssignment), a)
	requireKind(t, err, apperr.KindNotFound, "")
}

func validHousingRequest() types.HousingRequest {
	return types.HousingRequest{
		ID:      types.NilGUID,
		Person:  types.Ref("person-1"),
		StartOn: date(2024, time.August, 20),
		Status:  types.HousingRequestStatusSubmitted,
	}
}

func TestHousingRequestValidation(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewHousingRequests(d)
	ctx := as("staff", PermCreateHousingRequest)
	notSet := types.RequiredNotSet
	mandatory := types.RequiredMandatory

	tests := []struct {
		name   string
		modify func(hr *types.HousingRequest)
		msg    string
	}{
		{"EmptyID", func(hr *types.HousingRequest) { hr.ID = "" }, "The id must be specified in the request body."},
		{"NoStart", func(hr *types.HousingRequest) { hr.StartOn = nil }, "The startOn property is a required property."},
		{"StartAfterEnd", func(hr *types.HousingRequest) { hr.EndOn = date(2024, time.January, 1) }, "The start date cannot be after end date."},
		{"Approved", func(hr *types.HousingRequest) { hr.Status = types.HousingRequestStatusApproved }, "The approved status is not allowed in PUT/POST."},
		{"RoomPreferredID", func(hr *types.HousingRequest) {
			hr.RoomCharacteristics = []types.RoomCharacteristicPref{{Preferred: &types.GUIDObject{}}}
		}, "The roomCharacteristic prefered property id is required if prefered included."},
		{"RoomRequiredNotSet", func(hr *types.HousingRequest) {
			hr.RoomCharacteristics = []types.RoomCharacteristicPref{{Preferred: types.Ref("c1"), Required: &notSet}}
		}, "The roomCharacteristic required property is required if included."},
		{"FloorPreferred", func(hr *types.HousingRequest) {
			hr.FloorCharacteristics = &types.FloorCharacteristicPref{Required: &mandatory}
		}, "The floor characteristics preferred is required if floor characteristics included."},
		{"FloorRequired", func(hr *types.HousingRequest) {
			hr.FloorCharacteristics = &types.FloorCharacteristicPref{Preferred: types.Ref("f1")}
		}, "The floor characteristics required property is required if characteristics required included."},
		{"RoommateRequired", func(hr *types.HousingRequest) {
			hr.RoommatePreferences = []types.RoommatePreference{{Roommate: &types.RoommatePref{Preferred: types.Ref("p2"), Required: &notSet}}}
		}, "The roommate required property is required if required included."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hr := validHousingRequest()
			tc.modify(&hr)
			_, err := svc.Create(ctx, hr)
			requireKind(t, err, apperr.KindArgument, tc.msg)
		})
	}

	t.Run("Valid", func(t *testing.T) {
		hr := validHousingRequest()
		hr.FloorCharacteristics = &types.FloorCharacteristicPref{Preferred: types.Ref("f1"), Required: &mandatory}
		created, err := svc.Create(ctx, hr)
		require.NoError(t, err)
		assert.NotEqual(t, types.NilGUID, created.ID)
	})
}
