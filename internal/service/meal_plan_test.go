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

func validMealPlan() types.StudentMealPlan {
	periods := 1
	return types.StudentMealPlan{
		Person:          types.Ref("person-1"),
		MealPlan:        types.Ref("plan-1"),
		StartOn:         date(2024, time.August, 20),
		NumberOfPeriods: &periods,
		Status:          types.MealPlanStatusAssigned,
	}
}

func TestMealPlanLifecycle(t *testing.T) {
	d, rec := newTestDeps(t)
	svc := NewMealPlanAssignments(d)
	ctx := as("staff", PermCreateMealPlanAssignment)

	created, err := svc.Create(ctx, validMealPlan())
	require.NoError(t, err)
	assert.Equal(t, events.OperationCreated, rec.last(t).Operation)

	created.Status = types.MealPlanStatusTerminated
	created.EndOn = date(2024, time.October, 1)
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, events.OperationReplaced, rec.last(t).Operation)

	items, total, err := svc.List(as("viewer", PermViewMealPlanAssignment), 0, 100,
		types.MealPlanCriteria{Status: types.MealPlanStatusTerminated})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, updated.ID, items[0].ID)

	items, _, err = svc.List(ctx, 0, 100, types.MealPlanCriteria{MealPlan: types.Ref("other")})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMealPlanValidation(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewMealPlanAssignments(d)
	ctx := as("staff", PermCreateMealPlanAssignment)
	zero := 0

	tests := []struct {
		name   string
		modify func(p *types.StudentMealPlan)
		msg    string
	}{
		{"GUIDOnPost", func(p *types.StudentMealPlan) { p.ID = "6f3b2c1a-0000-4000-8000-000000000001" }, "On a post you can not define a GUID."},
		{"NoPerson", func(p *types.StudentMealPlan) { p.Person = nil }, "The person id is required for a meal plan assignment."},
		{"NoMealPlan", func(p *types.StudentMealPlan) { p.MealPlan = &types.GUIDObject{} }, "The mealPlan id is required for a meal plan assignment."},
		{"NoStatus", func(p *types.StudentMealPlan) { p.Status = "" }, "The status is required for a meal plan assignment."},
		{"ZeroPeriods", func(p *types.StudentMealPlan) { p.NumberOfPeriods = &zero }, "The numberOfPeriods must be at least 1."},
		{"EndBeforeStart", func(p *types.StudentMealPlan) { p.EndOn = date(2024, time.July, 1) }, "The endOn date cannot be before the startOn date."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validMealPlan()
			tc.modify(&p)
			_, err := svc.Create(ctx, p)
			requireKind(t, err, apperr.KindArgument, tc.msg)
		})
	}

	_, err := svc.Create(as("viewer", PermViewMealPlanAssignment), validMealPlan())
	requireKind(t, err, apperr.KindPermission, "")
}
