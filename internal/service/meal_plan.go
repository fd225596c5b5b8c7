package service

import (
	"context"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const mealPlanVersion = "16.0.0"

// MealPlanAssignments coordinates meal-plan-assignments.
type MealPlanAssignments struct {
	base
}

func NewMealPlanAssignments(d Deps) *MealPlanAssignments {
	return &MealPlanAssignments{base{d}}
}

func (s *MealPlanAssignments) canView(ctx context.Context) error {
	return s.requirePermission(ctx, "view meal plan assignments", PermViewMealPlanAssignment, PermCreateMealPlanAssignment)
}

func (s *MealPlanAssignments) canUpdate(ctx context.Context) error {
	return s.requirePermission(ctx, "create or update meal plan assignments", PermCreateMealPlanAssignment)
}

// List returns a page of meal plan assignments matching c.
func (s *MealPlanAssignments) List(ctx context.Context, offset, limit int, c types.MealPlanCriteria) ([]types.StudentMealPlan, int, error) {
	if err := s.canView(ctx); err != nil {
		return nil, 0, err
	}

	q := storage.Query{Offset: offset, Limit: limit}
	if c.Person != nil {
		q.Filters = append(q.Filters, storage.Eq("$.person.id", c.Person.ID))
	}
	if c.MealPlan != nil {
		q.Filters = append(q.Filters, storage.Eq("$.mealPlan.id", c.MealPlan.ID))
	}
	if c.AcademicPeriod != nil {
		q.Filters = append(q.Filters, storage.Eq("$.academicPeriod.id", c.AcademicPeriod.ID))
	}
	if c.Status != "" {
		q.Filters = append(q.Filters, storage.Eq("$.status", c.Status))
	}

	return list[types.StudentMealPlan](ctx, s.Store, ResourceMealPlanAssignments, q)
}

// Get returns one meal plan assignment.
func (s *MealPlanAssignments) Get(ctx context.Context, id string) (types.StudentMealPlan, error) {
	if err := s.canView(ctx); err != nil {
		return types.StudentMealPlan{}, err
	}
	if id == "" {
		return types.StudentMealPlan{}, apperr.Argument("The GUID must be specified in the request URL.")
	}
	return get[types.StudentMealPlan](ctx, s.Store, ResourceMealPlanAssignments, id,
		"No meal plan assignment was found for GUID '"+id+"'.")
}

// Create stores a new meal plan assignment.
func (s *MealPlanAssignments) Create(ctx context.Context, p types.StudentMealPlan) (types.StudentMealPlan, error) {
	if err := s.canUpdate(ctx); err != nil {
		return p, err
	}
	if !types.IsNilGUID(p.ID) {
		return p, apperr.Argument("On a post you can not define a GUID.")
	}
	if err := validateMealPlan(p); err != nil {
		return p, err
	}

	p.ID = newGUID()
	if err := create(ctx, s.Store, ResourceMealPlanAssignments, p.ID, p); err != nil {
		return p, err
	}
	s.notify(ctx, ResourceMealPlanAssignments, p.ID, mealPlanVersion, events.OperationCreated, p)
	return p, nil
}

// Update replaces a meal plan assignment. p is the merged representation.
func (s *MealPlanAssignments) Update(ctx context.Context, p types.StudentMealPlan) (types.StudentMealPlan, error) {
	if err := s.canUpdate(ctx); err != nil {
		return p, err
	}
	if err := validateMealPlan(p); err != nil {
		return p, err
	}

	if err := replace(ctx, s.Store, ResourceMealPlanAssignments, p.ID, p); err != nil {
		return p, err
	}
	s.notify(ctx, ResourceMealPlanAssignments, p.ID, mealPlanVersion, events.OperationReplaced, p)
	return p, nil
}

func validateMealPlan(p types.StudentMealPlan) error {
	return validateBody(p)
}
