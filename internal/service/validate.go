package service

import (
	"errors"
	"reflect"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/go-playground/validator/v10"
)

// validate checks the `validate` tags of representation bodies. Dates
// compare as time.Time and the "ref" tag requires a reference to carry an
// id.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		return f.Interface().(types.Date).Time
	}, types.Date{})
	if err := v.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
		ref, ok := fl.Field().Interface().(types.GUIDObject)
		return ok && ref.ID != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// fieldRule is the error a failed tag turns into. Rules are listed in the
// order they are reported, so the first failing rule wins whatever order
// the validator found the fields in.
type fieldRule struct {
	namespace string
	tag       string
	title     string // integration error title; empty for argument errors
	message   string
}

var fieldRules = []fieldRule{
	{"HousingAssignment.Person", "required", "", "The person property is a required property."},
	{"HousingAssignment.Person", "ref", "", "The person id property is a required property."},
	{"HousingAssignment.Room", "required", "", "The room property is required."},
	{"HousingAssignment.Room", "ref", "", "The room id property is required."},
	{"HousingAssignment.StartOn", "required", "", "The startOn property is required."},
	{"HousingAssignment.EndOn", "required", "", "The endOn property is required."},
	{"HousingAssignment.EndOn", "gtefield", "", "The end date cannot be earlier start date."},
	{"HousingAssignment.Status", "required", "", "The status property is required."},
	{"HousingAssignment.StatusDate", "required", "", "The statusDate property is required."},

	{"HousingRequest.Person", "required", "", "The person property is a required property."},
	{"HousingRequest.Person", "ref", "", "The person id property is a required property."},
	{"HousingRequest.StartOn", "required", "", "The startOn property is a required property."},
	{"HousingRequest.Status", "required", "", "The status property is a required property."},
	{"HousingRequest.EndOn", "gtefield", "", "The start date cannot be after end date."},

	{"StudentMealPlan.Person", "required", "", "The person id is required for a meal plan assignment."},
	{"StudentMealPlan.Person", "ref", "", "The person id is required for a meal plan assignment."},
	{"StudentMealPlan.MealPlan", "required", "", "The mealPlan id is required for a meal plan assignment."},
	{"StudentMealPlan.MealPlan", "ref", "", "The mealPlan id is required for a meal plan assignment."},
	{"StudentMealPlan.StartOn", "required", "", "The startOn date is required for a meal plan assignment."},
	{"StudentMealPlan.Status", "required", "", "The status is required for a meal plan assignment."},
	{"StudentMealPlan.NumberOfPeriods", "min", "", "The numberOfPeriods must be at least 1."},
	{"StudentMealPlan.EndOn", "gtefield", "", "The endOn date cannot be before the startOn date."},

	{"SectionCrosslist.Sections", "required", "Null sections argument", "The sections list is required."},
	{"SectionCrosslist.Sections", "min", "Missing sections argument", "The sections list must have at least two sections."},
}

// validateBody runs the tags of v and returns the first failing rule as an
// apperr error. Failures without a rule are reported by field name.
func validateBody(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.Namespace()+"|"+fe.Tag()] = true
	}
	for _, r := range fieldRules {
		if !failed[r.namespace+"|"+r.tag] {
			continue
		}
		if r.title != "" {
			return apperr.Integration(r.title, r.message)
		}
		return apperr.Argument("%s", r.message)
	}
	return apperr.Argument("The %s property is not valid.", verrs[0].Namespace())
}
