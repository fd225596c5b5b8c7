package types

// Meal plan assignment statuses.
const (
	MealPlanStatusAssigned   = "assigned"
	MealPlanStatusPending    = "pending"
	MealPlanStatusTerminated = "terminated"
	MealPlanStatusCancelled  = "cancelled"
)

// StudentMealPlan is the v16.0.0 meal-plan-assignments representation.
type StudentMealPlan struct {
	ID                    string        `json:"id"`
	Person                *GUIDObject   `json:"person,omitempty" validate:"required,ref"`
	MealPlan              *GUIDObject   `json:"mealPlan,omitempty" validate:"required,ref"`
	AcademicPeriod        *GUIDObject   `json:"academicPeriod,omitempty"`
	StartOn               *Date         `json:"startOn,omitempty" validate:"required"`
	EndOn                 *Date         `json:"endOn,omitempty" validate:"omitempty,gtefield=StartOn"`
	NumberOfPeriods       *int          `json:"numberOfPeriods,omitempty" validate:"omitempty,min=1"`
	Status                string        `json:"status,omitempty" validate:"required"`
	StatusReason          *GUIDObject   `json:"statusReason,omitempty"`
	StatusDate            *Date         `json:"statusDate,omitempty"`
	MealCard              string        `json:"mealCard,omitempty"`
	AssignedRate          *MealPlanRate `json:"assignedRate,omitempty"`
	BillingOverrideRate   *Amount       `json:"billingOverrideRate,omitempty"`
	BillingOverrideReason *GUIDObject   `json:"billingOverrideReason,omitempty"`
	AccountingCode        *GUIDObject   `json:"accountingCode,omitempty"`
}

// MealPlanRate references the rate plan and the rate charged.
type MealPlanRate struct {
	Detail *GUIDObject `json:"detail,omitempty"`
	Rate   *Amount     `json:"rate,omitempty"`
}

// StudentMealPlanV10 is the v10.1.0 representation. It has an
// overrideRate object in place of the billing override fields.
type StudentMealPlanV10 struct {
	ID              string            `json:"id"`
	Person          *GUIDObject       `json:"person,omitempty"`
	MealPlan        *GUIDObject       `json:"mealPlan,omitempty"`
	AcademicPeriod  *GUIDObject       `json:"academicPeriod,omitempty"`
	StartOn         *Date             `json:"startOn,omitempty"`
	EndOn           *Date             `json:"endOn,omitempty"`
	NumberOfPeriods *int              `json:"numberOfPeriods,omitempty"`
	Status          string            `json:"status,omitempty"`
	StatusDate      *Date             `json:"statusDate,omitempty"`
	MealCard        string            `json:"mealCard,omitempty"`
	OverrideRate    *MealPlanOverride `json:"overrideRate,omitempty"`
}

// MealPlanOverride is the v10.1.0 rate override.
type MealPlanOverride struct {
	Rate           *Amount     `json:"rate,omitempty"`
	OverrideReason *GUIDObject `json:"overrideReason,omitempty"`
	AccountingCode *GUIDObject `json:"accountingCode,omitempty"`
}

// V10 projects p onto the v10.1.0 shape.
func (p StudentMealPlan) V10() StudentMealPlanV10 {
	v := StudentMealPlanV10{
		ID:              p.ID,
		Person:          p.Person,
		MealPlan:        p.MealPlan,
		AcademicPeriod:  p.AcademicPeriod,
		StartOn:         p.StartOn,
		EndOn:           p.EndOn,
		NumberOfPeriods: p.NumberOfPeriods,
		Status:          p.Status,
		StatusDate:      p.StatusDate,
		MealCard:        p.MealCard,
	}
	if p.BillingOverrideRate != nil || p.BillingOverrideReason != nil || p.AccountingCode != nil {
		v.OverrideRate = &MealPlanOverride{
			Rate:           p.BillingOverrideRate,
			OverrideReason: p.BillingOverrideReason,
			AccountingCode: p.AccountingCode,
		}
	}
	return v
}

// Current lifts a v10.1.0 payload into the current shape.
func (v StudentMealPlanV10) Current() StudentMealPlan {
	p := StudentMealPlan{
		ID:              v.ID,
		Person:          v.Person,
		MealPlan:        v.MealPlan,
		AcademicPeriod:  v.AcademicPeriod,
		StartOn:         v.StartOn,
		EndOn:           v.EndOn,
		NumberOfPeriods: v.NumberOfPeriods,
		Status:          v.Status,
		StatusDate:      v.StatusDate,
		MealCard:        v.MealCard,
	}
	if v.OverrideRate != nil {
		p.BillingOverrideRate = v.OverrideRate.Rate
		p.BillingOverrideReason = v.OverrideRate.OverrideReason
		p.AccountingCode = v.OverrideRate.AccountingCode
	}
	return p
}

// MealPlanCriteria is the criteria filter.
type MealPlanCriteria struct {
	Person         *GUIDObject `json:"person,omitempty"`
	MealPlan       *GUIDObject `json:"mealPlan,omitempty"`
	AcademicPeriod *GUIDObject `json:"academicPeriod,omitempty"`
	Status         string      `json:"status,omitempty"`
}
