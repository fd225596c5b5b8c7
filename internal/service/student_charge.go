package service

import (
	"context"
	"slices"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const studentChargeVersion = "16.0.0"

// ChargeFilter selects student charges. Empty fields do not filter.
type ChargeFilter struct {
	Person             string
	AcademicPeriod     string
	FundingSource      string
	FundingDestination string
	ChargeType         string
	Usage              string
}

// StudentCharges coordinates student-charges.
type StudentCharges struct {
	base
}

func NewStudentCharges(d Deps) *StudentCharges {
	return &StudentCharges{base{d}}
}

// ValidChargeType reports whether t is a v6 chargeType value.
func ValidChargeType(t string) bool {
	return slices.Contains(types.StudentChargeTypes, t)
}

// List returns a page of charges matching f.
func (s *StudentCharges) List(ctx context.Context, offset, limit int, f ChargeFilter) ([]types.StoredStudentCharge, int, error) {
	if err := s.requirePermission(ctx, "view student charges", PermViewStudentCharges, PermCreateStudentCharges); err != nil {
		return nil, 0, err
	}
	if f.ChargeType != "" && !ValidChargeType(f.ChargeType) {
		return nil, 0, apperr.Argument("'%s' is an invalid enumeration value. ", f.ChargeType)
	}

	q := storage.Query{Offset: offset, Limit: limit}
	for _, pv := range []struct{ path, value string }{
		{"$.person.id", f.Person},
		{"$.academicPeriod.id", f.AcademicPeriod},
		{"$.fundingSource.id", f.FundingSource},
		{"$.fundingDestination.id", f.FundingDestination},
		{"$.chargeType", f.ChargeType},
		{"$.reportingDetail.usage", f.Usage},
	} {
		if pv.value != "" {
			q.Filters = append(q.Filters, storage.Eq(pv.path, pv.value))
		}
	}

	return list[types.StoredStudentCharge](ctx, s.Store, ResourceStudentCharges, q)
}

// Get returns one charge.
func (s *StudentCharges) Get(ctx context.Context, id string) (types.StoredStudentCharge, error) {
	if id == "" {
		return types.StoredStudentCharge{}, apperr.Argument("id is required.")
	}
	if err := s.requirePermission(ctx, "view student charges", PermViewStudentCharges, PermCreateStudentCharges); err != nil {
		return types.StoredStudentCharge{}, err
	}
	return get[types.StoredStudentCharge](ctx, s.Store, ResourceStudentCharges, id,
		"No student charge was found for GUID '"+id+"'.")
}

// Create stores a new charge.
func (s *StudentCharges) Create(ctx context.Context, c types.StoredStudentCharge) (types.StoredStudentCharge, error) {
	if !types.IsNilGUID(c.ID) {
		return c, apperr.Argument("On a post you can not define a GUID")
	}
	if err := s.requirePermission(ctx, "create student charges", PermCreateStudentCharges); err != nil {
		return c, err
	}
	if err := validateStudentCharge(c); err != nil {
		return c, err
	}

	c.ID = newGUID()
	if err := create(ctx, s.Store, ResourceStudentCharges, c.ID, c); err != nil {
		return c, err
	}
	s.notify(ctx, ResourceStudentCharges, c.ID, studentChargeVersion, events.OperationCreated, c.StudentCharge)
	return c, nil
}

func validateStudentCharge(c types.StoredStudentCharge) error {
	switch {
	case types.RefID(c.Person) == "":
		return apperr.Argument("The person id is required when submitting a student charge.")
	case types.RefID(c.FundingDestination) == "":
		return apperr.Argument("The fundingDestination id is required when submitting a student charge.")
	case c.ChargedAmount == nil:
		return apperr.Argument("The chargedAmount is required when submitting a student charge.")
	case c.ChargedAmount.Amount == nil && c.ChargedAmount.UnitCost == nil:
		return apperr.Argument("The chargedAmount must contain either amount or unitCost.")
	case c.ChargedAmount.Amount != nil && c.ChargedAmount.UnitCost != nil:
		return apperr.Argument("The chargedAmount cannot contain both amount and unitCost.")
	case c.ChargedAmount.Amount != nil && c.ChargedAmount.Amount.Value.IsNegative():
		return apperr.Argument("The chargedAmount amount value cannot be negative.")
	case c.ChargeType != "" && !ValidChargeType(c.ChargeType):
		return apperr.Argument("'%s' is an invalid enumeration value. ", c.ChargeType)
	}
	return nil
}
