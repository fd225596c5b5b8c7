package service

import (
	"context"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// ResourcePersonFilters holds the saved person lists used by personFilter.
const ResourcePersonFilters = "person-filters"

// AwardFilter selects financial aid awards. Empty fields do not filter.
type AwardFilter struct {
	Student      string
	AwardFund    string
	AidYear      string
	PersonFilter string
}

// FinancialAidAwards serves one of the two award resources. Both read the
// same stored awards and split them on the restricted flag of the fund.
type FinancialAidAwards struct {
	base
	resource   string
	restricted bool
	permission string
}

func NewFinancialAidAwards(d Deps) *FinancialAidAwards {
	return &FinancialAidAwards{
		base:       base{d},
		resource:   ResourceFinancialAidAwards,
		permission: PermViewFinancialAidAwards,
	}
}

func NewRestrictedFinancialAidAwards(d Deps) *FinancialAidAwards {
	return &FinancialAidAwards{
		base:       base{d},
		resource:   ResourceRestrictedFinancialAid,
		restricted: true,
		permission: PermViewRestrictedFinancialAid,
	}
}

// Resource is the EEDM resource name this instance serves.
func (s *FinancialAidAwards) Resource() string { return s.resource }

func (s *FinancialAidAwards) canView(ctx context.Context) error {
	if s.restricted {
		return s.requirePermission(ctx, "view restricted student financial aid awards", s.permission)
	}
	return s.requirePermission(ctx, "view student financial aid awards", s.permission)
}

// List returns a page of awards matching f.
func (s *FinancialAidAwards) List(ctx context.Context, offset, limit int, f AwardFilter) ([]types.StudentFinancialAidAward, int, error) {
	if err := s.canView(ctx); err != nil {
		return nil, 0, err
	}

	q := storage.Query{
		Offset:  offset,
		Limit:   limit,
		Filters: []storage.Filter{storage.Eq("$.restricted", s.restricted)},
	}
	if f.Student != "" {
		q.Filters = append(q.Filters, storage.Eq("$.student.id", f.Student))
	}
	if f.AwardFund != "" {
		q.Filters = append(q.Filters, storage.Eq("$.awardFund.id", f.AwardFund))
	}
	if f.AidYear != "" {
		q.Filters = append(q.Filters, storage.Eq("$.aidYear.id", f.AidYear))
	}
	if f.PersonFilter != "" {
		pf, err := get[types.PersonFilter](ctx, s.Store, ResourcePersonFilters, f.PersonFilter,
			"No person filter was found for GUID '"+f.PersonFilter+"'.")
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return []types.StudentFinancialAidAward{}, 0, nil
			}
			return nil, 0, err
		}
		q.Filters = append(q.Filters, storage.In("$.student.id", toAny(pf.PersonIds)...))
	}

	stored, total, err := list[types.StoredFinancialAidAward](ctx, s.Store, ResourceFinancialAidAwards, q)
	if err != nil {
		return nil, 0, err
	}

	awards := make([]types.StudentFinancialAidAward, 0, len(stored))
	for _, a := range stored {
		awards = append(awards, a.StudentFinancialAidAward)
	}
	return awards, total, nil
}

// Get returns one award. Awards of the other variant are not found.
func (s *FinancialAidAwards) Get(ctx context.Context, id string) (types.StudentFinancialAidAward, error) {
	if id == "" {
		return types.StudentFinancialAidAward{}, apperr.Argument("id is required.")
	}
	if err := s.canView(ctx); err != nil {
		return types.StudentFinancialAidAward{}, err
	}

	notFound := "No " + s.resource + " was found for GUID '" + id + "'."
	a, err := get[types.StoredFinancialAidAward](ctx, s.Store, ResourceFinancialAidAwards, id, notFound)
	if err != nil {
		return types.StudentFinancialAidAward{}, err
	}
	if a.Restricted != s.restricted {
		return types.StudentFinancialAidAward{}, apperr.NotFound("%s", notFound)
	}
	return a.StudentFinancialAidAward, nil
}
