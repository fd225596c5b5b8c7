package service

import (
	"context"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// Faculty serves the self-service faculty endpoints.
type Faculty struct {
	base
}

func NewFaculty(d Deps) *Faculty {
	return &Faculty{base{d}}
}

func (s *Faculty) canSee(ctx context.Context, facultyID, what string) error {
	if s.isSelf(ctx, facultyID) || auth.FromContext(ctx).Has(PermViewFacultyInformation) {
		return nil
	}
	return apperr.Permission("User '%s' does not have permission to view %s for faculty '%s'.",
		auth.FromContext(ctx).PersonID, what, facultyID)
}

// FacultySectionFilter narrows the sections of a faculty member.
type FacultySectionFilter struct {
	StartDate *types.Date
	EndDate   *types.Date
	// BestFit, without dates, keeps only the sections in session today.
	BestFit bool
}

// Sections returns the sections taught by facultyID.
func (s *Faculty) Sections(ctx context.Context, facultyID string, f FacultySectionFilter) ([]types.FacultySection, error) {
	if facultyID == "" {
		return nil, apperr.Argument("A faculty id is required to retrieve faculty sections.")
	}
	if err := s.canSee(ctx, facultyID, "sections"); err != nil {
		return nil, err
	}

	sections, _, err := list[types.FacultySection](ctx, s.Store, ResourceFacultySections, storage.Query{
		Filters: []storage.Filter{storage.Contains("$.FacultyIds", "", facultyID)},
	})
	if err != nil {
		return nil, err
	}

	start, end := f.StartDate, f.EndDate
	if start == nil && end == nil && f.BestFit {
		today := types.NewDate(s.now().Date())
		start, end = &today, &today
	}

	out := make([]types.FacultySection, 0, len(sections))
	for _, sec := range sections {
		if start != nil && sec.EndDate != nil && sec.EndDate.Before(start.Time) {
			continue
		}
		if end != nil && sec.StartDate.After(end.Time) {
			continue
		}
		out = append(out, sec)
	}
	return out, nil
}

// Get returns one faculty member.
func (s *Faculty) Get(ctx context.Context, id string) (types.Faculty, error) {
	if id == "" {
		return types.Faculty{}, apperr.Argument("A faculty id is required.")
	}
	rec, err := get[types.FacultyRecord](ctx, s.Store, ResourceFaculty, id, "Faculty '"+id+"' was not found.")
	if err != nil {
		return types.Faculty{}, err
	}
	return rec.Faculty, nil
}

// ByIds returns the faculty members among ids.
func (s *Faculty) ByIds(ctx context.Context, ids []string) ([]types.Faculty, error) {
	if len(ids) == 0 {
		return []types.Faculty{}, nil
	}
	records, _, err := list[types.FacultyRecord](ctx, s.Store, ResourceFaculty, storage.Query{
		Filters: []storage.Filter{storage.In("$.Id", toAny(ids)...)},
	})
	if err != nil {
		return nil, err
	}

	out := make([]types.Faculty, 0, len(records))
	for _, r := range records {
		out = append(out, r.Faculty)
	}
	return out, nil
}

// QueryIds returns the ids of faculty members, advisors, or both.
func (s *Faculty) QueryIds(ctx context.Context, facultyOnly, advisorOnly bool) ([]string, error) {
	records, _, err := list[types.FacultyRecord](ctx, s.Store, ResourceFaculty, storage.Query{})
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, r := range records {
		if (facultyOnly && r.IsFaculty) || (advisorOnly && r.IsAdvisor) {
			ids = append(ids, r.Id)
		}
	}
	return ids, nil
}

// Restrictions returns the restrictions placed on a faculty member.
func (s *Faculty) Restrictions(ctx context.Context, facultyID string) ([]types.PersonRestriction, error) {
	if facultyID == "" {
		return nil, apperr.Argument("A faculty id is required to retrieve restrictions.")
	}
	if err := s.canSee(ctx, facultyID, "restrictions"); err != nil {
		return nil, err
	}

	rec, err := get[types.FacultyRecord](ctx, s.Store, ResourceFaculty, facultyID, "Faculty '"+facultyID+"' was not found.")
	if err != nil {
		return nil, err
	}
	if rec.Restrictions == nil {
		return []types.PersonRestriction{}, nil
	}
	return rec.Restrictions, nil
}

// OfficeHours returns the office hours of each faculty member in ids.
func (s *Faculty) OfficeHours(ctx context.Context, ids []string) ([]types.FacultyOfficeHours, error) {
	if ids == nil {
		return nil, apperr.Argument("IDs cannot be empty/null for Faculty office hours retrieval.")
	}
	if len(ids) == 0 {
		return []types.FacultyOfficeHours{}, nil
	}

	records, _, err := list[types.FacultyRecord](ctx, s.Store, ResourceFaculty, storage.Query{
		Filters: []storage.Filter{storage.In("$.Id", toAny(ids)...)},
	})
	if err != nil {
		return nil, err
	}

	out := make([]types.FacultyOfficeHours, 0, len(records))
	for _, r := range records {
		hours := r.OfficeHours
		if hours == nil {
			hours = []types.OfficeHour{}
		}
		out = append(out, types.FacultyOfficeHours{FacultyId: r.Id, OfficeHours: hours})
	}
	return out, nil
}

var facultyFunctions = []string{
	PermGrantFacultyConsent,
	PermGrantStudentPetition,
	PermUpdateGrades,
	PermCreatePrerequisiteWaiver,
	PermWaitlistRegistration,
	PermDropStudent,
	PermAddAuthorization,
}

// PermissionCodes lists the faculty function codes the caller holds.
func (s *Faculty) PermissionCodes(ctx context.Context) []string {
	p := auth.FromContext(ctx)
	codes := []string{}
	for _, c := range facultyFunctions {
		if p.Has(c) {
			codes = append(codes, c)
		}
	}
	return codes
}

// Permissions reports the faculty functions the caller may use.
func (s *Faculty) Permissions(ctx context.Context) types.FacultyPermissions {
	p := auth.FromContext(ctx)
	return types.FacultyPermissions{
		CanGrantFacultyConsent:      p.Has(PermGrantFacultyConsent),
		CanGrantStudentPetition:     p.Has(PermGrantStudentPetition),
		CanUpdateGrades:             p.Has(PermUpdateGrades),
		CanCreatePrerequisiteWaiver: p.Has(PermCreatePrerequisiteWaiver),
		CanWaitlistRegistration:     p.Has(PermWaitlistRegistration),
		CanDropStudent:              p.Has(PermDropStudent),
		CanAddAuthorization:         p.Has(PermAddAuthorization),
	}
}
