package service

import (
	"context"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// Grades serves grade codes, pilot grades, anonymous grading ids and
// grade definitions.
type Grades struct {
	base
}

func NewGrades(d Deps) *Grades {
	return &Grades{base{d}}
}

// All returns every grade code.
func (s *Grades) All(ctx context.Context, bypassCache bool) ([]types.Grade, error) {
	return cachedList[types.Grade](ctx, &s.base, ResourceGrades, bypassCache)
}

// PilotGrades returns the graded enrollments of the requested students.
// includeVerified adds the verified grade date served by v2.
func (s *Grades) PilotGrades(ctx context.Context, c types.GradeQueryCriteria, includeVerified bool) ([]types.PilotGrade, error) {
	if err := s.requirePermission(ctx, "view student grades", PermViewStudentGrades); err != nil {
		return nil, err
	}

	q := storage.Query{Filters: []storage.Filter{storage.In("$.studentId", toAny(c.StudentIds)...)}}
	if c.Term != "" {
		q.Filters = append(q.Filters, storage.Eq("$.termCode", c.Term))
	}

	records, _, err := list[types.StudentGradeRecord](ctx, s.Store, ResourceStudentGrades, q)
	if err != nil {
		return nil, err
	}

	out := make([]types.PilotGrade, 0, len(records))
	for _, r := range records {
		g := types.PilotGrade{
			StudentId:                r.StudentId,
			SectionId:                r.SectionId,
			TermCode:                 r.TermCode,
			FinalGradeId:             r.FinalGradeId,
			MidtermGrade1:            r.MidtermGrade1,
			FinalGradeExpirationDate: r.FinalGradeExpireOn,
		}
		if includeVerified {
			g.VerifiedGradeTimestamp = r.VerifiedOn
		}
		out = append(out, g)
	}
	return out, nil
}

// storedAnonymousGrading keeps the student id the public shape hides.
type storedAnonymousGrading struct {
	types.StudentAnonymousGrading
	StudentId string `json:"StudentId"`
}

// AnonymousGradingIds returns the anonymous grading ids of one student,
// narrowed to terms or to course sections.
func (s *Grades) AnonymousGradingIds(ctx context.Context, c types.AnonymousGradingQueryCriteria) ([]types.StudentAnonymousGrading, error) {
	if c.StudentId == "" {
		return nil, apperr.Argument("a student id is required in order to retrieve grading ids for a student")
	}
	if len(c.TermIds) > 0 && len(c.SectionIds) > 0 {
		return nil, apperr.Argument("either term ids or course section ids may be provided but not both")
	}
	if !s.isSelf(ctx, c.StudentId) && !auth.FromContext(ctx).Has(PermViewAnonymousGradingIds) {
		return nil, apperr.Permission("User '%s' does not have permission to view anonymous grading ids for student '%s'.",
			auth.FromContext(ctx).PersonID, c.StudentId)
	}

	q := storage.Query{Filters: []storage.Filter{storage.Eq("$.StudentId", c.StudentId)}}
	switch {
	case len(c.TermIds) > 0:
		q.Filters = append(q.Filters, storage.In("$.TermId", toAny(c.TermIds)...))
	case len(c.SectionIds) > 0:
		q.Filters = append(q.Filters, storage.In("$.SectionId", toAny(c.SectionIds)...))
	}

	records, _, err := list[storedAnonymousGrading](ctx, s.Store, ResourceAnonymousGradingIds, q)
	if err != nil {
		return nil, err
	}

	out := make([]types.StudentAnonymousGrading, 0, len(records))
	for _, r := range records {
		out = append(out, r.StudentAnonymousGrading)
	}
	return out, nil
}

// GradeDefinitions returns every grade definition.
func (s *Grades) GradeDefinitions(ctx context.Context, bypassCache bool) ([]types.GradeDefinition, error) {
	return cachedList[types.GradeDefinition](ctx, &s.base, ResourceGradeDefinitions, bypassCache)
}

// GradeDefinition returns one grade definition.
func (s *Grades) GradeDefinition(ctx context.Context, id string, bypassCache bool) (types.GradeDefinition, error) {
	if id == "" {
		return types.GradeDefinition{}, apperr.Argument("The GUID must be specified in the request URL.")
	}
	defs, err := s.GradeDefinitions(ctx, bypassCache)
	if err != nil {
		return types.GradeDefinition{}, err
	}
	for _, d := range defs {
		if sameGUID(d.ID, id) {
			return d, nil
		}
	}
	return types.GradeDefinition{}, apperr.NotFound("No grade definition was found for GUID '%s'.", id)
}

// gradeReferences holds the lookups the maximum representation expands.
type gradeReferences struct {
	schemes map[string]types.GradeScheme
	levels  map[string]types.AcademicLevel
	grades  []types.Grade
}

func (s *Grades) references(ctx context.Context, bypassCache bool) (gradeReferences, error) {
	schemes, err := cachedList[types.GradeScheme](ctx, &s.base, ResourceGradeSchemes, bypassCache)
	if err != nil {
		return gradeReferences{}, err
	}
	levels, err := cachedList[types.AcademicLevel](ctx, &s.base, ResourceAcademicLevels, bypassCache)
	if err != nil {
		return gradeReferences{}, err
	}
	grades, err := s.All(ctx, bypassCache)
	if err != nil {
		return gradeReferences{}, err
	}

	refs := gradeReferences{
		schemes: make(map[string]types.GradeScheme, len(schemes)),
		levels:  make(map[string]types.AcademicLevel, len(levels)),
		grades:  grades,
	}
	for _, sc := range schemes {
		refs.schemes[strings.ToLower(sc.ID)] = sc
	}
	for _, l := range levels {
		refs.levels[strings.ToLower(l.ID)] = l
	}
	return refs, nil
}

func (refs gradeReferences) expand(d types.GradeDefinition) types.GradeDefinitionMaximum {
	m := types.GradeDefinitionMaximum{
		ID:              d.ID,
		Credit:          d.Credit,
		IncompleteGrade: d.IncompleteGrade,
	}

	var schemeCode string
	if d.Scheme != nil {
		detail := &types.GradeSchemeDetail{ID: d.Scheme.ID}
		if sc, ok := refs.schemes[strings.ToLower(d.Scheme.ID)]; ok {
			detail.Code = sc.Code
			detail.Title = sc.Title
			detail.Description = sc.Description
			detail.StartOn = sc.StartOn
			detail.EndOn = sc.EndOn
			schemeCode = sc.Code
		}
		if d.Level != nil {
			if l, ok := refs.levels[strings.ToLower(d.Level.ID)]; ok {
				detail.AcademicLevel = &l
			}
		}
		m.Scheme = detail
	}

	if d.Grade != nil {
		m.Grade = &types.GradeItemDetail{Type: d.Grade.Type, Value: d.Grade.Value}
		for _, g := range refs.grades {
			if g.LetterGrade == d.Grade.Value && (schemeCode == "" || g.GradeSchemeCode == schemeCode) {
				m.Grade.Description = g.Description
				break
			}
		}
	}
	return m
}

// GradeDefinitionsMaximum returns every grade definition with its scheme,
// level and grade details expanded.
func (s *Grades) GradeDefinitionsMaximum(ctx context.Context, bypassCache bool) ([]types.GradeDefinitionMaximum, error) {
	defs, err := s.GradeDefinitions(ctx, bypassCache)
	if err != nil {
		return nil, err
	}
	refs, err := s.references(ctx, bypassCache)
	if err != nil {
		return nil, err
	}

	out := make([]types.GradeDefinitionMaximum, 0, len(defs))
	for _, d := range defs {
		out = append(out, refs.expand(d))
	}
	return out, nil
}

// GradeDefinitionMaximum returns one expanded grade definition.
func (s *Grades) GradeDefinitionMaximum(ctx context.Context, id string, bypassCache bool) (types.GradeDefinitionMaximum, error) {
	d, err := s.GradeDefinition(ctx, id, bypassCache)
	if err != nil {
		return types.GradeDefinitionMaximum{}, err
	}
	refs, err := s.references(ctx, bypassCache)
	if err != nil {
		return types.GradeDefinitionMaximum{}, err
	}
	return refs.expand(d), nil
}

func toAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
