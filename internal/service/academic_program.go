package service

import (
	"context"
	"slices"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// ProgramFilter selects academic programs. Empty fields do not filter.
type ProgramFilter struct {
	Code               string
	Title              string
	Status             string
	AcademicLevel      string
	AcademicCatalog    string
	RecruitmentProgram string
}

func (f ProgramFilter) match(p types.AcademicProgram) bool {
	switch {
	case f.Code != "" && !strings.EqualFold(p.Code, f.Code):
		return false
	case f.Title != "" && !strings.EqualFold(p.Title, f.Title):
		return false
	case f.Status != "" && p.Status != f.Status:
		return false
	case f.AcademicLevel != "" && !strings.EqualFold(types.RefID(p.AcademicLevel), f.AcademicLevel):
		return false
	case f.RecruitmentProgram != "" && p.RecruitmentProgram != f.RecruitmentProgram:
		return false
	}
	if f.AcademicCatalog != "" {
		return slices.ContainsFunc(p.AcademicCatalogs, func(c types.GUIDObject) bool {
			return strings.EqualFold(c.ID, f.AcademicCatalog)
		})
	}
	return true
}

// AcademicPrograms serves the academic program reference data. The whole
// list is cached, so lookups never page through storage.
type AcademicPrograms struct {
	base
}

func NewAcademicPrograms(d Deps) *AcademicPrograms {
	return &AcademicPrograms{base{d}}
}

// All returns every academic program.
func (s *AcademicPrograms) All(ctx context.Context, bypassCache bool) ([]types.AcademicProgram, error) {
	return cachedList[types.AcademicProgram](ctx, &s.base, ResourceAcademicPrograms, bypassCache)
}

// List returns the programs matching f.
func (s *AcademicPrograms) List(ctx context.Context, f ProgramFilter, bypassCache bool) ([]types.AcademicProgram, error) {
	all, err := s.All(ctx, bypassCache)
	if err != nil {
		return nil, err
	}

	out := make([]types.AcademicProgram, 0, len(all))
	for _, p := range all {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns one program.
func (s *AcademicPrograms) Get(ctx context.Context, id string, bypassCache bool) (types.AcademicProgram, error) {
	if id == "" {
		return types.AcademicProgram{}, apperr.Argument("The GUID must be specified in the request URL.")
	}
	all, err := s.All(ctx, bypassCache)
	if err != nil {
		return types.AcademicProgram{}, err
	}
	for _, p := range all {
		if sameGUID(p.ID, id) {
			return p, nil
		}
	}
	return types.AcademicProgram{}, apperr.NotFound("No academic program was found for GUID '%s'.", id)
}
