package service

import (
	"context"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const transcriptGradeVersion = "1.1.0"

// TranscriptGrades coordinates student-transcript-grades and its options
// and adjustments representations.
type TranscriptGrades struct {
	base
}

func NewTranscriptGrades(d Deps) *TranscriptGrades {
	return &TranscriptGrades{base{d}}
}

func (s *TranscriptGrades) canView(ctx context.Context) error {
	return s.requirePermission(ctx, "view student transcript grades", PermViewTranscriptGrades, PermUpdateTranscriptAdjustments)
}

// List returns a page of transcript grades, optionally of one student.
func (s *TranscriptGrades) List(ctx context.Context, offset, limit int, student string) ([]types.StudentTranscriptGrade, int, error) {
	if err := s.canView(ctx); err != nil {
		return nil, 0, err
	}

	q := storage.Query{Offset: offset, Limit: limit}
	if student != "" {
		q.Filters = append(q.Filters, storage.Eq("$.student.id", student))
	}
	return list[types.StudentTranscriptGrade](ctx, s.Store, ResourceTranscriptGrades, q)
}

// Get returns one transcript grade.
func (s *TranscriptGrades) Get(ctx context.Context, id string) (types.StudentTranscriptGrade, error) {
	if err := s.canView(ctx); err != nil {
		return types.StudentTranscriptGrade{}, err
	}
	if id == "" {
		return types.StudentTranscriptGrade{}, apperr.Argument("The GUID must be specified in the request URL.")
	}
	return get[types.StudentTranscriptGrade](ctx, s.Store, ResourceTranscriptGrades, id,
		"No student transcript grade was found for GUID '"+id+"'.")
}

// Adjust replaces the grade of a transcript entry and records the change.
func (s *TranscriptGrades) Adjust(ctx context.Context, adj types.StudentTranscriptGradeAdjustment) (types.StudentTranscriptGrade, error) {
	if err := s.requirePermission(ctx, "update student transcript grade adjustments", PermUpdateTranscriptAdjustments); err != nil {
		return types.StudentTranscriptGrade{}, err
	}

	switch {
	case adj.Detail == nil:
		return types.StudentTranscriptGrade{}, apperr.Argument("The detail property is required.")
	case types.RefID(adj.Detail.Grade) == "":
		return types.StudentTranscriptGrade{}, apperr.Argument("The detail grade id is required.")
	case types.RefID(adj.Detail.ChangeReason) == "":
		return types.StudentTranscriptGrade{}, apperr.Argument("The detail changeReason id is required.")
	}

	grade, err := get[types.StudentTranscriptGrade](ctx, s.Store, ResourceTranscriptGrades, adj.ID,
		"No student transcript grade was found for GUID '"+adj.ID+"'.")
	if err != nil {
		return grade, err
	}

	def, err := get[types.GradeDefinition](ctx, s.Store, ResourceGradeDefinitions, adj.Detail.Grade.ID,
		"No grade definition was found for GUID '"+adj.Detail.Grade.ID+"'.")
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return grade, apperr.Argument("The grade '%s' is not a valid grade definition.", adj.Detail.Grade.ID)
		}
		return grade, err
	}
	if grade.Grade != nil && grade.Grade.Scheme != nil && def.Scheme != nil &&
		!strings.EqualFold(grade.Grade.Scheme.ID, def.Scheme.ID) {
		return grade, apperr.Argument("The grade '%s' does not belong to the grade scheme of the transcript grade.", def.ID)
	}

	today := types.NewDate(s.now().Date())
	change := types.TranscriptGradeChange{
		ChangedOn: &today,
		Reason:    types.Ref(adj.Detail.ChangeReason.ID),
	}
	if grade.Grade == nil {
		grade.Grade = &types.TranscriptGradeDetail{Scheme: def.Scheme}
	} else {
		change.PreviousGrade = grade.Grade.Grade
	}
	grade.Grade.Grade = types.Ref(def.ID)
	grade.Grade.AwardedOn = &today
	grade.GradeChanges = append(grade.GradeChanges, change)

	if err := replace(ctx, s.Store, ResourceTranscriptGrades, grade.ID, grade); err != nil {
		return grade, err
	}
	s.notify(ctx, ResourceTranscriptGrades, grade.ID, transcriptGradeVersion, events.OperationReplaced, grade)
	return grade, nil
}

// Options returns, for a page of transcript grades, the grade definitions
// each one may be changed to.
func (s *TranscriptGrades) Options(ctx context.Context, offset, limit int, student string, bypassCache bool) ([]types.StudentTranscriptGradeOptions, int, error) {
	grades, total, err := s.List(ctx, offset, limit, student)
	if err != nil {
		return nil, 0, err
	}
	defs, err := cachedList[types.GradeDefinition](ctx, &s.base, ResourceGradeDefinitions, bypassCache)
	if err != nil {
		return nil, 0, err
	}

	out := make([]types.StudentTranscriptGradeOptions, 0, len(grades))
	for _, g := range grades {
		out = append(out, gradeOptions(g, defs))
	}
	return out, total, nil
}

// Option returns the grade options of one transcript grade.
func (s *TranscriptGrades) Option(ctx context.Context, id string, bypassCache bool) (types.StudentTranscriptGradeOptions, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return types.StudentTranscriptGradeOptions{}, err
	}
	defs, err := cachedList[types.GradeDefinition](ctx, &s.base, ResourceGradeDefinitions, bypassCache)
	if err != nil {
		return types.StudentTranscriptGradeOptions{}, err
	}
	return gradeOptions(g, defs), nil
}

func gradeOptions(g types.StudentTranscriptGrade, defs []types.GradeDefinition) types.StudentTranscriptGradeOptions {
	opt := types.StudentTranscriptGradeOptions{ID: g.ID, Grades: []types.GUIDObject{}}
	if g.Grade == nil || g.Grade.Scheme == nil {
		return opt
	}

	opt.GradeScheme = g.Grade.Scheme
	for _, d := range defs {
		if d.Scheme != nil && strings.EqualFold(d.Scheme.ID, g.Grade.Scheme.ID) {
			opt.Grades = append(opt.Grades, types.GUIDObject{ID: d.ID})
		}
	}
	return opt
}
