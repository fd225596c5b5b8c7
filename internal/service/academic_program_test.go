package service

import (
	"context"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcademicPrograms(t *testing.T) {
	d, _ := newTestDeps(t)
	put(t, d, ResourceAcademicPrograms, "p1", types.AcademicProgram{
		ID:                 "p1", Code: "BIO.BS", Title: "Biology", Status: "active",
		AcademicLevel:      types.Ref("ug"),
		AcademicCatalogs:   []types.GUIDObject{{ID: "cat-2024"}},
		RecruitmentProgram: "active",
	})
	put(t, d, ResourceAcademicPrograms, "p2", types.AcademicProgram{
		ID:            "p2", Code: "HIST.BA", Title: "History", Status: "inactive",
		AcademicLevel: types.Ref("ug"),
	})

	svc := NewAcademicPrograms(d)
	ctx := context.Background()

	all, err := svc.All(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tests := []struct {
		name   string
		filter ProgramFilter
		want   []string
	}{
		{"NoFilter", ProgramFilter{}, []string{"p1", "p2"}},
		{"Code", ProgramFilter{Code: "bio.bs"}, []string{"p1"}},
		{"Status", ProgramFilter{Status: "inactive"}, []string{"p2"}},
		{"Level", ProgramFilter{AcademicLevel: "UG"}, []string{"p1", "p2"}},
		{"Catalog", ProgramFilter{AcademicCatalog: "cat-2024"}, []string{"p1"}},
		{"Recruitment", ProgramFilter{RecruitmentProgram: "active"}, []string{"p1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, tc.filter, false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got, func(p types.AcademicProgram) string { return p.ID }))
		})
	}

	t.Run("CachedUntilBypassed", func(t *testing.T) {
		put(t, d, ResourceAcademicPrograms, "p3", types.AcademicProgram{ID: "p3", Code: "ART.BA"})

		cached, err := svc.All(ctx, false)
		require.NoError(t, err)
		assert.Len(t, cached, 2)

		fresh, err := svc.All(ctx, true)
		require.NoError(t, err)
		assert.Len(t, fresh, 3)
	})

	t.Run("Get", func(t *testing.T) {
		p, err := svc.Get(ctx, "P1", false)
		require.NoError(t, err)
		assert.Equal(t, "Biology", p.Title)

		_, err = svc.Get(ctx, "", false)
		requireKind(t, err, apperr.KindArgument, "The GUID must be specified in the request URL.")

		_, err = svc.Get(ctx, "nope", false)
		requireKind(t, err, apperr.KindNotFound, "")
	})
}
