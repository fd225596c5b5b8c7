package service

import (
	"errors"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crosslistSections(ids ...string) []types.SectionCrosslistSection {
	out := make([]types.SectionCrosslistSection, 0, len(ids))
	for i, id := range ids {
		kind := types.CrosslistSectionSecondary
		if i == 0 {
			kind = types.CrosslistSectionPrimary
		}
		out = append(out, types.SectionCrosslistSection{Section: types.Ref(id), Type: kind})
	}
	return out
}

func integrationDescription(t *testing.T, err error) string {
	t.Helper()
	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, apperr.KindIntegration, e.Kind)
	require.NotEmpty(t, e.Details)
	return e.Details[0].Description
}

func TestSectionCrosslistLifecycle(t *testing.T) {
	d, rec := newTestDeps(t)
	svc := NewSectionCrosslists(d)
	ctx := as("registrar", PermUpdateSectionCrosslists, PermDeleteSectionCrosslists)

	created, err := svc.Create(ctx, types.SectionCrosslist{ID: types.NilGUID, Sections: crosslistSections("s1", "s2")})
	require.NoError(t, err)
	assert.True(t, validGUID(created.ID))

	items, total, err := svc.List(ctx, 0, 500, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, created.ID, items[0].ID)

	items, _, err = svc.List(ctx, 0, 500, "s9")
	require.NoError(t, err)
	assert.Empty(t, items)

	created.Sections = crosslistSections("s1", "s2", "s3")
	_, err = svc.Update(ctx, created)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	n := rec.last(t)
	assert.Equal(t, events.OperationDeleted, n.Operation)
	assert.Nil(t, n.Content)

	requireKind(t, svc.Delete(ctx, created.ID), apperr.KindNotFound, "")
}

func TestSectionCrosslistValidation(t *testing.T) {
	d, _ := newTestDeps(t)
	svc := NewSectionCrosslists(d)
	ctx := as("registrar", PermUpdateSectionCrosslists)

	_, err := svc.Create(ctx, types.SectionCrosslist{Sections: crosslistSections("s1", "s2")})
	assert.Equal(t, "Id is a required property.", integrationDescription(t, err))

	tests := []struct {
		name     string
		sections []types.SectionCrosslistSection
		desc     string
	}{
		{"Nil", nil, "The sections list is required."},
		{"One", crosslistSections("s1"), "The sections list must have at least two sections."},
		{"Repeated", crosslistSections("s1", "S1"), "The sections list must contain unique sections, section ids cannot repeat."},
		{"NoPrimary", []types.SectionCrosslistSection{
			{Section: types.Ref("s1"), Type: types.CrosslistSectionSecondary},
			{Section: types.Ref("s2"), Type: types.CrosslistSectionSecondary},
		}, "The sections list must have at least one section marked as primary."},
		{"TwoPrimaries", []types.SectionCrosslistSection{
			{Section: types.Ref("s1"), Type: types.CrosslistSectionPrimary},
			{Section: types.Ref("s2"), Type: types.CrosslistSectionPrimary},
		}, "The sections list may only have one section marked as primary."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, types.SectionCrosslist{ID: types.NilGUID, Sections: tc.sections})
			assert.Equal(t, tc.desc, integrationDescription(t, err))
		})
	}

	err = svc.Delete(ctx, "any")
	requireKind(t, err, apperr.KindPermission, "")
}
