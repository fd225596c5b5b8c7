package service

import (
	"testing"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBodyReportsFirstRule(t *testing.T) {
	// Every required property is missing; the person is reported first.
	err := validateBody(types.HousingAssignment{})
	requireKind(t, err, apperr.KindArgument, "The person property is a required property.")

	a := validAssignment()
	a.Room = &types.GUIDObject{}
	a.StatusDate = nil
	requireKind(t, validateBody(a), apperr.KindArgument, "The room id property is required.")

	a = validAssignment()
	a.StartOn = nil
	requireKind(t, validateBody(a), apperr.KindArgument, "The startOn property is required.")
}

func TestValidateBodyDates(t *testing.T) {
	a := validAssignment()
	a.EndOn = a.StartOn
	assert.NoError(t, validateBody(a))

	p := validMealPlan()
	p.EndOn = date(2024, time.August, 19)
	requireKind(t, validateBody(p), apperr.KindArgument, "The endOn date cannot be before the startOn date.")

	p.EndOn = nil
	assert.NoError(t, validateBody(p))

	hr := validHousingRequest()
	hr.EndOn = date(2024, time.August, 20)
	assert.NoError(t, validateBody(hr))
}

func TestValidateBodyIntegrationRules(t *testing.T) {
	err := validateBody(types.SectionCrosslist{ID: types.NilGUID, Sections: []types.SectionCrosslistSection{}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindIntegration, apperr.KindOf(err))
	assert.Equal(t, "The sections list must have at least two sections.", integrationDescription(t, err))

	assert.NoError(t, validateBody(types.SectionCrosslist{Sections: crosslistSections("s1", "s2")}))
}
