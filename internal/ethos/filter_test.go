package ethos

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterRequest(name, value string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/meal-plan-assignments?"+name+"="+url.QueryEscape(value), nil)
}

func TestDecodeFilter(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		var c types.MealPlanCriteria
		empty, err := DecodeFilter(httptest.NewRequest(http.MethodGet, "/x", nil), "criteria", &c)
		require.NoError(t, err)
		assert.False(t, empty)
		assert.Nil(t, c.Person)
	})

	t.Run("Valid", func(t *testing.T) {
		var c types.MealPlanCriteria
		empty, err := DecodeFilter(filterRequest("criteria", `{"person":{"id":"p1"},"status":"assigned"}`), "criteria", &c)
		require.NoError(t, err)
		assert.False(t, empty)
		assert.Equal(t, "p1", c.Person.ID)
		assert.Equal(t, "assigned", c.Status)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		var c types.MealPlanCriteria
		empty, err := DecodeFilter(filterRequest("criteria", `{"person":{"id":""}}`), "criteria", &c)
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("EmptyObject", func(t *testing.T) {
		var f types.SectionFilter
		empty, err := DecodeFilter(filterRequest("section", `{"section":{}}`), "section", &f)
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("UnknownProperty", func(t *testing.T) {
		var c types.MealPlanCriteria
		_, err := DecodeFilter(filterRequest("criteria", `{"room":{"id":"r"}}`), "criteria", &c)
		assert.True(t, apperr.Is(err, apperr.KindArgument))
	})

	t.Run("Malformed", func(t *testing.T) {
		var c types.MealPlanCriteria
		_, err := DecodeFilter(filterRequest("criteria", `{"person":`), "criteria", &c)
		assert.True(t, apperr.Is(err, apperr.KindArgument))
	})
}

func TestBypassCache(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, BypassCache(req))

	req.Header.Set("Cache-Control", "max-age=0, No-Cache")
	assert.True(t, BypassCache(req))
}

func TestDecodeBody(t *testing.T) {
	var dst map[string]any

	ok, err := DecodeBody(nil, &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = DecodeBody([]byte(" null "), &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = DecodeBody([]byte(`{"a":1}`), &dst)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = DecodeBody([]byte(`{`), &dst)
	assert.True(t, apperr.Is(err, apperr.KindArgument))
}
