package ethos

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name))
	}
}

func chargeRoutes() []Route {
	return []Route{
		{Version: "6", MediaType: MediaTypeIntegration, Handler: named("v6")},
		{Version: "11", MediaType: MediaTypeIntegration, Handler: named("v11")},
		{Version: "16.0.0", MediaType: MediaTypeIntegration, Default: true, Handler: named("v16")},
		{Version: "16.1.0", MediaType: MediaTypeIntegration, Handler: named("v16.1")},
		{Version: "6", MediaType: MediaTypeIntegrationMaximum, Handler: named("max6")},
	}
}

func TestSelect(t *testing.T) {
	cases := []struct {
		name   string
		accept string
		want   string
		ok     bool
	}{
		{"Empty", "", "16.0.0", true},
		{"JSON", "application/json", "16.0.0", true},
		{"Wildcard", "*/*", "16.0.0", true},
		{"Exact", "application/vnd.hedtech.integration.v11+json", "11", true},
		{"ExactFull", "application/vnd.hedtech.integration.v16.0.0+json", "16.0.0", true},
		{"MajorPicksHighest", "application/vnd.hedtech.integration.v16+json", "16.1.0", true},
		{"MajorMinor", "application/vnd.hedtech.integration.v16.0+json", "16.0.0", true},
		{"CaseInsensitive", "Application/VND.hedtech.integration.v6+json", "6", true},
		{"OtherFormat", "application/vnd.hedtech.integration.maximum.v6+json", "6", true},
		{"Unknown", "application/vnd.hedtech.integration.v99+json", "", false},
		{"FallsThroughList", "application/vnd.hedtech.integration.v99+json, application/json", "16.0.0", true},
		{"Quality", "application/json;q=0.1, application/vnd.hedtech.integration.v11+json", "11", true},
		{"NotANumber", "application/vnd.hedtech.integration.vX+json", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/student-charges", nil)
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			rt, ok := Select(chargeRoutes(), req)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, rt.Version)
			}
		})
	}
}

func TestSelectMaximumFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/grade-definitions", nil)
	req.Header.Set("Accept", "application/vnd.hedtech.integration.maximum.v6+json")

	rt, ok := Select(chargeRoutes(), req)
	require.True(t, ok)
	assert.Equal(t, MediaTypeIntegrationMaximum, rt.MediaType)
}

func TestSelectContentTypeConstraint(t *testing.T) {
	routes := []Route{
		{Version: "1.0.0", MediaType: MediaTypeIntegration, Default: true, Handler: named("not-supported")},
		{Version: "1.0.0", MediaType: MediaTypeIntegration, ContentType: MediaTypeTranscriptGradesAdjustments, Handler: named("adjust")},
	}

	t.Run("Matches", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/student-transcript-grades/x", nil)
		req.Header.Set("Content-Type", "application/vnd.hedtech.integration.student-transcript-grades-adjustments.v1.0.0+json; charset=utf-8")
		w := httptest.NewRecorder()
		rt, ok := Select(routes, req)
		require.True(t, ok)
		rt.Handler(w, req)
		assert.Equal(t, "adjust", w.Body.String())
	})

	t.Run("PlainJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/student-transcript-grades/x", nil)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rt, ok := Select(routes, req)
		require.True(t, ok)
		rt.Handler(w, req)
		assert.Equal(t, "not-supported", w.Body.String())
	})
}

func TestRegistryMount(t *testing.T) {
	reg := NewRegistry()
	reg.Handle("GET /student-charges", chargeRoutes()...)
	reg.Handle("GET /grades", Route{Version: "1", MediaType: MediaTypeEllucian, Default: true, Handler: named("grades")})
	mux := http.NewServeMux()
	reg.Mount(mux)

	assert.Equal(t, []string{"GET /student-charges", "GET /grades"}, reg.Patterns())

	t.Run("MediaHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/student-charges", nil)
		req.Header.Set("Accept", "application/vnd.hedtech.integration.v11+json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "v11", w.Body.String())
		assert.Equal(t, "application/vnd.hedtech.integration.v11+json", w.Header().Get("X-Media-Type"))
	})

	t.Run("NoMediaHeaderForSelfService", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/grades", nil))

		assert.Equal(t, "grades", w.Body.String())
		assert.Empty(t, w.Header().Get("X-Media-Type"))
	})

	t.Run("NotAcceptable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/student-charges", nil)
		req.Header.Set("Accept", "application/vnd.hedtech.integration.v2+json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotAcceptable, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid.Media.Type")
	})
}

func TestNotSupported(t *testing.T) {
	w := httptest.NewRecorder()
	NotSupported(w, httptest.NewRequest(http.MethodDelete, "/grade-definitions/x", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported Request")
}

func TestNotSupportedRoutes(t *testing.T) {
	routes := NotSupportedRoutes(MediaTypeIntegration, "16.0.0", "10.1.0")
	require.Len(t, routes, 2)
	assert.True(t, routes[0].Default)
	assert.False(t, routes[1].Default)

	req := httptest.NewRequest(http.MethodDelete, "/housing-assignments/x", nil)
	req.Header.Set("Accept", "application/vnd.hedtech.integration.v10.1.0+json")
	rt, ok := Select(routes, req)
	require.True(t, ok)
	assert.Equal(t, "10.1.0", rt.Version)
}

func TestCompareVersions(t *testing.T) {
	assert.Positive(t, compareVersions("16.1.0", "16.0.9"))
	assert.Negative(t, compareVersions("9", "10"))
	assert.Zero(t, compareVersions("16", "16.0.0"))
}
