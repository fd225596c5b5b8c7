package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBody(t *testing.T) {
	for _, body := range []string{"", "   ", "null"} {
		r := httptest.NewRequest(http.MethodPost, "/housing-requests", strings.NewReader(body))
		_, err := Body(httptest.NewRecorder(), r, "housingRequest")
		require.Error(t, err, "body %q", body)
		assert.Equal(t, apperr.KindIntegration, apperr.KindOf(err))
		assert.Equal(t, "The request body is required.", apperr.Details(err)[0].Description)
	}

	r := httptest.NewRequest(http.MethodPost, "/housing-requests", strings.NewReader(`{"id":"x"}`))
	body, err := Body(httptest.NewRecorder(), r, "housingRequest")
	require.NoError(t, err)
	assert.Equal(t, "x", BodyID(body))
}

func TestPutID(t *testing.T) {
	const id = "6F3B2C1A-0000-4000-8000-000000000001"

	tests := []struct {
		name   string
		urlID  string
		bodyID string
		want   string
		desc   string
	}{
		{"EmptyBodyTakesURL", id, "", strings.ToLower(id), ""},
		{"CaseInsensitiveMatch", id, strings.ToLower(id), strings.ToLower(id), ""},
		{"MissingURL", "", id, "", "The id must be specified in the request URL."},
		{"NilURL", "00000000-0000-0000-0000-000000000000", "", "", "Nil GUID cannot be used in PUT operation."},
		{"Mismatch", id, "6f3b2c1a-0000-4000-8000-000000000002", "", "Id not the same as in request body."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PutID(tc.urlID, tc.bodyID)
			if tc.desc == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.Status(err, 0))
			assert.Equal(t, tc.desc, apperr.Details(err)[0].Description)
		})
	}
}

func TestPutIDMatching(t *testing.T) {
	const id = "6f3b2c1a-0000-4000-8000-000000000001"

	got, err := PutIDMatching(id, strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = PutIDMatching(id, "")
	require.Error(t, err)
	assert.Equal(t, "Id not the same as in request body.", apperr.Details(err)[0].Description)

	_, err = PutIDMatching(types.NilGUID, types.NilGUID)
	require.Error(t, err)
	assert.Equal(t, "Nil GUID cannot be used in PUT operation.", apperr.Details(err)[0].Description)
}

func TestBodyIDIgnoresInvalidJSON(t *testing.T) {
	assert.Equal(t, "", BodyID([]byte(`{"id":`)))
	assert.Equal(t, "", BodyID([]byte(`[1,2]`)))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		FacultyIds []string
	}

	r := httptest.NewRequest(http.MethodPost, "/qapi/faculty", strings.NewReader(""))
	ok, err := DecodeJSON(r, &dst, true)
	require.NoError(t, err)
	assert.False(t, ok)

	r = httptest.NewRequest(http.MethodPost, "/qapi/faculty", strings.NewReader(""))
	_, err = DecodeJSON(r, &dst, false)
	assert.EqualError(t, err, "request body is empty")

	r = httptest.NewRequest(http.MethodPost, "/qapi/faculty", strings.NewReader(`{"FacultyIds":`))
	_, err = DecodeJSON(r, &dst, true)
	assert.True(t, apperr.Is(err, apperr.KindArgument))

	r = httptest.NewRequest(http.MethodPost, "/qapi/faculty", strings.NewReader(`{"FacultyIds":["0000011"]}`))
	ok, err = DecodeJSON(r, &dst, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"0000011"}, dst.FacultyIds)
}
