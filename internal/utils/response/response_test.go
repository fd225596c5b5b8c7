package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusCreated, map[string]string{"id": "x"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"x"}`, w.Body.String())
}

func TestWriteJSONKeepsMediaType(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Content-Type", "application/vnd.hedtech.integration.v16.0.0+json")
	require.NoError(t, WriteJSON(w, http.StatusOK, []int{}))

	assert.Equal(t, "application/vnd.hedtech.integration.v16.0.0+json", w.Header().Get("Content-Type"))
}

func TestWriteIntegrationError(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteIntegrationError(w, http.StatusNotFound, apperr.NotFound("No housing assignment was found for guid x")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MediaTypeErrorsV2, w.Header().Get("Content-Type"))

	var body IntegrationErrors
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, apperr.CodeGUIDNotFound, body.Errors[0].Code)
	assert.Equal(t, "No housing assignment was found for guid x", body.Errors[0].Message)
}

func TestWritePDF(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WritePDF(w, "TaxForm1098_r1.pdf", []byte("%PDF-1.3")))

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=TaxForm1098_r1.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", w.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}

func TestValidationError(t *testing.T) {
	type body struct {
		StudentIds []string `validate:"required,min=1"`
		Term       string   `validate:"required"`
	}

	err := validator.New().Struct(body{StudentIds: []string{}})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "field body.StudentIds must have at least 1 entries, field body.Term is required", resp.Error)

	ie := ValidationIntegrationError(verrs)
	assert.Equal(t, apperr.KindArgument, ie.Kind)
	assert.Len(t, ie.Details, 2)
}

func TestGeneralError(t *testing.T) {
	resp := GeneralError(errors.New("boom"))
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, resp)
}

func TestWriteGeneralError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		status  int
		want    string
	}{
		{"Argument", apperr.Argument("bad term"), "", http.StatusBadRequest, "bad term"},
		{"Permission", apperr.Permission("not yours"), "", http.StatusForbidden, "not yours"},
		{"Session", apperr.SessionExpired(), "Session has expired while retrieving grades", http.StatusUnauthorized, "Session has expired while retrieving grades"},
		{"Replaced", errors.New("sql: no rows"), "An error occurred", http.StatusBadRequest, "An error occurred"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, WriteGeneralError(w, tc.err, tc.message))

			assert.Equal(t, tc.status, w.Code)
			var got Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, Response{Status: StatusError, Error: tc.want}, got)
		})
	}
}
