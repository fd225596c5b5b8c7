// Package handlertest holds the fakes and request helpers shared by the
// handler tests.
package handlertest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
	"github.com/stretchr/testify/require"
)

// Support is an in-memory ethos.Support.
type Support struct {
	mu         sync.Mutex
	Restricted []string
	Extended   map[string]json.RawMessage
	Imported   map[string]json.RawMessage
}

func (s *Support) DataPrivacyList(context.Context, string, bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Restricted, nil
}

func (s *Support) ExtendedData(_ context.Context, _ string, ids []string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]json.RawMessage{}
	for _, id := range ids {
		if ext, ok := s.Extended[strings.ToLower(id)]; ok {
			out[strings.ToLower(id)] = ext
		}
	}
	return out, nil
}

func (s *Support) ImportExtendedData(_ context.Context, _ string, id string, ext json.RawMessage) error {
	if len(ext) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Imported == nil {
		s.Imported = map[string]json.RawMessage{}
	}
	s.Imported[id] = ext
	return nil
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Pager is the pager the handler tests run with.
func Pager() ethos.Pager {
	return ethos.Pager{MaxPageSize: 500}
}

// Server mounts the routes added by register.
func Server(register func(reg *ethos.Registry)) http.Handler {
	reg := ethos.NewRegistry()
	register(reg)
	mux := http.NewServeMux()
	reg.Mount(mux)
	return mux
}

// NewRequest builds a request accepting accept. A non-empty body is sent
// as JSON.
func NewRequest(method, target, body, accept string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rd)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if accept != "" {
		r.Header.Set("Accept", accept)
	}
	return r
}

// As authenticates r as personID holding perms.
func As(r *http.Request, personID string, perms ...string) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{PersonID: personID, Permissions: perms}))
}

// Do serves r and returns the recorded response.
func Do(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// ErrorDescription returns the description of the first integration error
// in rec.
func ErrorDescription(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, response.MediaTypeErrorsV2, rec.Header().Get("Content-Type"), rec.Body.String())
	var payload response.IntegrationErrors
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Errors)
	return payload.Errors[0].Description
}

// GeneralError returns the message of a self-service error envelope.
func GeneralError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	require.Equal(t, response.StatusError, payload.Status)
	return payload.Error
}
