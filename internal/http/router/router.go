// Package router assembles every resource handler behind one ServeMux.
package router

import (
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/metrics"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

const (
	HealthPath  = "/healthcheck"
	MetricsPath = "/metrics"
)

// Registrar adds its routes to a registry. Every resource handler is one.
type Registrar interface {
	Register(reg *ethos.Registry)
}

// Authenticator guards every path except the public ones.
type Authenticator interface {
	Middleware(next http.Handler, public ...string) http.Handler
}

// New mounts the handlers and the operational endpoints. The metrics
// middleware wraps the mux directly so it sees the matched pattern.
func New(authn Authenticator, handlers ...Registrar) http.Handler {
	reg := ethos.NewRegistry()
	for _, h := range handlers {
		h.Register(reg)
	}

	mux := http.NewServeMux()
	reg.Mount(mux)
	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	})
	mux.Handle("GET "+MetricsPath, metrics.Handler())

	return authn.Middleware(metrics.Middleware(mux), HealthPath, MetricsPath)
}
