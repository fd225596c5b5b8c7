// Package ethos holds the request and response conventions shared by every
// EEDM resource: media type versioning, paging, query filters, the data
// privacy list and extended data.
package ethos

import (
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Media type templates. %s is replaced by the route version.
const (
	MediaTypeIntegration                 = "application/vnd.hedtech.integration.v%s+json"
	MediaTypeIntegrationMaximum          = "application/vnd.hedtech.integration.maximum.v%s+json"
	MediaTypeTranscriptGradesOptions     = "application/vnd.hedtech.integration.student-transcript-grades-options.v%s+json"
	MediaTypeTranscriptGradesAdjustments = "application/vnd.hedtech.integration.student-transcript-grades-adjustments.v%s+json"
	MediaTypeEllucian                    = "application/vnd.ellucian.v%s+json"
	MediaTypePilot                       = "application/vnd.ellucian-pilot.v%s+json"
	MediaTypeInstantEnrollment           = "application/vnd.ellucian-instant-enrollment.v%s+json"
	MediaTypeEllucianPDF                 = "application/vnd.ellucian.v%s+pdf"
)

// Route is one versioned implementation of a method and path.
type Route struct {
	Version   string
	MediaType string
	// Default routes answer requests that accept any JSON.
	Default bool
	// ContentType, when set, is a media type template the request body must
	// carry. Such routes are chosen by Content-Type instead of Accept.
	ContentType string
	Handler     http.HandlerFunc
}

// Served is the full media type the route answers with.
func (rt Route) Served() string {
	return fmt.Sprintf(rt.MediaType, rt.Version)
}

// Registry collects versioned routes and mounts one dispatcher per
// ServeMux pattern.
type Registry struct {
	patterns []string
	routes   map[string][]Route
}

func NewRegistry() *Registry {
	return &Registry{routes: make(map[string][]Route)}
}

// Handle adds routes for pattern, a ServeMux pattern such as
// "GET /housing-assignments/{id}".
func (reg *Registry) Handle(pattern string, routes ...Route) {
	if _, ok := reg.routes[pattern]; !ok {
		reg.patterns = append(reg.patterns, pattern)
	}
	reg.routes[pattern] = append(reg.routes[pattern], routes...)
}

// Patterns lists the registered patterns in registration order.
func (reg *Registry) Patterns() []string {
	return reg.patterns
}

// Mount registers every pattern on mux.
func (reg *Registry) Mount(mux *http.ServeMux) {
	for _, p := range reg.patterns {
		mux.HandleFunc(p, reg.dispatcher(p))
	}
}

func (reg *Registry) dispatcher(pattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt, ok := Select(reg.routes[pattern], r)
		if !ok {
			msg := fmt.Sprintf("The requested media type is not supported: %s", r.Header.Get("Accept"))
			err := apperr.Argument("%s", msg).WithDetail(apperr.CodeNotAcceptable, msg, msg)
			response.WriteIntegrationError(w, http.StatusNotAcceptable, err)
			return
		}
		if strings.Contains(rt.MediaType, "hedtech") {
			w.Header().Set("X-Media-Type", rt.Served())
		}
		rt.Handler(w, r)
	}
}

// Select picks the route serving r. Content-Type constrained routes win
// when the request body matches them; every other request is negotiated
// on the Accept header.
func Select(routes []Route, r *http.Request) (Route, bool) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			for _, rt := range routes {
				if rt.ContentType != "" && strings.EqualFold(mt, fmt.Sprintf(rt.ContentType, rt.Version)) {
					return rt, true
				}
			}
		}
	}

	candidates := make([]Route, 0, len(routes))
	for _, rt := range routes {
		if rt.ContentType == "" {
			candidates = append(candidates, rt)
		}
	}

	accepted := parseAccept(r.Header.Get("Accept"))
	if len(accepted) == 0 {
		return defaultRoute(candidates)
	}

	for _, mt := range accepted {
		if isGeneric(mt) {
			if rt, ok := defaultRoute(candidates); ok {
				return rt, true
			}
			continue
		}
		if rt, ok := matchVersion(candidates, mt); ok {
			return rt, true
		}
	}
	return Route{}, false
}

func isGeneric(mt string) bool {
	switch mt {
	case "*/*", "application/*", "application/json":
		return true
	}
	return false
}

func defaultRoute(routes []Route) (Route, bool) {
	for _, rt := range routes {
		if rt.Default {
			return rt, true
		}
	}
	return Route{}, false
}

// matchVersion finds an exact version match first, then the highest
// version that starts with the requested major or major.minor.
func matchVersion(routes []Route, mt string) (Route, bool) {
	var best Route
	found := false
	for _, rt := range routes {
		v, ok := versionOf(mt, rt.MediaType)
		if !ok {
			continue
		}
		if v == rt.Version {
			return rt, true
		}
		if strings.HasPrefix(rt.Version, v+".") && (!found || compareVersions(rt.Version, best.Version) > 0) {
			best, found = rt, true
		}
	}
	return best, found
}

// versionOf extracts the version from mt when it fits template.
func versionOf(mt, template string) (string, bool) {
	prefix, suffix, _ := strings.Cut(template, "%s")
	if !strings.HasPrefix(mt, prefix) || !strings.HasSuffix(mt, suffix) || len(mt) <= len(prefix)+len(suffix) {
		return "", false
	}
	v := mt[len(prefix) : len(mt)-len(suffix)]
	for _, c := range v {
		if (c < '0' || c > '9') && c != '.' {
			return "", false
		}
	}
	return v, true
}

func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var x, y int
		if i < len(as) {
			x, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			y, _ = strconv.Atoi(bs[i])
		}
		if x != y {
			return x - y
		}
	}
	return 0
}

type acceptEntry struct {
	mediaType string
	q         float64
}

// parseAccept returns the accepted media types, lower cased, ordered by
// quality and then by position.
func parseAccept(header string) []string {
	var entries []acceptEntry
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mt, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		q := 1.0
		if qs, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(qs, 64); err == nil {
				q = v
			}
		}
		entries = append(entries, acceptEntry{mediaType: strings.ToLower(mt), q: q})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].q > entries[j].q })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.mediaType
	}
	return out
}

// NotSupported answers HeDM operations that only exist to complete the
// CRUD contract.
func NotSupported(w http.ResponseWriter, _ *http.Request) {
	response.WriteIntegrationError(w, http.StatusMethodNotAllowed, apperr.NotSupported())
}

// NotSupportedRoutes registers NotSupported for every version of a media
// type so clients pinned to any of them get 405 rather than 406. The first
// version is the default.
func NotSupportedRoutes(mediaType string, versions ...string) []Route {
	routes := make([]Route, 0, len(versions))
	for i, v := range versions {
		routes = append(routes, Route{Version: v, MediaType: mediaType, Default: i == 0, Handler: NotSupported})
	}
	return routes
}
