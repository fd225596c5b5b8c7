// Package housing serves housing-assignments and housing-requests.
package housing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const pageSize = 100

// AssignmentService is what the housing-assignments routes need.
type AssignmentService interface {
	ethos.Support
	List(ctx context.Context, offset, limit int, c types.HousingAssignmentCriteria) ([]types.HousingAssignment, int, error)
	Get(ctx context.Context, id string) (types.HousingAssignment, error)
	Create(ctx context.Context, a types.HousingAssignment) (types.HousingAssignment, error)
	Update(ctx context.Context, a types.HousingAssignment) (types.HousingAssignment, error)
}

// RequestService is what the housing-requests routes need.
type RequestService interface {
	ethos.Support
	List(ctx context.Context, offset, limit int) ([]types.HousingRequest, int, error)
	Get(ctx context.Context, id string) (types.HousingRequest, error)
	Create(ctx context.Context, hr types.HousingRequest) (types.HousingRequest, error)
	Update(ctx context.Context, hr types.HousingRequest) (types.HousingRequest, error)
}

// Handler holds the housing services.
type Handler struct {
	assignments AssignmentService
	requests    RequestService
	pager       ethos.Pager
	log         *slog.Logger
}

func New(assignments AssignmentService, requests RequestService, pager ethos.Pager, log *slog.Logger) *Handler {
	return &Handler{assignments: assignments, requests: requests, pager: pager, log: log}
}

// Register adds the housing routes to reg.
func (h *Handler) Register(reg *ethos.Registry) {
	reg.Handle("GET /housing-assignments",
		ethos.Route{Version: "16.0.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.ListAssignments(false)},
		ethos.Route{Version: "10.1.0", MediaType: ethos.MediaTypeIntegration, Handler: h.ListAssignments(true)},
	)
	reg.Handle("GET /housing-assignments/{id}",
		ethos.Route{Version: "16.0.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.GetAssignment(false)},
		ethos.Route{Version: "10.1.0", MediaType: ethos.MediaTypeIntegration, Handler: h.GetAssignment(true)},
	)
	reg.Handle("POST /housing-assignments",
		ethos.Route{Version: "16.0.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.CreateAssignment(false)},
		ethos.Route{Version: "10.1.0", MediaType: ethos.MediaTypeIntegration, Handler: h.CreateAssignment(true)},
	)
	reg.Handle("PUT /housing-assignments/{id}",
		ethos.Route{Version: "16.0.0", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.UpdateAssignment(false)},
		ethos.Route{Version: "10.1.0", MediaType: ethos.MediaTypeIntegration, Handler: h.UpdateAssignment(true)},
	)
	reg.Handle("DELETE /housing-assignments/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "16.0.0", "10.1.0")...)

	reg.Handle("GET /housing-requests",
		ethos.Route{Version: "10", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.ListRequests()})
	reg.Handle("GET /housing-requests/{id}",
		ethos.Route{Version: "10", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.GetRequest()})
	reg.Handle("POST /housing-requests",
		ethos.Route{Version: "10", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.CreateRequest()})
	reg.Handle("PUT /housing-requests/{id}",
		ethos.Route{Version: "10", MediaType: ethos.MediaTypeIntegration, Default: true, Handler: h.UpdateRequest()})
	reg.Handle("DELETE /housing-requests/{id}", ethos.NotSupportedRoutes(ethos.MediaTypeIntegration, "10")...)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	ethos.WriteError(w, h.log, op, err, http.StatusForbidden)
}

const (
	assignmentsResource = service.ResourceHousingAssignments
	requestsResource    = service.ResourceHousingRequests
)
