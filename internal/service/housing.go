package service

import (
	"context"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const (
	housingAssignmentVersion = "16.0.0"
	housingRequestVersion    = "10.0.0"
)

// HousingAssignments coordinates housing-assignments.
type HousingAssignments struct {
	base
}

func NewHousingAssignments(d Deps) *HousingAssignments {
	return &HousingAssignments{base{d}}
}

func (s *HousingAssignments) canView(ctx context.Context) error {
	return s.requirePermission(ctx, "view housing assignments", PermViewHousingAssignment, PermCreateUpdateHousingAssignment)
}

func (s *HousingAssignments) canUpdate(ctx context.Context) error {
	return s.requirePermission(ctx, "create or update housing assignments", PermCreateUpdateHousingAssignment)
}

// List returns a page of assignments matching c.
func (s *HousingAssignments) List(ctx context.Context, offset, limit int, c types.HousingAssignmentCriteria) ([]types.HousingAssignment, int, error) {
	if err := s.canView(ctx); err != nil {
		return nil, 0, err
	}

	q := storage.Query{Offset: offset, Limit: limit}
	if c.Person != nil {
		q.Filters = append(q.Filters, storage.Eq("$.person.id", c.Person.ID))
	}
	if c.Room != nil {
		q.Filters = append(q.Filters, storage.Eq("$.room.id", c.Room.ID))
	}
	if c.AcademicPeriod != nil {
		q.Filters = append(q.Filters, storage.Eq("$.academicPeriod.id", c.AcademicPeriod.ID))
	}
	if c.Status != "" {
		q.Filters = append(q.Filters, storage.Eq("$.status", c.Status))
	}

	return list[types.HousingAssignment](ctx, s.Store, ResourceHousingAssignments, q)
}

// Get returns one assignment.
func (s *HousingAssignments) Get(ctx context.Context, id string) (types.HousingAssignment, error) {
	if err := s.canView(ctx); err != nil {
		return types.HousingAssignment{}, err
	}
	if id == "" {
		return types.HousingAssignment{}, apperr.Argument("The GUID must be specified in the request URL.")
	}
	return get[types.HousingAssignment](ctx, s.Store, ResourceHousingAssignments, id,
		"No housing assignment was found for GUID '"+id+"'.")
}

// Create stores a new assignment under a server assigned GUID.
func (s *HousingAssignments) Create(ctx context.Context, a types.HousingAssignment) (types.HousingAssignment, error) {
	if err := s.canUpdate(ctx); err != nil {
		return a, err
	}
	if !types.IsNilGUID(a.ID) {
		return a, apperr.Argument("On a post you can not define a GUID.")
	}
	if err := validateHousingAssignment(a); err != nil {
		return a, err
	}

	a.ID = newGUID()
	if err := create(ctx, s.Store, ResourceHousingAssignments, a.ID, a); err != nil {
		return a, err
	}
	s.notify(ctx, ResourceHousingAssignments, a.ID, housingAssignmentVersion, events.OperationCreated, a)
	return a, nil
}

// Update replaces an assignment. a is the merged representation.
func (s *HousingAssignments) Update(ctx context.Context, a types.HousingAssignment) (types.HousingAssignment, error) {
	if err := s.canUpdate(ctx); err != nil {
		return a, err
	}
	if err := validateHousingAssignment(a); err != nil {
		return a, err
	}

	if err := replace(ctx, s.Store, ResourceHousingAssignments, a.ID, a); err != nil {
		return a, err
	}
	s.notify(ctx, ResourceHousingAssignments, a.ID, housingAssignmentVersion, events.OperationReplaced, a)
	return a, nil
}

func validateHousingAssignment(a types.HousingAssignment) error {
	return validateBody(a)
}

// HousingRequests coordinates housing-requests.
type HousingRequests struct {
	base
}

func NewHousingRequests(d Deps) *HousingRequests {
	return &HousingRequests{base{d}}
}

func (s *HousingRequests) canView(ctx context.Context) error {
	return s.requirePermission(ctx, "view housing requests", PermViewHousingRequest, PermCreateHousingRequest)
}

func (s *HousingRequests) canUpdate(ctx context.Context) error {
	return s.requirePermission(ctx, "create or update housing requests", PermCreateHousingRequest)
}

// List returns a page of housing requests.
func (s *HousingRequests) List(ctx context.Context, offset, limit int) ([]types.HousingRequest, int, error) {
	if err := s.canView(ctx); err != nil {
		return nil, 0, err
	}
	return list[types.HousingRequest](ctx, s.Store, ResourceHousingRequests, storage.Query{Offset: offset, Limit: limit})
}

// Get returns one housing request.
func (s *HousingRequests) Get(ctx context.Context, id string) (types.HousingRequest, error) {
	if err := s.canView(ctx); err != nil {
		return types.HousingRequest{}, err
	}
	if id == "" {
		return types.HousingRequest{}, apperr.Argument("The GUID must be specified in the request URL.")
	}
	return get[types.HousingRequest](ctx, s.Store, ResourceHousingRequests, id,
		"No housing request was found for GUID '"+id+"'.")
}

// Create stores a new housing request.
func (s *HousingRequests) Create(ctx context.Context, hr types.HousingRequest) (types.HousingRequest, error) {
	if err := s.canUpdate(ctx); err != nil {
		return hr, err
	}
	if hr.ID == "" {
		return hr, apperr.Argument("The id must be specified in the request body.")
	}
	if !types.IsNilGUID(hr.ID) {
		return hr, apperr.Argument("On a post you can not define a GUID.")
	}
	if err := validateHousingRequest(hr); err != nil {
		return hr, err
	}

	hr.ID = newGUID()
	if err := create(ctx, s.Store, ResourceHousingRequests, hr.ID, hr); err != nil {
		return hr, err
	}
	s.notify(ctx, ResourceHousingRequests, hr.ID, housingRequestVersion, events.OperationCreated, hr)
	return hr, nil
}

// Update replaces a housing request. hr is the merged representation.
func (s *HousingRequests) Update(ctx context.Context, hr types.HousingRequest) (types.HousingRequest, error) {
	if err := s.canUpdate(ctx); err != nil {
		return hr, err
	}
	if err := validateHousingRequest(hr); err != nil {
		return hr, err
	}

	if err := replace(ctx, s.Store, ResourceHousingRequests, hr.ID, hr); err != nil {
		return hr, err
	}
	s.notify(ctx, ResourceHousingRequests, hr.ID, housingRequestVersion, events.OperationReplaced, hr)
	return hr, nil
}

func validateHousingRequest(hr types.HousingRequest) error {
	if err := validateBody(hr); err != nil {
		return err
	}
	if hr.Status == types.HousingRequestStatusApproved {
		return apperr.Argument("The approved status is not allowed in PUT/POST.")
	}

	for _, rc := range hr.RoomCharacteristics {
		if rc.Preferred != nil && rc.Preferred.ID == "" {
			return apperr.Argument("The roomCharacteristic prefered property id is required if prefered included.")
		}
		if rc.Required != nil && *rc.Required == types.RequiredNotSet {
			return apperr.Argument("The roomCharacteristic required property is required if included.")
		}
	}

	if fc := hr.FloorCharacteristics; fc != nil {
		if fc.Preferred == nil {
			return apperr.Argument("The floor characteristics preferred is required if floor characteristics included.")
		}
		if fc.Preferred.ID == "" {
			return apperr.Argument("The floor characteristics preferred id is required if characteristics preferred included.")
		}
		if fc.Required == nil || *fc.Required == types.RequiredNotSet {
			return apperr.Argument("The floor characteristics required property is required if characteristics required included.")
		}
	}

	for _, rm := range hr.RoommatePreferences {
		for _, pref := range []*types.RoommatePref{rm.Roommate, rm.RoommateCharacteristic} {
			if pref == nil {
				continue
			}
			if pref.Preferred != nil && pref.Preferred.ID == "" {
				return apperr.Argument("The roommate preferred id is required if preferred included.")
			}
			if pref.Required != nil && *pref.Required == types.RequiredNotSet {
				return apperr.Argument("The roommate required property is required if required included.")
			}
		}
	}
	return nil
}
