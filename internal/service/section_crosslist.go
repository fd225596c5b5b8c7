package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const sectionCrosslistVersion = "6"

// SectionCrosslists coordinates section-crosslists.
type SectionCrosslists struct {
	base
}

func NewSectionCrosslists(d Deps) *SectionCrosslists {
	return &SectionCrosslists{base{d}}
}

// List returns a page of crosslists, optionally those containing section.
func (s *SectionCrosslists) List(ctx context.Context, offset, limit int, section string) ([]types.SectionCrosslist, int, error) {
	if err := s.requirePermission(ctx, "view section crosslists", PermViewSectionCrosslists, PermUpdateSectionCrosslists); err != nil {
		return nil, 0, err
	}

	q := storage.Query{Offset: offset, Limit: limit}
	if section != "" {
		q.Filters = append(q.Filters, storage.Contains("$.sections", "$.section.id", section))
	}
	return list[types.SectionCrosslist](ctx, s.Store, ResourceSectionCrosslists, q)
}

// Get returns one crosslist.
func (s *SectionCrosslists) Get(ctx context.Context, id string) (types.SectionCrosslist, error) {
	if err := s.requirePermission(ctx, "view section crosslists", PermViewSectionCrosslists, PermUpdateSectionCrosslists); err != nil {
		return types.SectionCrosslist{}, err
	}
	return get[types.SectionCrosslist](ctx, s.Store, ResourceSectionCrosslists, id,
		"No section crosslist was found for GUID '"+id+"'.")
}

// Create stores a new crosslist.
func (s *SectionCrosslists) Create(ctx context.Context, c types.SectionCrosslist) (types.SectionCrosslist, error) {
	if err := s.requirePermission(ctx, "create section crosslists", PermUpdateSectionCrosslists); err != nil {
		return c, err
	}
	if c.ID == "" {
		return c, apperr.Integration("Null sectioncrosslist id", "Id is a required property.")
	}
	if !types.IsNilGUID(c.ID) {
		return c, apperr.Argument("On a post you can not define a GUID.")
	}
	if err := validateCrosslist(c); err != nil {
		return c, err
	}

	c.ID = newGUID()
	if err := create(ctx, s.Store, ResourceSectionCrosslists, c.ID, c); err != nil {
		return c, err
	}
	s.notify(ctx, ResourceSectionCrosslists, c.ID, sectionCrosslistVersion, events.OperationCreated, c)
	return c, nil
}

// Update replaces a crosslist.
func (s *SectionCrosslists) Update(ctx context.Context, c types.SectionCrosslist) (types.SectionCrosslist, error) {
	if err := s.requirePermission(ctx, "update section crosslists", PermUpdateSectionCrosslists); err != nil {
		return c, err
	}
	if err := validateCrosslist(c); err != nil {
		return c, err
	}

	if err := replace(ctx, s.Store, ResourceSectionCrosslists, c.ID, c); err != nil {
		return c, err
	}
	s.notify(ctx, ResourceSectionCrosslists, c.ID, sectionCrosslistVersion, events.OperationReplaced, c)
	return c, nil
}

// Delete removes a crosslist.
func (s *SectionCrosslists) Delete(ctx context.Context, id string) error {
	if err := s.requirePermission(ctx, "delete section crosslists", PermDeleteSectionCrosslists); err != nil {
		return err
	}
	if err := s.Store.DeleteRecord(ctx, ResourceSectionCrosslists, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("No section crosslist was found for GUID '%s'.", id)
		}
		return apperr.Repository(err, "Unable to delete section crosslist '%s'.", id)
	}
	s.notify(ctx, ResourceSectionCrosslists, id, sectionCrosslistVersion, events.OperationDeleted, nil)
	return nil
}

func validateCrosslist(c types.SectionCrosslist) error {
	if err := validateBody(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Sections))
	primaries := 0
	for _, sec := range c.Sections {
		id := strings.ToLower(types.RefID(sec.Section))
		if seen[id] {
			return apperr.Integration("Repeating section ids", "The sections list must contain unique sections, section ids cannot repeat.")
		}
		seen[id] = true
		if sec.Type == types.CrosslistSectionPrimary {
			primaries++
		}
	}

	switch {
	case primaries == 0:
		return apperr.Integration("Missing primary section argument", "The sections list must have at least one section marked as primary.")
	case primaries > 1:
		return apperr.Integration("Too many primary sections", "The sections list may only have one section marked as primary.")
	}
	return nil
}
