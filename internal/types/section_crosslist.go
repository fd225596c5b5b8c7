package types

// SectionCrosslist groups sections that meet together.
type SectionCrosslist struct {
	ID            string                    `json:"id"`
	Code          string                    `json:"code,omitempty"`
	Sections      []SectionCrosslistSection `json:"sections" validate:"required,min=2"`
	Waitlist      string                    `json:"waitlist,omitempty"`
	MaxEnrollment *int                      `json:"maxEnrollment,omitempty"`
}

// Crosslist section roles.
const (
	CrosslistSectionPrimary   = "primary"
	CrosslistSectionSecondary = "secondary"
)

// SectionCrosslistSection is one member section.
type SectionCrosslistSection struct {
	Section *GUIDObject `json:"section"`
	Type    string      `json:"type"`
}

// SectionFilter is the section named query.
type SectionFilter struct {
	Section *GUIDObject `json:"section"`
}
