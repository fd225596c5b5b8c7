package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/pdf"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// ErrConsentRequired marks a refusal caused by missing or declined consent.
// Handlers answer it with 401.
var ErrConsentRequired = errors.New("Consent is required to view this information.")

// TaxFormSettings are the institution's tax form options.
type TaxFormSettings struct {
	Form1098BypassConsent bool
	T2202aHideConsent     bool
}

// Renderer draws the PDF documents.
type Renderer interface {
	Render1098(d types.Form1098PdfData) ([]byte, error)
	RenderT2202a(d types.FormT2202aPdfData) ([]byte, error)
}

// TaxForms builds the tax form PDFs of a person.
type TaxForms struct {
	base
	settings TaxFormSettings
	renderer Renderer
}

func NewTaxForms(d Deps, settings TaxFormSettings, renderer Renderer) *TaxForms {
	return &TaxForms{base: base{d}, settings: settings, renderer: renderer}
}

func consentRequired() error {
	return &apperr.Error{Kind: apperr.KindPermission, Message: ErrConsentRequired.Error(), Err: ErrConsentRequired}
}

// latestConsent returns the most recent consent decision of person for
// form, or nil when none was recorded.
func (s *TaxForms) latestConsent(ctx context.Context, personID, form string) (*types.TaxFormConsent, error) {
	consents, _, err := list[types.TaxFormConsent](ctx, s.Store, ResourceTaxFormConsents, storage.Query{
		Filters: []storage.Filter{
			storage.Eq("$.personId", personID),
			storage.Eq("$.taxForm", form),
		},
	})
	if err != nil {
		return nil, err
	}

	var latest *types.TaxFormConsent
	for i := range consents {
		if latest == nil || consents[i].TimeStamp.After(latest.TimeStamp) {
			latest = &consents[i]
		}
	}
	return latest, nil
}

func checkIDs(personID, recordID string) error {
	if strings.TrimSpace(personID) == "" {
		return apperr.Argument("Person ID must be specified.")
	}
	if strings.TrimSpace(recordID) == "" {
		return apperr.Argument("Record ID must be specified.")
	}
	return nil
}

// Form1098Pdf renders a 1098-T. allowBypass enables the institution's
// bypass consent setting, which only the current version honors.
func (s *TaxForms) Form1098Pdf(ctx context.Context, personID, recordID string, allowBypass bool) ([]byte, error) {
	if err := checkIDs(personID, recordID); err != nil {
		return nil, err
	}

	admin := auth.FromContext(ctx).Has(PermViewStudent1098)
	if !s.isSelf(ctx, personID) && !admin {
		return nil, apperr.Permission("User '%s' does not have permission to access 1098 information for person '%s'.",
			auth.FromContext(ctx).PersonID, personID)
	}

	consent, err := s.latestConsent(ctx, personID, types.TaxForm1098)
	if err != nil {
		return nil, err
	}
	consented := consent != nil && consent.HasConsented
	if !consented && !admin && !(allowBypass && s.settings.Form1098BypassConsent) {
		return nil, consentRequired()
	}

	data, err := get[types.Form1098PdfData](ctx, s.Store, ResourceForm1098PdfData, recordID,
		"No 1098 tax form was found for record '"+recordID+"'.")
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(data.PersonId, personID) {
		return nil, apperr.Permission("Record '%s' does not belong to person '%s'.", recordID, personID)
	}

	doc, err := s.renderer.Render1098(data)
	if err != nil {
		s.Log.Error("1098 rendering failed", slog.String("recordId", recordID), slog.String("error", err.Error()))
		return nil, apperr.Argument("Error retrieving 1098 PDF data.")
	}
	return doc, nil
}

// FormT2202aPdf renders a T2202A. Consent is only consulted when the
// institution shows it; then an explicit opt-out blocks non admin callers.
func (s *TaxForms) FormT2202aPdf(ctx context.Context, personID, recordID string) ([]byte, error) {
	if err := checkIDs(personID, recordID); err != nil {
		return nil, err
	}

	admin := auth.FromContext(ctx).Has(PermViewStudentT2202A)
	if !s.isSelf(ctx, personID) && !admin {
		return nil, apperr.Permission("User '%s' does not have permission to access T2202A information for person '%s'.",
			auth.FromContext(ctx).PersonID, personID)
	}

	if !s.settings.T2202aHideConsent {
		consent, err := s.latestConsent(ctx, personID, types.TaxFormT2202A)
		if err != nil {
			return nil, err
		}
		if consent != nil && !consent.HasConsented && !admin {
			return nil, consentRequired()
		}
	}

	data, err := get[types.FormT2202aPdfData](ctx, s.Store, ResourceFormT2202aPdfData, recordID,
		"No T2202A tax form was found for record '"+recordID+"'.")
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(data.PersonId, personID) {
		return nil, apperr.Permission("Record '%s' does not belong to person '%s'.", recordID, personID)
	}

	doc, err := s.renderer.RenderT2202a(data)
	if err != nil {
		s.Log.Error("T2202A rendering failed", slog.String("recordId", recordID), slog.String("error", err.Error()))
		return nil, apperr.Argument("Error retrieving T2202A PDF data.")
	}
	return doc, nil
}

var _ Renderer = (*pdf.Renderer)(nil)
