package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/shopspring/decimal"
)

// Cash receipt states.
const (
	ReceiptPaid    = "Paid"
	ReceiptPending = "Pending"
)

// defaultParagraph is the payment paragraph record used for every receipt.
const defaultParagraph = "default"

// GatewaySettings points registrations at the external payment provider.
type GatewaySettings struct {
	URL              string
	DistributionCode string
}

// InstantEnrollment registers walk-in applicants for sections and takes
// their payments.
type InstantEnrollment struct {
	base
	gateway GatewaySettings
}

func NewInstantEnrollment(d Deps, gateway GatewaySettings) *InstantEnrollment {
	return &InstantEnrollment{base: base{d}, gateway: gateway}
}

// canSeePerson allows the person themselves and staff holding the instant
// enrollment permission.
func (s *InstantEnrollment) canSeePerson(ctx context.Context, personID, what string) error {
	if s.isSelf(ctx, personID) || auth.FromContext(ctx).Has(PermViewInstantEnrollmentData) {
		return nil
	}
	return apperr.Permission("User '%s' is not permitted to retrieve %s for person %s.",
		auth.FromContext(ctx).PersonID, what, personID)
}

// SearchSections returns one page of the sections matching c.
func (s *InstantEnrollment) SearchSections(ctx context.Context, c types.InstantEnrollmentCourseSearchCriteria, pageSize, pageIndex int) (types.SectionPage2, error) {
	if pageSize < 1 {
		return types.SectionPage2{}, apperr.Argument("pageSize must be at least 1.")
	}
	if pageIndex < 0 {
		return types.SectionPage2{}, apperr.Argument("pageIndex cannot be negative.")
	}

	q := storage.Query{}
	if len(c.SectionIds) > 0 {
		q.Filters = append(q.Filters, storage.In("$.Id", toAny(c.SectionIds)...))
	}
	if len(c.Subjects) > 0 {
		q.Filters = append(q.Filters, storage.In("$.Subject", toAny(c.Subjects)...))
	}
	if len(c.Locations) > 0 {
		q.Filters = append(q.Filters, storage.In("$.Location", toAny(c.Locations)...))
	}
	sections, _, err := list[types.InstantEnrollmentSection](ctx, s.Store, ResourceIESections, q)
	if err != nil {
		return types.SectionPage2{}, err
	}

	keyword := strings.ToLower(strings.TrimSpace(c.Keyword))
	matched := make([]types.InstantEnrollmentSection, 0, len(sections))
	for _, sec := range sections {
		switch {
		case keyword != "" && !strings.Contains(strings.ToLower(sec.Subject+" "+sec.Number+" "+sec.Title), keyword):
			continue
		case c.StartDate != nil && sec.StartDate.Before(c.StartDate.Time):
			continue
		case c.EndDate != nil && sec.EndDate != nil && sec.EndDate.After(c.EndDate.Time):
			continue
		case c.OpenSections && sec.Available < 1:
			continue
		}
		matched = append(matched, sec)
	}

	page := types.SectionPage2{
		CurrentPageItems: []types.InstantEnrollmentSection{},
		CurrentPageIndex: pageIndex,
		TotalItems:       len(matched),
		TotalPages:       (len(matched) + pageSize - 1) / pageSize,
		PageSize:         pageSize,
	}
	start := pageIndex * pageSize
	if start < len(matched) {
		end := min(start+pageSize, len(matched))
		page.CurrentPageItems = matched[start:end]
	}
	return page, nil
}

// priced is the outcome of pricing a set of proposed sections.
type priced struct {
	sections []types.InstantEnrollmentRegistrationBaseSectionRegistration
	messages []types.InstantEnrollmentRegistrationMessage
	total    decimal.Decimal
	// stored holds the sections found, keyed by lower case id.
	stored map[string]types.InstantEnrollmentSection
}

func (p priced) failed() bool { return len(p.messages) > 0 }

func (s *InstantEnrollment) price(ctx context.Context, proposed []types.ProposedSection) (priced, error) {
	ids := make([]string, 0, len(proposed))
	for _, ps := range proposed {
		ids = append(ids, ps.SectionId)
	}
	sections, _, err := list[types.InstantEnrollmentSection](ctx, s.Store, ResourceIESections, storage.Query{
		Filters: []storage.Filter{storage.In("$.Id", toAny(ids)...)},
	})
	if err != nil {
		return priced{}, err
	}

	p := priced{
		sections: []types.InstantEnrollmentRegistrationBaseSectionRegistration{},
		messages: []types.InstantEnrollmentRegistrationMessage{},
		total:    decimal.Zero,
		stored:   make(map[string]types.InstantEnrollmentSection, len(sections)),
	}
	for _, sec := range sections {
		p.stored[strings.ToLower(sec.Id)] = sec
	}

	seen := make(map[string]bool, len(proposed))
	for _, ps := range proposed {
		key := strings.ToLower(ps.SectionId)
		sec, ok := p.stored[key]
		switch {
		case ps.SectionId == "":
			p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
				Message: "A section id is required for every proposed section.",
			})
			continue
		case seen[key]:
			p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
				MessageSection: ps.SectionId,
				Message:        "Section " + ps.SectionId + " was proposed more than once.",
			})
			continue
		case !ok:
			p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
				MessageSection: ps.SectionId,
				Message:        "Section " + ps.SectionId + " is not offered for instant enrollment.",
			})
			continue
		case sec.Available < 1:
			p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
				MessageSection: ps.SectionId,
				Message:        "Section " + ps.SectionId + " is full.",
			})
			continue
		}
		seen[key] = true

		credits := sec.Credits
		if ps.AcademicCredits != nil {
			credits = *ps.AcademicCredits
		}
		p.sections = append(p.sections, types.InstantEnrollmentRegistrationBaseSectionRegistration{
			SectionId: sec.Id,
			Credits:   credits,
			Cost:      sec.Cost,
		})
		p.total = p.total.Add(sec.Cost)
	}
	return p, nil
}

func requireProposedSections(proposed []types.ProposedSection) error {
	if len(proposed) == 0 {
		return apperr.Argument("At least one proposed section is required.")
	}
	return nil
}

// ProposedRegistration prices the proposed sections without registering.
func (s *InstantEnrollment) ProposedRegistration(ctx context.Context, r types.InstantEnrollmentProposedRegistration) (types.InstantEnrollmentProposedRegistrationResult, error) {
	if err := requireProposedSections(r.ProposedSections); err != nil {
		return types.InstantEnrollmentProposedRegistrationResult{}, err
	}
	p, err := s.price(ctx, r.ProposedSections)
	if err != nil {
		return types.InstantEnrollmentProposedRegistrationResult{}, err
	}
	return types.InstantEnrollmentProposedRegistrationResult{
		ErrorOccurred:        p.failed(),
		RegisteredSections:   p.sections,
		RegistrationMessages: p.messages,
		TotalCost:            p.total,
	}, nil
}

// resolvePerson returns the registering person, creating a record from the
// demographic data for new applicants.
func (s *InstantEnrollment) resolvePerson(ctx context.Context, personID string, demo *types.InstantEnrollmentPersonDemographic) (types.InstantEnrollmentPerson, error) {
	if personID != "" {
		return get[types.InstantEnrollmentPerson](ctx, s.Store, ResourcePersons, personID,
			"Person "+personID+" was not found.")
	}
	if demo == nil {
		return types.InstantEnrollmentPerson{}, apperr.Argument("Either a person id or person demographic information is required.")
	}
	if demo.FirstName == "" || demo.LastName == "" || demo.EmailAddress == "" {
		return types.InstantEnrollmentPerson{}, apperr.Argument("A new person requires a first name, last name and email address.")
	}

	p := types.InstantEnrollmentPerson{
		Id:           newGUID(),
		FirstName:    demo.FirstName,
		LastName:     demo.LastName,
		MiddleName:   demo.MiddleName,
		BirthDate:    demo.BirthDate,
		EmailAddress: demo.EmailAddress,
		UserName:     strings.ToLower(demo.FirstName[:1] + demo.LastName),
	}
	if err := create(ctx, s.Store, ResourcePersons, p.Id, p); err != nil {
		return p, err
	}
	s.Log.Info("instant enrollment person created", slog.String("person_id", p.Id))
	return p, nil
}

// register stores the registration and takes one seat in every section.
func (s *InstantEnrollment) register(ctx context.Context, personID, receiptID string, p priced) error {
	rec := types.InstantEnrollmentRegistrationRecord{
		Id:                 newGUID(),
		PersonId:           personID,
		CashReceiptId:      receiptID,
		RegisteredOn:       types.NewDate(s.now().Date()),
		RegisteredSections: p.sections,
	}
	if err := create(ctx, s.Store, ResourceIERegistrations, rec.Id, rec); err != nil {
		return err
	}

	for _, reg := range p.sections {
		sec := p.stored[strings.ToLower(reg.SectionId)]
		sec.Available--
		if err := replace(ctx, s.Store, ResourceIESections, sec.Id, sec); err != nil {
			return err
		}
	}
	s.Log.Info("instant enrollment registration stored",
		slog.String("registration_id", rec.Id),
		slog.String("person_id", personID),
		slog.Int("sections", len(p.sections)),
	)
	return nil
}

// ZeroCostRegistration registers for the proposed sections when they cost
// nothing.
func (s *InstantEnrollment) ZeroCostRegistration(ctx context.Context, r types.InstantEnrollmentZeroCostRegistration) (types.InstantEnrollmentZeroCostRegistrationResult, error) {
	result := types.InstantEnrollmentZeroCostRegistrationResult{
		RegisteredSections:   []types.InstantEnrollmentRegistrationBaseSectionRegistration{},
		RegistrationMessages: []types.InstantEnrollmentRegistrationMessage{},
	}
	if err := requireProposedSections(r.ProposedSections); err != nil {
		return result, err
	}

	p, err := s.price(ctx, r.ProposedSections)
	if err != nil {
		return result, err
	}
	if !p.total.IsZero() {
		p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
			Message: "The proposed sections cost " + p.total.StringFixed(2) + "; only zero cost registrations can be completed here.",
		})
	}
	if p.failed() {
		result.ErrorOccurred = true
		result.RegistrationMessages = p.messages
		return result, nil
	}

	person, err := s.resolvePerson(ctx, r.PersonId, r.PersonDemographic)
	if err != nil {
		return result, err
	}
	if err := s.register(ctx, person.Id, "", p); err != nil {
		return result, err
	}

	result.PersonId = person.Id
	result.UserName = person.UserName
	result.RegisteredSections = p.sections
	return result, nil
}

// EcheckRegistration registers for the proposed sections and records the
// electronic check payment as a cash receipt.
func (s *InstantEnrollment) EcheckRegistration(ctx context.Context, r types.InstantEnrollmentEcheckRegistration) (types.InstantEnrollmentEcheckRegistrationResult, error) {
	result := types.InstantEnrollmentEcheckRegistrationResult{
		RegisteredSections:   []types.InstantEnrollmentRegistrationBaseSectionRegistration{},
		RegistrationMessages: []types.InstantEnrollmentRegistrationMessage{},
	}
	if err := requireProposedSections(r.ProposedSections); err != nil {
		return result, err
	}
	switch {
	case r.BankAccountOwner == "":
		return result, apperr.Argument("The bank account owner is required.")
	case r.RoutingNumber == "":
		return result, apperr.Argument("The routing number is required.")
	case r.BankAccountNumber == "":
		return result, apperr.Argument("The bank account number is required.")
	}

	p, err := s.price(ctx, r.ProposedSections)
	if err != nil {
		return result, err
	}
	if !r.PaymentAmount.Equal(p.total) {
		p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
			Message: "The payment amount " + r.PaymentAmount.StringFixed(2) + " does not match the total cost " + p.total.StringFixed(2) + ".",
		})
	}
	if p.failed() {
		result.ErrorOccurred = true
		result.RegistrationMessages = p.messages
		return result, nil
	}

	person, err := s.resolvePerson(ctx, r.PersonId, r.PersonDemographic)
	if err != nil {
		return result, err
	}

	today := types.NewDate(s.now().Date())
	receipt := types.InstantEnrollmentCashReceiptAcknowledgement{
		CashReceiptId:      newGUID(),
		ReceiptDate:        &today,
		ReceiptPayerId:     person.Id,
		ReceiptPayerName:   strings.TrimSpace(person.FirstName + " " + person.LastName),
		Status:             ReceiptPaid,
		PaymentAmount:      r.PaymentAmount,
		PaymentMethod:      r.PaymentMethod,
		RegisteredSections: p.sections,
	}
	receipt.ReceiptAcknowledgeText, err = s.paragraph(ctx, receipt)
	if err != nil {
		return result, err
	}
	if err := create(ctx, s.Store, ResourceIECashReceipts, receipt.CashReceiptId, receipt); err != nil {
		return result, err
	}
	if err := s.register(ctx, person.Id, receipt.CashReceiptId, p); err != nil {
		return result, err
	}

	result.PersonId = person.Id
	result.UserName = person.UserName
	result.CashReceipt = receipt.CashReceiptId
	result.RegisteredSections = p.sections
	return result, nil
}

// StartPaymentGateway records a pending receipt and returns the provider
// URL the browser is sent to. The registration completes when the provider
// reports the transaction.
func (s *InstantEnrollment) StartPaymentGateway(ctx context.Context, r types.InstantEnrollmentPaymentGatewayRegistration) (types.InstantEnrollmentStartPaymentGatewayRegistrationResult, error) {
	result := types.InstantEnrollmentStartPaymentGatewayRegistrationResult{ErrorMessages: []string{}}
	if err := requireProposedSections(r.ProposedSections); err != nil {
		return result, err
	}
	if r.ReturnUrl == "" {
		return result, apperr.Argument("A return URL is required.")
	}
	if s.gateway.URL == "" {
		return result, apperr.Configuration("No payment gateway is configured for instant enrollment.")
	}
	gateway, err := url.Parse(s.gateway.URL)
	if err != nil {
		return result, apperr.Configuration("The payment gateway URL '%s' is not valid.", s.gateway.URL)
	}

	p, err := s.price(ctx, r.ProposedSections)
	if err != nil {
		return result, err
	}
	if !r.PaymentAmount.Equal(p.total) {
		p.messages = append(p.messages, types.InstantEnrollmentRegistrationMessage{
			Message: "The payment amount " + r.PaymentAmount.StringFixed(2) + " does not match the total cost " + p.total.StringFixed(2) + ".",
		})
	}
	if p.failed() {
		for _, m := range p.messages {
			result.ErrorMessages = append(result.ErrorMessages, m.Message)
		}
		return result, nil
	}

	person, err := s.resolvePerson(ctx, r.PersonId, r.PersonDemographic)
	if err != nil {
		return result, err
	}

	receipt := types.InstantEnrollmentCashReceiptAcknowledgement{
		CashReceiptId:          newGUID(),
		TransactionId:          newGUID(),
		ReceiptPayerId:         person.Id,
		ReceiptPayerName:       strings.TrimSpace(person.FirstName + " " + person.LastName),
		ReceiptAcknowledgeText: []string{},
		Status:                 ReceiptPending,
		PaymentAmount:          r.PaymentAmount,
		PaymentMethod:          r.PaymentMethod,
		RegisteredSections:     p.sections,
	}
	if err := create(ctx, s.Store, ResourceIECashReceipts, receipt.CashReceiptId, receipt); err != nil {
		return result, err
	}

	distribution := r.GlDistribution
	if distribution == "" {
		distribution = s.gateway.DistributionCode
	}
	q := gateway.Query()
	q.Set("transactionId", receipt.TransactionId)
	q.Set("amount", r.PaymentAmount.StringFixed(2))
	q.Set("method", r.PaymentMethod)
	q.Set("distribution", distribution)
	q.Set("returnUrl", r.ReturnUrl)
	gateway.RawQuery = q.Encode()

	result.PaymentProviderRedirectUrl = gateway.String()
	return result, nil
}

// paragraph renders the acknowledgement lines for receipt.
func (s *InstantEnrollment) paragraph(ctx context.Context, receipt types.InstantEnrollmentCashReceiptAcknowledgement) ([]string, error) {
	para, err := get[types.InstantEnrollmentPaymentParagraph](ctx, s.Store, ResourceIEPaymentParagraphs, defaultParagraph, "")
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	r := strings.NewReplacer(
		"{CashReceiptId}", receipt.CashReceiptId,
		"{PaymentAmount}", receipt.PaymentAmount.StringFixed(2),
		"{PersonId}", receipt.ReceiptPayerId,
	)
	lines := make([]string, 0, len(para.Lines))
	for _, l := range para.Lines {
		lines = append(lines, r.Replace(l))
	}
	return lines, nil
}

// PaymentAcknowledgementParagraph returns the acknowledgement text for a
// person and, when given, one of their cash receipts.
func (s *InstantEnrollment) PaymentAcknowledgementParagraph(ctx context.Context, r types.InstantEnrollmentPaymentAcknowledgementParagraphRequest) ([]string, error) {
	if r.PersonId == "" {
		return nil, apperr.Argument("A person id is required.")
	}
	if err := s.canSeePerson(ctx, r.PersonId, "instant enrollment payment acknowledgement paragraph text"); err != nil {
		return nil, err
	}

	receipt := types.InstantEnrollmentCashReceiptAcknowledgement{ReceiptPayerId: r.PersonId}
	if r.CashReceiptId != "" {
		var err error
		receipt, err = get[types.InstantEnrollmentCashReceiptAcknowledgement](ctx, s.Store, ResourceIECashReceipts, r.CashReceiptId,
			"Cash receipt "+r.CashReceiptId+" was not found.")
		if err != nil {
			return nil, err
		}
		if !sameGUID(receipt.ReceiptPayerId, r.PersonId) {
			return nil, apperr.Argument("Cash receipt %s was not paid by person %s.", r.CashReceiptId, r.PersonId)
		}
	}
	return s.paragraph(ctx, receipt)
}

// PersonMatch looks for an existing person matching c. A single person
// matching every supplied field is returned as the match. People sharing
// only the name are reported as potential matches.
func (s *InstantEnrollment) PersonMatch(ctx context.Context, c types.PersonMatchCriteriaInstantEnrollment) (types.InstantEnrollmentPersonMatchResult, error) {
	if err := s.requirePermission(ctx, "query person matches for instant enrollment", PermQueryPersonMatches); err != nil {
		return types.InstantEnrollmentPersonMatchResult{}, err
	}
	if c.FirstName == "" || c.LastName == "" {
		return types.InstantEnrollmentPersonMatchResult{}, apperr.Argument("A first name and last name are required to match a person.")
	}

	people, _, err := list[types.InstantEnrollmentPerson](ctx, s.Store, ResourcePersons, storage.Query{})
	if err != nil {
		return types.InstantEnrollmentPersonMatchResult{}, err
	}

	var exact []string
	potential := false
	for _, p := range people {
		if !strings.EqualFold(p.FirstName, c.FirstName) || !strings.EqualFold(p.LastName, c.LastName) {
			continue
		}
		potential = true
		switch {
		case c.MiddleName != "" && !strings.EqualFold(p.MiddleName, c.MiddleName):
		case c.BirthDate != nil && (p.BirthDate == nil || !p.BirthDate.Equal(c.BirthDate.Time)):
		case c.EmailAddress != "" && !strings.EqualFold(p.EmailAddress, c.EmailAddress):
		case c.GovernmentId != "" && p.GovernmentId != c.GovernmentId:
		default:
			exact = append(exact, p.Id)
		}
	}

	if len(exact) == 1 {
		return types.InstantEnrollmentPersonMatchResult{PersonId: exact[0]}, nil
	}
	return types.InstantEnrollmentPersonMatchResult{HasPotentialMatches: potential}, nil
}

// CashReceiptAcknowledgement returns a cash receipt selected by e-commerce
// transaction id or by receipt id.
func (s *InstantEnrollment) CashReceiptAcknowledgement(ctx context.Context, r types.InstantEnrollmentCashReceiptAcknowledgementRequest) (types.InstantEnrollmentCashReceiptAcknowledgement, error) {
	var (
		receipt types.InstantEnrollmentCashReceiptAcknowledgement
		err     error
	)
	switch {
	case r.CashReceiptId != "":
		receipt, err = get[types.InstantEnrollmentCashReceiptAcknowledgement](ctx, s.Store, ResourceIECashReceipts, r.CashReceiptId,
			"Cash receipt "+r.CashReceiptId+" was not found.")
	case r.TransactionId != "":
		var found []types.InstantEnrollmentCashReceiptAcknowledgement
		found, _, err = list[types.InstantEnrollmentCashReceiptAcknowledgement](ctx, s.Store, ResourceIECashReceipts, storage.Query{
			Filters: []storage.Filter{storage.Eq("$.TransactionId", r.TransactionId)},
			Limit:   1,
		})
		if err == nil && len(found) == 0 {
			err = apperr.NotFound("No cash receipt was found for e-commerce transaction %s.", r.TransactionId)
		}
		if err == nil {
			receipt = found[0]
		}
	default:
		return receipt, apperr.Argument("Either a transaction id or a cash receipt id is required.")
	}
	if err != nil {
		return receipt, err
	}

	if err := s.canSeePerson(ctx, receipt.ReceiptPayerId, "instant enrollment cash receipt acknowledgement"); err != nil {
		return types.InstantEnrollmentCashReceiptAcknowledgement{}, err
	}
	return receipt, nil
}

// StudentPrograms returns the programs of a student. currentOnly drops
// ended and graduated programs.
func (s *InstantEnrollment) StudentPrograms(ctx context.Context, studentID string, currentOnly bool) ([]types.StudentProgram2, error) {
	if studentID == "" {
		return nil, apperr.Argument("A student id is required.")
	}
	if err := s.canSeePerson(ctx, studentID, "student programs"); err != nil {
		return nil, err
	}

	programs, _, err := list[types.StudentProgram2](ctx, s.Store, ResourceStudentPrograms, storage.Query{
		Filters: []storage.Filter{storage.Eq("$.StudentId", studentID)},
	})
	if err != nil {
		return nil, err
	}
	if !currentOnly {
		return programs, nil
	}

	today := types.NewDate(s.now().Date())
	out := make([]types.StudentProgram2, 0, len(programs))
	for _, p := range programs {
		if p.HasGraduated || types.DateBefore(p.EndDate, &today) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
