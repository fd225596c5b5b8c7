package types

import "github.com/shopspring/decimal"

// InstantEnrollmentCourseSearchCriteria narrows the section search.
type InstantEnrollmentCourseSearchCriteria struct {
	Keyword      string   `json:"Keyword"`
	Subjects     []string `json:"Subjects"`
	Locations    []string `json:"Locations"`
	SectionIds   []string `json:"SectionIds"`
	StartDate    *Date    `json:"SectionStartDate"`
	EndDate      *Date    `json:"SectionEndDate"`
	OpenSections bool     `json:"OpenSections"`
}

// InstantEnrollmentSection is a section offered through instant enrollment.
type InstantEnrollmentSection struct {
	Id        string          `json:"Id"`
	CourseId  string          `json:"CourseId"`
	Subject   string          `json:"Subject"`
	Number    string          `json:"Number"`
	Title     string          `json:"Title"`
	Location  string          `json:"Location"`
	StartDate Date            `json:"StartDate"`
	EndDate   *Date           `json:"EndDate,omitempty"`
	Credits   decimal.Decimal `json:"Credits"`
	Cost      decimal.Decimal `json:"Cost"`
	Available int             `json:"Available"`
}

// SectionPage2 is one page of search results.
type SectionPage2 struct {
	CurrentPageItems []InstantEnrollmentSection `json:"CurrentPageItems"`
	CurrentPageIndex int                        `json:"CurrentPageIndex"`
	TotalPages       int                        `json:"TotalPages"`
	TotalItems       int                        `json:"TotalItems"`
	PageSize         int                        `json:"PageSize"`
}

// ProposedSection is a section the applicant wants to take.
type ProposedSection struct {
	SectionId          string           `json:"SectionId" validate:"required"`
	AcademicCredits    *decimal.Decimal `json:"AcademicCredits,omitempty"`
	MarketingSource    string           `json:"MarketingSource,omitempty"`
	RegistrationReason string           `json:"RegistrationReason,omitempty"`
}

// InstantEnrollmentPersonDemographic identifies a new or returning
// applicant.
type InstantEnrollmentPersonDemographic struct {
	FirstName    string   `json:"FirstName"`
	LastName     string   `json:"LastName"`
	MiddleName   string   `json:"MiddleName,omitempty"`
	BirthDate    *Date    `json:"BirthDate,omitempty"`
	EmailAddress string   `json:"EmailAddress"`
	AddressLines []string `json:"AddressLines,omitempty"`
	City         string   `json:"City,omitempty"`
	State        string   `json:"State,omitempty"`
	ZipCode      string   `json:"ZipCode,omitempty"`
}

// InstantEnrollmentProposedRegistration asks for a mock registration.
type InstantEnrollmentProposedRegistration struct {
	PersonId          string                              `json:"PersonId"`
	PersonDemographic *InstantEnrollmentPersonDemographic `json:"PersonDemographic,omitempty"`
	AcademicProgram   string                              `json:"AcademicProgram,omitempty"`
	Catalog           string                              `json:"Catalog,omitempty"`
	ProposedSections  []ProposedSection                   `json:"ProposedSections" validate:"required,min=1,dive"`
	EducationalGoal   string                              `json:"EducationalGoal,omitempty"`
}

// InstantEnrollmentRegistrationMessage is a per-section outcome message.
type InstantEnrollmentRegistrationMessage struct {
	MessageSection string `json:"MessageSection"`
	Message        string `json:"Message"`
}

// InstantEnrollmentRegistrationBaseSectionRegistration is the per-section
// result.
type InstantEnrollmentRegistrationBaseSectionRegistration struct {
	SectionId string          `json:"SectionId"`
	Credits   decimal.Decimal `json:"Credits"`
	Cost      decimal.Decimal `json:"Cost"`
}

// InstantEnrollmentProposedRegistrationResult is the outcome of a mock
// registration.
type InstantEnrollmentProposedRegistrationResult struct {
	ErrorOccurred        bool                                                   `json:"ErrorOccurred"`
	RegisteredSections   []InstantEnrollmentRegistrationBaseSectionRegistration `json:"RegisteredSections"`
	RegistrationMessages []InstantEnrollmentRegistrationMessage                 `json:"RegistrationMessages"`
	TotalCost            decimal.Decimal                                        `json:"TotalCost"`
}

// InstantEnrollmentZeroCostRegistration registers for free sections.
type InstantEnrollmentZeroCostRegistration struct {
	PersonId          string                              `json:"PersonId"`
	PersonDemographic *InstantEnrollmentPersonDemographic `json:"PersonDemographic,omitempty"`
	AcademicProgram   string                              `json:"AcademicProgram,omitempty"`
	Catalog           string                              `json:"Catalog,omitempty"`
	ProposedSections  []ProposedSection                   `json:"ProposedSections" validate:"required,min=1,dive"`
}

// InstantEnrollmentZeroCostRegistrationResult reports the registration.
type InstantEnrollmentZeroCostRegistrationResult struct {
	ErrorOccurred        bool                                                   `json:"ErrorOccurred"`
	PersonId             string                                                 `json:"PersonId"`
	UserName             string                                                 `json:"UserName,omitempty"`
	RegisteredSections   []InstantEnrollmentRegistrationBaseSectionRegistration `json:"RegisteredSections"`
	RegistrationMessages []InstantEnrollmentRegistrationMessage                 `json:"RegistrationMessages"`
}

// InstantEnrollmentEcheckRegistration registers and pays by electronic check.
type InstantEnrollmentEcheckRegistration struct {
	PersonId          string                              `json:"PersonId"`
	PersonDemographic *InstantEnrollmentPersonDemographic `json:"PersonDemographic,omitempty"`
	AcademicProgram   string                              `json:"AcademicProgram,omitempty"`
	Catalog           string                              `json:"Catalog,omitempty"`
	ProposedSections  []ProposedSection                   `json:"ProposedSections" validate:"required,min=1,dive"`
	PaymentAmount     decimal.Decimal                     `json:"PaymentAmount"`
	PaymentMethod     string                              `json:"PaymentMethod"`
	BankAccountOwner  string                              `json:"BankAccountOwner"`
	RoutingNumber     string                              `json:"RoutingNumber"`
	BankAccountNumber string                              `json:"BankAccountNumber"`
	BankAccountType   string                              `json:"BankAccountType"`
}

// InstantEnrollmentEcheckRegistrationResult carries the cash receipt.
type InstantEnrollmentEcheckRegistrationResult struct {
	ErrorOccurred        bool                                                   `json:"ErrorOccurred"`
	PersonId             string                                                 `json:"PersonId"`
	UserName             string                                                 `json:"UserName,omitempty"`
	CashReceipt          string                                                 `json:"CashReceipt"`
	RegisteredSections   []InstantEnrollmentRegistrationBaseSectionRegistration `json:"RegisteredSections"`
	RegistrationMessages []InstantEnrollmentRegistrationMessage                 `json:"RegistrationMessages"`
}

// InstantEnrollmentPaymentGatewayRegistration starts an external payment.
type InstantEnrollmentPaymentGatewayRegistration struct {
	PersonId          string                              `json:"PersonId"`
	PersonDemographic *InstantEnrollmentPersonDemographic `json:"PersonDemographic,omitempty"`
	ProposedSections  []ProposedSection                   `json:"ProposedSections" validate:"required,min=1,dive"`
	PaymentAmount     decimal.Decimal                     `json:"PaymentAmount"`
	PaymentMethod     string                              `json:"PaymentMethod"`
	ReturnUrl         string                              `json:"ReturnUrl"`
	GlDistribution    string                              `json:"GlDistribution,omitempty"`
}

// InstantEnrollmentStartPaymentGatewayRegistrationResult redirects the
// browser to the payment provider.
type InstantEnrollmentStartPaymentGatewayRegistrationResult struct {
	PaymentProviderRedirectUrl string   `json:"PaymentProviderRedirectUrl"`
	ErrorMessages              []string `json:"ErrorMessages"`
}

// InstantEnrollmentPaymentAcknowledgementParagraphRequest selects the
// acknowledgement text.
type InstantEnrollmentPaymentAcknowledgementParagraphRequest struct {
	PersonId      string `json:"PersonId"`
	CashReceiptId string `json:"CashReceiptId"`
}

// PersonMatchCriteriaInstantEnrollment is the person matching query.
type PersonMatchCriteriaInstantEnrollment struct {
	FirstName    string `json:"FirstName" validate:"required"`
	LastName     string `json:"LastName" validate:"required"`
	MiddleName   string `json:"MiddleName,omitempty"`
	BirthDate    *Date  `json:"BirthDate,omitempty"`
	EmailAddress string `json:"EmailAddress,omitempty"`
	GovernmentId string `json:"GovernmentId,omitempty"`
}

// InstantEnrollmentPersonMatchResult reports the match.
type InstantEnrollmentPersonMatchResult struct {
	PersonId            string `json:"PersonId,omitempty"`
	HasPotentialMatches bool   `json:"HasPotentialMatches"`
}

// InstantEnrollmentCashReceiptAcknowledgementRequest selects a receipt by
// e-commerce transaction or by cash receipt id.
type InstantEnrollmentCashReceiptAcknowledgementRequest struct {
	TransactionId string `json:"TransactionId"`
	CashReceiptId string `json:"CashReceiptId"`
}

// InstantEnrollmentCashReceiptAcknowledgement is a stored cash receipt.
type InstantEnrollmentCashReceiptAcknowledgement struct {
	CashReceiptId          string                                                 `json:"CashReceiptId"`
	TransactionId          string                                                 `json:"TransactionId,omitempty"`
	ReceiptDate            *Date                                                  `json:"ReceiptDate,omitempty"`
	ReceiptPayerId         string                                                 `json:"ReceiptPayerId"`
	ReceiptPayerName       string                                                 `json:"ReceiptPayerName,omitempty"`
	ReceiptAcknowledgeText []string                                               `json:"ReceiptAcknowledgeText"`
	Status                 string                                                 `json:"Status"`
	PaymentAmount          decimal.Decimal                                        `json:"PaymentAmount"`
	PaymentMethod          string                                                 `json:"PaymentMethod,omitempty"`
	RegisteredSections     []InstantEnrollmentRegistrationBaseSectionRegistration `json:"RegisteredSections"`
}

// StudentProgram2 is a student's academic program enrollment.
type StudentProgram2 struct {
	StudentId    string `json:"StudentId"`
	ProgramCode  string `json:"ProgramCode"`
	CatalogCode  string `json:"CatalogCode"`
	StartDate    *Date  `json:"StartDate,omitempty"`
	EndDate      *Date  `json:"EndDate,omitempty"`
	HasGraduated bool   `json:"HasGraduated"`
}

// InstantEnrollmentPerson is the stored person record used for matching and
// created by registrations of new applicants.
type InstantEnrollmentPerson struct {
	Id           string `json:"Id"`
	FirstName    string `json:"FirstName"`
	LastName     string `json:"LastName"`
	MiddleName   string `json:"MiddleName,omitempty"`
	BirthDate    *Date  `json:"BirthDate,omitempty"`
	EmailAddress string `json:"EmailAddress,omitempty"`
	GovernmentId string `json:"GovernmentId,omitempty"`
	UserName     string `json:"UserName,omitempty"`
}

// InstantEnrollmentRegistrationRecord is a stored completed registration.
type InstantEnrollmentRegistrationRecord struct {
	Id                 string                                                 `json:"Id"`
	PersonId           string                                                 `json:"PersonId"`
	CashReceiptId      string                                                 `json:"CashReceiptId,omitempty"`
	RegisteredOn       Date                                                   `json:"RegisteredOn"`
	RegisteredSections []InstantEnrollmentRegistrationBaseSectionRegistration `json:"RegisteredSections"`
}

// InstantEnrollmentPaymentParagraph holds acknowledgement lines. Lines may
// use the {CashReceiptId}, {PaymentAmount} and {PersonId} placeholders.
type InstantEnrollmentPaymentParagraph struct {
	Id    string   `json:"Id"`
	Lines []string `json:"Lines"`
}
