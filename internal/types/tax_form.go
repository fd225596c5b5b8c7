package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax form identifiers.
const (
	TaxForm1098   = "1098"
	TaxFormT2202A = "T2202A"
)

// TaxFormConsent is one consent decision a person made for a tax form.
type TaxFormConsent struct {
	PersonId     string    `json:"personId"`
	TaxForm      string    `json:"taxForm"`
	HasConsented bool      `json:"hasConsented"`
	TimeStamp    time.Time `json:"timeStamp"`
}

// Form1098PdfData is the data printed on a 1098-T.
type Form1098PdfData struct {
	RecordId                  string          `json:"recordId"`
	PersonId                  string          `json:"personId"`
	TaxYear                   string          `json:"taxYear"`
	TaxFormName               string          `json:"taxFormName"`
	InstitutionName           string          `json:"institutionName"`
	InstitutionAddressLines   []string        `json:"institutionAddressLines"`
	InstitutionEin            string          `json:"institutionEin"`
	InstitutionPhoneNumber    string          `json:"institutionPhoneNumber,omitempty"`
	StudentName               string          `json:"studentName"`
	StudentName2              string          `json:"studentName2,omitempty"`
	StudentAddressLines       []string        `json:"studentAddressLines"`
	SSN                       string          `json:"ssn"`
	StudentId                 string          `json:"studentId"`
	AmountsBilledForTuition   decimal.Decimal `json:"amountsBilledForTuition"`
	AdjustmentsForPriorYear   decimal.Decimal `json:"adjustmentsForPriorYear"`
	ScholarshipsOrGrants      decimal.Decimal `json:"scholarshipsOrGrants"`
	AdjustmentsToScholarships decimal.Decimal `json:"adjustmentsToScholarships"`
	AmountsForNextPeriod      bool            `json:"amountsForNextPeriod"`
	AtLeastHalfTime           bool            `json:"atLeastHalfTime"`
	IsGradStudent             bool            `json:"isGradStudent"`
	ReimbursementsOrRefunds   decimal.Decimal `json:"reimbursementsOrRefunds"`
	Correction                bool            `json:"correction"`
}

// FormT2202aPdfData is the data printed on a T2202A.
type FormT2202aPdfData struct {
	RecordId                string          `json:"recordId"`
	PersonId                string          `json:"personId"`
	TaxYear                 string          `json:"taxYear"`
	StudentName             string          `json:"studentName"`
	StudentAddressLines     []string        `json:"studentAddressLines"`
	SocialInsuranceNumber   string          `json:"socialInsuranceNumber"`
	StudentNumber           string          `json:"studentNumber"`
	ProgramName             string          `json:"programName"`
	InstitutionName         string          `json:"institutionName"`
	InstitutionAddressLines []string        `json:"institutionAddressLines"`
	FlyingSchoolClubNumber  string          `json:"flyingSchoolClubNumber,omitempty"`
	SessionPeriods          []T2202aSession `json:"sessionPeriods"`
	TotalEligibleTuition    decimal.Decimal `json:"totalEligibleTuition"`
	TotalPartTimeMonths     int             `json:"totalPartTimeMonths"`
	TotalFullTimeMonths     int             `json:"totalFullTimeMonths"`
}

// T2202aSession is one study session on a T2202A.
type T2202aSession struct {
	StudentYearMonthFrom   string          `json:"studentYearMonthFrom"`
	StudentYearMonthTo     string          `json:"studentYearMonthTo"`
	EligibleTuitionFees    decimal.Decimal `json:"eligibleTuitionFees"`
	NumberOfMonthsPartTime int             `json:"numberOfMonthsPartTime"`
	NumberOfMonthsFullTime int             `json:"numberOfMonthsFullTime"`
}
