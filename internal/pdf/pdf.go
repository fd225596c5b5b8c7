// Package pdf renders the 1098-T and T2202A tax forms.
//
// Box labels changed over the years (the 1098-T dropped the reporting
// method checkbox in 2018 and the T2202A became the T2202 in 2019), so each
// form picks a layout by tax year. Years outside the supported range are
// rejected with ErrUnsupportedYear.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FirstSupportedYear is the oldest tax year with a layout.
const FirstSupportedYear = 2016

// ErrUnsupportedYear is returned for tax years without a layout.
var ErrUnsupportedYear = errors.New("unsupported tax year")

// Renderer draws tax forms. Now bounds the newest supported year.
type Renderer struct {
	Now func() time.Time
}

// NewRenderer returns a Renderer that supports years up to the current one.
func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

func (r *Renderer) year(taxYear string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(taxYear))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedYear, taxYear)
	}
	if y < FirstSupportedYear || y > r.Now().Year() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedYear, y)
	}
	return y, nil
}

type form1098Layout struct {
	box1 string
	box2 string
	// box3 is empty once the reporting method checkbox was retired.
	box3 string
}

func layout1098(year int) form1098Layout {
	switch {
	case year < 2018:
		return form1098Layout{
			box1: "1 Payments received for qualified tuition and related expenses",
			box2: "2 Amounts billed for qualified tuition and related expenses",
			box3: "3 Check if you have changed your reporting method for the year",
		}
	case year == 2018:
		return form1098Layout{
			box1: "1 Payments received for qualified tuition and related expenses",
			box2: "2 Amounts billed for qualified tuition and related expenses",
		}
	default:
		return form1098Layout{
			box1: "1 Payments received for qualified tuition and related expenses",
			box2: "2 Reserved",
		}
	}
}

// Render1098 draws a 1098-T.
func (r *Renderer) Render1098(d types.Form1098PdfData) ([]byte, error) {
	year, err := r.year(d.TaxYear)
	if err != nil {
		return nil, err
	}
	l := layout1098(year)

	name := d.TaxFormName
	if name == "" {
		name = "Form 1098-T"
	}

	f := newDocument(fmt.Sprintf("%s Tuition Statement %d", name, year), r.Now())
	heading(f, fmt.Sprintf("%s  Tuition Statement  %d", name, year))
	if d.Correction {
		f.SetFont("Helvetica", "B", 9)
		f.CellFormat(0, 5, "CORRECTED", "", 1, "R", false, 0, "")
	}

	party(f, "FILER'S name, address and telephone number", append([]string{d.InstitutionName}, withPhone(d.InstitutionAddressLines, d.InstitutionPhoneNumber)...))
	field(f, "FILER'S employer identification no.", d.InstitutionEin)
	field(f, "STUDENT'S TIN", maskTIN(d.SSN))
	party(f, "STUDENT'S name, street address, city, state and ZIP code", append(nonEmpty(d.StudentName, d.StudentName2), d.StudentAddressLines...))
	field(f, "Service Provider/Acct. No.", d.StudentId)

	amount(f, l.box1, d.AmountsBilledForTuition)
	if l.box3 != "" {
		amount(f, l.box2, d.AmountsBilledForTuition)
		check(f, l.box3, false)
	} else {
		field(f, l.box2, "")
	}
	amount(f, "4 Adjustments made for a prior year", d.AdjustmentsForPriorYear)
	amount(f, "5 Scholarships or grants", d.ScholarshipsOrGrants)
	amount(f, "6 Adjustments to scholarships or grants for a prior year", d.AdjustmentsToScholarships)
	check(f, "7 Amount in box 1 includes amounts for an academic period beginning January-March next year", d.AmountsForNextPeriod)
	check(f, "8 Check if at least half-time student", d.AtLeastHalfTime)
	check(f, "9 Check if a graduate student", d.IsGradStudent)
	amount(f, "10 Insurance contract reimbursement/refund", d.ReimbursementsOrRefunds)

	return output(f)
}

type t2202Layout struct {
	title    string
	sessions string
}

func layoutT2202a(year int) t2202Layout {
	if year < 2019 {
		return t2202Layout{
			title:    "T2202A Tuition, Education, and Textbook Amounts Certificate",
			sessions: "Session periods (months part-time / full-time)",
		}
	}
	return t2202Layout{
		title:    "T2202 Tuition and Enrolment Certificate",
		sessions: "Eligible tuition fees and months of enrolment by session",
	}
}

// RenderT2202a draws a T2202A, or a T2202 for 2019 onwards.
func (r *Renderer) RenderT2202a(d types.FormT2202aPdfData) ([]byte, error) {
	year, err := r.year(d.TaxYear)
	if err != nil {
		return nil, err
	}
	l := layoutT2202a(year)

	f := newDocument(fmt.Sprintf("%s %d", l.title, year), r.Now())
	heading(f, fmt.Sprintf("%s  %d", l.title, year))

	party(f, "Name and address of designated educational institution", append([]string{d.InstitutionName}, d.InstitutionAddressLines...))
	if d.FlyingSchoolClubNumber != "" {
		field(f, "Flying school or club course type", d.FlyingSchoolClubNumber)
	}
	field(f, "Name of program or course", d.ProgramName)
	field(f, "Student number", d.StudentNumber)
	field(f, "Social insurance number", maskTIN(d.SocialInsuranceNumber))
	party(f, "Student name and address", append([]string{d.StudentName}, d.StudentAddressLines...))

	f.SetFont("Helvetica", "B", 9)
	f.CellFormat(0, 6, l.sessions, "", 1, "L", false, 0, "")
	f.SetFont("Helvetica", "", 9)
	for _, s := range d.SessionPeriods {
		f.CellFormat(40, 6, s.StudentYearMonthFrom+" - "+s.StudentYearMonthTo, "1", 0, "L", false, 0, "")
		f.CellFormat(50, 6, s.EligibleTuitionFees.StringFixed(2), "1", 0, "R", false, 0, "")
		f.CellFormat(30, 6, strconv.Itoa(s.NumberOfMonthsPartTime), "1", 0, "C", false, 0, "")
		f.CellFormat(30, 6, strconv.Itoa(s.NumberOfMonthsFullTime), "1", 1, "C", false, 0, "")
	}
	f.Ln(2)

	amount(f, "Total eligible tuition fees", d.TotalEligibleTuition)
	field(f, "Total number of months part-time", strconv.Itoa(d.TotalPartTimeMonths))
	field(f, "Total number of months full-time", strconv.Itoa(d.TotalFullTimeMonths))

	return output(f)
}

func newDocument(title string, created time.Time) *fpdf.Fpdf {
	f := fpdf.New("P", "mm", "Letter", "")
	f.SetTitle(title, true)
	f.SetCreationDate(created)
	f.SetMargins(15, 15, 15)
	f.AddPage()
	return f
}

func heading(f *fpdf.Fpdf, text string) {
	f.SetFont("Helvetica", "B", 13)
	f.CellFormat(0, 10, text, "B", 1, "L", false, 0, "")
	f.Ln(3)
}

func party(f *fpdf.Fpdf, label string, lines []string) {
	f.SetFont("Helvetica", "B", 8)
	f.CellFormat(0, 5, label, "", 1, "L", false, 0, "")
	f.SetFont("Helvetica", "", 10)
	f.MultiCell(0, 5, strings.Join(lines, "\n"), "1", "L", false)
	f.Ln(2)
}

func field(f *fpdf.Fpdf, label, value string) {
	f.SetFont("Helvetica", "B", 8)
	f.CellFormat(110, 7, label, "1", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "", 10)
	f.CellFormat(0, 7, value, "1", 1, "R", false, 0, "")
}

func amount(f *fpdf.Fpdf, label string, v decimal.Decimal) {
	field(f, label, "$ "+v.StringFixed(2))
}

func check(f *fpdf.Fpdf, label string, checked bool) {
	mark := ""
	if checked {
		mark = "X"
	}
	field(f, label, mark)
}

func output(f *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

// maskTIN keeps the last four digits of a taxpayer number.
func maskTIN(tin string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, tin)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

func withPhone(lines []string, phone string) []string {
	if phone == "" {
		return lines
	}
	return append(append([]string{}, lines...), phone)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
