package types

// StudentCharge is the v16.0.0 student-charges representation.
type StudentCharge struct {
	ID                  string                 `json:"id"`
	Person              *GUIDObject            `json:"person,omitempty"`
	FundingSource       *GUIDObject            `json:"fundingSource,omitempty"`
	FundingDestination  *GUIDObject            `json:"fundingDestination,omitempty"`
	AcademicPeriod      *GUIDObject            `json:"academicPeriod,omitempty"`
	ChargeableOn        *Date                  `json:"chargeableOn,omitempty"`
	ChargedAmount       *ChargedAmount         `json:"chargedAmount,omitempty"`
	OverrideDescription string                 `json:"overrideDescription,omitempty"`
	Comments            []string               `json:"comments,omitempty"`
	ReportingDetail     *ChargeReportingDetail `json:"reportingDetail,omitempty"`
}

// ChargedAmount is either a flat amount or a per-unit cost.
type ChargedAmount struct {
	Amount   *Amount   `json:"amount,omitempty"`
	UnitCost *UnitCost `json:"unitCost,omitempty"`
}

// UnitCost prices a quantity of units.
type UnitCost struct {
	Quantity int     `json:"quantity"`
	Cost     *Amount `json:"cost"`
}

// ChargeReportingDetail tags a charge for tax reporting.
type ChargeReportingDetail struct {
	Usage        string `json:"usage,omitempty"`
	OriginatedOn *Date  `json:"originatedOn,omitempty"`
}

// StudentChargeV6 is the v6 representation.
type StudentChargeV6 struct {
	ID             string         `json:"id"`
	Student        *GUIDObject    `json:"student,omitempty"`
	AccountingCode *GUIDObject    `json:"accountingCode,omitempty"`
	AcademicPeriod *GUIDObject    `json:"academicPeriod,omitempty"`
	ChargeType     string         `json:"chargeType,omitempty"`
	ChargeableOn   *Date          `json:"chargeableOn,omitempty"`
	ChargedAmount  *ChargedAmount `json:"chargedAmount,omitempty"`
	Comments       []string       `json:"comments,omitempty"`
}

// StudentChargeV11 is the v11 representation.
type StudentChargeV11 struct {
	ID                  string         `json:"id"`
	Person              *GUIDObject    `json:"person,omitempty"`
	FundingSource       *GUIDObject    `json:"fundingSource,omitempty"`
	FundingDestination  *GUIDObject    `json:"fundingDestination,omitempty"`
	AcademicPeriod      *GUIDObject    `json:"academicPeriod,omitempty"`
	ChargeableOn        *Date          `json:"chargeableOn,omitempty"`
	ChargedAmount       *ChargedAmount `json:"chargedAmount,omitempty"`
	OverrideDescription string         `json:"overrideDescription,omitempty"`
	Comments            []string       `json:"comments,omitempty"`
}

// StoredStudentCharge is how charges are persisted. ChargeType is only
// exposed by v6.
type StoredStudentCharge struct {
	StudentCharge
	ChargeType string `json:"chargeType,omitempty"`
}

// V6 projects c onto the v6 shape.
func (c StoredStudentCharge) V6() StudentChargeV6 {
	return StudentChargeV6{
		ID:             c.ID,
		Student:        c.Person,
		AccountingCode: c.FundingDestination,
		AcademicPeriod: c.AcademicPeriod,
		ChargeType:     c.ChargeType,
		ChargeableOn:   c.ChargeableOn,
		ChargedAmount:  c.ChargedAmount,
		Comments:       c.Comments,
	}
}

// V11 projects c onto the v11 shape.
func (c StudentCharge) V11() StudentChargeV11 {
	return StudentChargeV11{
		ID:                  c.ID,
		Person:              c.Person,
		FundingSource:       c.FundingSource,
		FundingDestination:  c.FundingDestination,
		AcademicPeriod:      c.AcademicPeriod,
		ChargeableOn:        c.ChargeableOn,
		ChargedAmount:       c.ChargedAmount,
		OverrideDescription: c.OverrideDescription,
		Comments:            c.Comments,
	}
}

// Stored lifts a v6 payload into the stored shape.
func (v StudentChargeV6) Stored() StoredStudentCharge {
	return StoredStudentCharge{
		StudentCharge: StudentCharge{
			ID:                 v.ID,
			Person:             v.Student,
			FundingDestination: v.AccountingCode,
			AcademicPeriod:     v.AcademicPeriod,
			ChargeableOn:       v.ChargeableOn,
			ChargedAmount:      v.ChargedAmount,
			Comments:           v.Comments,
		},
		ChargeType: v.ChargeType,
	}
}

// Current lifts a v11 payload into the current shape.
func (v StudentChargeV11) Current() StudentCharge {
	return StudentCharge{
		ID:                  v.ID,
		Person:              v.Person,
		FundingSource:       v.FundingSource,
		FundingDestination:  v.FundingDestination,
		AcademicPeriod:      v.AcademicPeriod,
		ChargeableOn:        v.ChargeableOn,
		ChargedAmount:       v.ChargedAmount,
		OverrideDescription: v.OverrideDescription,
		Comments:            v.Comments,
	}
}

// StudentChargeCriteria is the v16 criteria filter.
type StudentChargeCriteria struct {
	Person             *GUIDObject            `json:"person,omitempty"`
	AcademicPeriod     *GUIDObject            `json:"academicPeriod,omitempty"`
	FundingSource      *GUIDObject            `json:"fundingSource,omitempty"`
	FundingDestination *GUIDObject            `json:"fundingDestination,omitempty"`
	ReportingDetail    *ChargeReportingDetail `json:"reportingDetail,omitempty"`
}

// StudentChargeV11Criteria is the v11 criteria filter.
type StudentChargeV11Criteria struct {
	Person             *GUIDObject `json:"person,omitempty"`
	AcademicPeriod     *GUIDObject `json:"academicPeriod,omitempty"`
	FundingSource      *GUIDObject `json:"fundingSource,omitempty"`
	FundingDestination *GUIDObject `json:"fundingDestination,omitempty"`
	ChargeType         string      `json:"chargeType,omitempty"`
}

// Valid v6 chargeType values.
var StudentChargeTypes = []string{"tuition", "fee", "housing", "meal"}
