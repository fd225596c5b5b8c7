package types

// StudentFinancialAidAward is the v11.1.0 representation.
type StudentFinancialAidAward struct {
	ID           string           `json:"id"`
	Student      *GUIDObject      `json:"student,omitempty"`
	AwardFund    *GUIDObject      `json:"awardFund,omitempty"`
	AidYear      *GUIDObject      `json:"aidYear,omitempty"`
	AwardType    string           `json:"awardType,omitempty"`
	AwardedOn    *Date            `json:"awardedOn,omitempty"`
	AwardPeriods []AidAwardPeriod `json:"awardPeriods,omitempty"`
	Status       string           `json:"status,omitempty"`
}

// AidAwardPeriod is the award amount for one award period.
type AidAwardPeriod struct {
	AwardPeriod     *GUIDObject `json:"awardPeriod,omitempty"`
	AwardStatus     *GUIDObject `json:"awardStatus,omitempty"`
	AwardAmount     *Amount     `json:"awardAmount,omitempty"`
	AcceptedAmount  *Amount     `json:"acceptedAmount,omitempty"`
	DisbursedAmount *Amount     `json:"disbursedAmount,omitempty"`
}

// StudentFinancialAidAwardV7 is the v7 representation. v11 serves the
// current shape.
type StudentFinancialAidAwardV7 struct {
	ID           string           `json:"id"`
	Student      *GUIDObject      `json:"student,omitempty"`
	AwardFund    *GUIDObject      `json:"awardFund,omitempty"`
	AidYear      *GUIDObject      `json:"aidYear,omitempty"`
	AwardType    string           `json:"awardType,omitempty"`
	AwardPeriods []AidAwardPeriod `json:"awardPeriods,omitempty"`
}

// V7 projects a onto the v7 shape.
func (a StudentFinancialAidAward) V7() StudentFinancialAidAwardV7 {
	return StudentFinancialAidAwardV7{
		ID:           a.ID,
		Student:      a.Student,
		AwardFund:    a.AwardFund,
		AidYear:      a.AidYear,
		AwardType:    a.AwardType,
		AwardPeriods: a.AwardPeriods,
	}
}

// StoredFinancialAidAward is how awards are persisted. Restricted awards
// come from funds the institution flags as restricted.
type StoredFinancialAidAward struct {
	StudentFinancialAidAward
	Restricted bool `json:"restricted"`
}

// FinancialAidAwardCriteria is the criteria filter.
type FinancialAidAwardCriteria struct {
	Student   *GUIDObject `json:"student,omitempty"`
	AwardFund *GUIDObject `json:"awardFund,omitempty"`
	AidYear   *GUIDObject `json:"aidYear,omitempty"`
}

// PersonFilterFilter is the personFilter named query.
type PersonFilterFilter struct {
	PersonFilter *GUIDObject `json:"personFilter"`
}

// PersonFilter is a saved list of persons used by the personFilter query.
type PersonFilter struct {
	ID        string   `json:"id"`
	Code      string   `json:"code,omitempty"`
	PersonIds []string `json:"personIds"`
}
