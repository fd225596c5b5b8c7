package types

// Housing assignment statuses.
const (
	HousingAssignmentStatusPending  = "pending"
	HousingAssignmentStatusAssigned = "assigned"
	HousingAssignmentStatusCanceled = "canceled"
	HousingAssignmentStatusOther    = "other"
)

// HousingAssignment is the v16.0.0 housing-assignments representation.
type HousingAssignment struct {
	ID                    string             `json:"id"`
	Person                *GUIDObject        `json:"person,omitempty" validate:"required,ref"`
	Room                  *GUIDObject        `json:"room,omitempty" validate:"required,ref"`
	StartOn               *Date              `json:"startOn,omitempty" validate:"required"`
	EndOn                 *Date              `json:"endOn,omitempty" validate:"required,gtefield=StartOn"`
	AcademicPeriod        *GUIDObject        `json:"academicPeriod,omitempty"`
	HousingRequest        *GUIDObject        `json:"housingRequest,omitempty"`
	RatePeriod            string             `json:"ratePeriod,omitempty"`
	Status                string             `json:"status,omitempty" validate:"required"`
	StatusDate            *Date              `json:"statusDate,omitempty" validate:"required"`
	Comment               string             `json:"comment,omitempty"`
	ResidentType          *GUIDObject        `json:"residentType,omitempty"`
	ContractNumber        string             `json:"contractNumber,omitempty"`
	AdditionalCharges     []AdditionalCharge `json:"additionalCharges,omitempty"`
	Rate                  *HousingRate       `json:"rate,omitempty"`
	BillingOverrideRate   *Amount            `json:"billingOverrideRate,omitempty"`
	BillingOverrideReason *GUIDObject        `json:"billingOverrideReason,omitempty"`
}

// HousingRate references the rate plan and the amount billed per period.
type HousingRate struct {
	Detail *GUIDObject `json:"detail,omitempty"`
	Amount *Amount     `json:"amount,omitempty"`
}

// AdditionalCharge is an extra charge billed with the assignment.
type AdditionalCharge struct {
	AccountingCode *GUIDObject `json:"accountingCode,omitempty"`
	Amount         *Amount     `json:"amount,omitempty"`
}

// HousingAssignmentV10 is the v10.1.0 representation. It exposes the rate
// amount as overrideRate and has no resident type or contract number.
type HousingAssignmentV10 struct {
	ID                 string             `json:"id"`
	Person             *GUIDObject        `json:"person,omitempty"`
	Room               *GUIDObject        `json:"room,omitempty"`
	StartOn            *Date              `json:"startOn,omitempty"`
	EndOn              *Date              `json:"endOn,omitempty"`
	AcademicPeriod     *GUIDObject        `json:"academicPeriod,omitempty"`
	HousingRequest     *GUIDObject        `json:"housingRequest,omitempty"`
	RatePeriod         string             `json:"ratePeriod,omitempty"`
	Status             string             `json:"status,omitempty"`
	StatusDate         *Date              `json:"statusDate,omitempty"`
	Comment            string             `json:"comment,omitempty"`
	AdditionalCharges  []AdditionalCharge `json:"additionalCharges,omitempty"`
	OverrideRate       *Amount            `json:"overrideRate,omitempty"`
	RateOverrideReason *GUIDObject        `json:"rateOverrideReason,omitempty"`
}

// V10 projects a onto the v10.1.0 shape.
func (a HousingAssignment) V10() HousingAssignmentV10 {
	return HousingAssignmentV10{
		ID:                 a.ID,
		Person:             a.Person,
		Room:               a.Room,
		StartOn:            a.StartOn,
		EndOn:              a.EndOn,
		AcademicPeriod:     a.AcademicPeriod,
		HousingRequest:     a.HousingRequest,
		RatePeriod:         a.RatePeriod,
		Status:             a.Status,
		StatusDate:         a.StatusDate,
		Comment:            a.Comment,
		AdditionalCharges:  a.AdditionalCharges,
		OverrideRate:       a.BillingOverrideRate,
		RateOverrideReason: a.BillingOverrideReason,
	}
}

// Current lifts a v10.1.0 payload into the current shape.
func (v HousingAssignmentV10) Current() HousingAssignment {
	return HousingAssignment{
		ID:                    v.ID,
		Person:                v.Person,
		Room:                  v.Room,
		StartOn:               v.StartOn,
		EndOn:                 v.EndOn,
		AcademicPeriod:        v.AcademicPeriod,
		HousingRequest:        v.HousingRequest,
		RatePeriod:            v.RatePeriod,
		Status:                v.Status,
		StatusDate:            v.StatusDate,
		Comment:               v.Comment,
		AdditionalCharges:     v.AdditionalCharges,
		BillingOverrideRate:   v.OverrideRate,
		BillingOverrideReason: v.RateOverrideReason,
	}
}

// HousingAssignmentCriteria is the criteria filter.
type HousingAssignmentCriteria struct {
	Person         *GUIDObject `json:"person,omitempty"`
	Room           *GUIDObject `json:"room,omitempty"`
	AcademicPeriod *GUIDObject `json:"academicPeriod,omitempty"`
	Status         string      `json:"status,omitempty"`
}

// Housing request statuses.
const (
	HousingRequestStatusSubmitted = "submitted"
	HousingRequestStatusApproved  = "approved"
	HousingRequestStatusRejected  = "rejected"
	HousingRequestStatusCanceled  = "canceled"
)

// Required preference values. RequiredNotSet is what an empty string in a
// payload decodes to.
const (
	RequiredNotSet    = ""
	RequiredMandatory = "mandatory"
	RequiredOptional  = "optional"
)

// HousingRequest is the v10 housing-requests representation.
type HousingRequest struct {
	ID                   string                   `json:"id"`
	Person               *GUIDObject              `json:"person,omitempty" validate:"required,ref"`
	StartOn              *Date                    `json:"startOn,omitempty" validate:"required"`
	EndOn                *Date                    `json:"endOn,omitempty" validate:"omitempty,gtefield=StartOn"`
	AcademicPeriods      []GUIDObject             `json:"academicPeriods,omitempty"`
	Status               string                   `json:"status,omitempty" validate:"required"`
	Preferences          []HousingPreference      `json:"preferences,omitempty"`
	RoomCharacteristics  []RoomCharacteristicPref `json:"roomCharacteristics,omitempty"`
	FloorCharacteristics *FloorCharacteristicPref `json:"floorCharacteristics,omitempty"`
	RoommatePreferences  []RoommatePreference     `json:"roommatePreferences,omitempty"`
}

// HousingPreference is an ordered building or site preference.
type HousingPreference struct {
	PreferredOrder int         `json:"preferredOrder,omitempty"`
	Building       *GUIDObject `json:"building,omitempty"`
	Site           *GUIDObject `json:"site,omitempty"`
	Required       *string     `json:"required,omitempty"`
}

// RoomCharacteristicPref is a preferred room characteristic.
type RoomCharacteristicPref struct {
	Preferred *GUIDObject `json:"preferred,omitempty"`
	Required  *string     `json:"required,omitempty"`
}

// FloorCharacteristicPref is the preferred floor.
type FloorCharacteristicPref struct {
	Preferred *GUIDObject `json:"preferred,omitempty"`
	Required  *string     `json:"required,omitempty"`
}

// RoommatePreference names a roommate or roommate characteristic.
type RoommatePreference struct {
	Roommate               *RoommatePref `json:"roommate,omitempty"`
	RoommateCharacteristic *RoommatePref `json:"roommateCharacteristic,omitempty"`
}

// RoommatePref is a preferred person or characteristic.
type RoommatePref struct {
	Preferred *GUIDObject `json:"preferred,omitempty"`
	Required  *string     `json:"required,omitempty"`
}
