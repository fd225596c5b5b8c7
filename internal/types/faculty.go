package types

// Faculty is a self-service faculty member.
type Faculty struct {
	Id                    string   `json:"Id"`
	LastName              string   `json:"LastName"`
	FirstName             string   `json:"FirstName"`
	MiddleName            string   `json:"MiddleName"`
	ProfessionalName      string   `json:"ProfessionalName"`
	Gender                string   `json:"Gender"`
	Phones                []Phone  `json:"Phones"`
	Addresses             []string `json:"Addresses"`
	FacultyEmailAddresses []string `json:"FacultyEmailAddresses"`
	IsFaculty             bool     `json:"IsFaculty"`
	IsAdvisor             bool     `json:"IsAdvisor"`
}

// FacultyRecord is the stored form of a faculty member. The public Faculty
// shape hides office hours and restrictions, which have their own endpoints.
type FacultyRecord struct {
	Faculty
	OfficeHours  []OfficeHour        `json:"OfficeHours,omitempty"`
	Restrictions []PersonRestriction `json:"Restrictions,omitempty"`
}

// Phone is a faculty phone number.
type Phone struct {
	Number    string `json:"Number"`
	Extension string `json:"Extension,omitempty"`
	TypeCode  string `json:"TypeCode"`
}

// OfficeHour is one weekly office hour block.
type OfficeHour struct {
	DaysOfWeek []string `json:"DaysOfWeek"`
	StartTime  string   `json:"StartTime"`
	EndTime    string   `json:"EndTime"`
	Location   string   `json:"Location,omitempty"`
	StartDate  *Date    `json:"StartDate,omitempty"`
	EndDate    *Date    `json:"EndDate,omitempty"`
}

// FacultyOfficeHours groups office hours by faculty id.
type FacultyOfficeHours struct {
	FacultyId   string       `json:"FacultyId"`
	OfficeHours []OfficeHour `json:"OfficeHours"`
}

// PersonRestriction is a hold or restriction placed on a person.
type PersonRestriction struct {
	Id            string `json:"Id"`
	StudentId     string `json:"StudentId"`
	RestrictionId string `json:"RestrictionId"`
	Title         string `json:"Title"`
	StartDate     *Date  `json:"StartDate,omitempty"`
	EndDate       *Date  `json:"EndDate,omitempty"`
	Severity      *int   `json:"Severity,omitempty"`
	OfficeUseOnly bool   `json:"OfficeUseOnly"`
}

// FacultyQueryCriteria is the qapi/faculty and query-faculty-ids body.
type FacultyQueryCriteria struct {
	FacultyIds         []string `json:"FacultyIds"`
	IncludeFacultyOnly bool     `json:"IncludeFacultyOnly"`
	IncludeAdvisorOnly bool     `json:"IncludeAdvisorOnly"`
}

// FacultySection is the stored section assignment of a faculty member. All
// section versions are projected from it.
type FacultySection struct {
	Id              string   `json:"Id"`
	CourseId        string   `json:"CourseId"`
	Number          string   `json:"Number"`
	Title           string   `json:"Title"`
	TermId          string   `json:"TermId"`
	StartDate       Date     `json:"StartDate"`
	EndDate         *Date    `json:"EndDate,omitempty"`
	FacultyIds      []string `json:"FacultyIds"`
	Location        string   `json:"Location,omitempty"`
	MinimumCredits  *float64 `json:"MinimumCredits,omitempty"`
	Capacity        *int     `json:"Capacity,omitempty"`
	Available       *int     `json:"Available,omitempty"`
	IsActive        bool     `json:"IsActive"`
	GradeSchemeCode string   `json:"GradeSchemeCode,omitempty"`
	OnlineCategory  string   `json:"OnlineCategory,omitempty"`
	AllowWaitlist   bool     `json:"AllowWaitlist"`
	ShowDropRoster  bool     `json:"ShowDropRoster"`
	GradeVerifyDate *Date    `json:"GradeVerifyDate,omitempty"`
}

// Section is the v1 faculty section shape.
type Section struct {
	Id             string   `json:"Id"`
	CourseId       string   `json:"CourseId"`
	Number         string   `json:"Number"`
	Title          string   `json:"Title"`
	TermId         string   `json:"TermId"`
	StartDate      Date     `json:"StartDate"`
	EndDate        *Date    `json:"EndDate"`
	FacultyIds     []string `json:"FacultyIds"`
	Location       string   `json:"Location"`
	MinimumCredits *float64 `json:"MinimumCredits"`
	Capacity       *int     `json:"Capacity"`
	Available      *int     `json:"Available"`
	IsActive       bool     `json:"IsActive"`
}

// Section2 is the v2 shape. It adds the online category.
type Section2 struct {
	Section
	OnlineCategory string `json:"OnlineCategory"`
}

// Section3 is the v3 and v4 shape. It adds waitlist and grading scheme
// details.
type Section3 struct {
	Section2
	GradeSchemeCode string `json:"GradeSchemeCode"`
	AllowWaitlist   bool   `json:"AllowWaitlist"`
}

// Section4 is the v5 shape.
type Section4 struct {
	Section3
	ShowDropRoster  bool  `json:"ShowDropRoster"`
	GradeVerifyDate *Date `json:"GradeVerifyDate"`
}

// V1 projects s onto the v1 shape.
func (s FacultySection) V1() Section {
	return Section{
		Id:             s.Id,
		CourseId:       s.CourseId,
		Number:         s.Number,
		Title:          s.Title,
		TermId:         s.TermId,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		FacultyIds:     s.FacultyIds,
		Location:       s.Location,
		MinimumCredits: s.MinimumCredits,
		Capacity:       s.Capacity,
		Available:      s.Available,
		IsActive:       s.IsActive,
	}
}

func (s FacultySection) V2() Section2 {
	return Section2{Section: s.V1(), OnlineCategory: s.OnlineCategory}
}

func (s FacultySection) V3() Section3 {
	return Section3{Section2: s.V2(), GradeSchemeCode: s.GradeSchemeCode, AllowWaitlist: s.AllowWaitlist}
}

func (s FacultySection) V5() Section4 {
	return Section4{Section3: s.V3(), ShowDropRoster: s.ShowDropRoster, GradeVerifyDate: s.GradeVerifyDate}
}

// FacultyPermissions lists the faculty functions the caller may use.
type FacultyPermissions struct {
	CanGrantFacultyConsent      bool `json:"CanGrantFacultyConsent"`
	CanGrantStudentPetition     bool `json:"CanGrantStudentPetition"`
	CanUpdateGrades             bool `json:"CanUpdateGrades"`
	CanCreatePrerequisiteWaiver bool `json:"CanCreatePrerequisiteWaiver"`
	CanWaitlistRegistration     bool `json:"CanWaitlistRegistration"`
	CanDropStudent              bool `json:"CanDropStudent"`
	CanAddAuthorization         bool `json:"CanAddAuthorization"`
}
