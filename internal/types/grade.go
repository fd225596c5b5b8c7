package types

// Grade is the self-service grade code.
type Grade struct {
	Id                        string   `json:"Id"`
	LetterGrade               string   `json:"LetterGrade"`
	Description               string   `json:"Description"`
	GradeValue                *float64 `json:"GradeValue"`
	GradeSchemeCode           string   `json:"GradeSchemeCode"`
	IsWithdraw                bool     `json:"IsWithdraw"`
	GradePriority             *float64 `json:"GradePriority"`
	IncompleteGrade           string   `json:"IncompleteGrade"`
	RequireLastAttendDate     bool     `json:"RequireLastAttendDate"`
	CanBeUsedAsFinalGrade     bool     `json:"CanBeUsedAsFinalGrade"`
	ExcludeFromFacultyGrading bool     `json:"ExcludeFromFacultyGrading"`
	GUID                      string   `json:"-"`
}

// GradeQueryCriteria is the pilot grades query body.
type GradeQueryCriteria struct {
	StudentIds []string `json:"StudentIds" validate:"required,min=1"`
	Term       string   `json:"Term"`
}

// PilotGrade is one graded enrollment returned to Pilot.
type PilotGrade struct {
	StudentId                string `json:"StudentId"`
	SectionId                string `json:"SectionId"`
	TermCode                 string `json:"TermCode"`
	FinalGradeId             string `json:"FinalGradeId"`
	MidtermGrade1            string `json:"MidtermGrade1,omitempty"`
	FinalGradeExpirationDate *Date  `json:"FinalGradeExpirationDate,omitempty"`
	VerifiedGradeTimestamp   *Date  `json:"VerifiedGradeTimestamp,omitempty"`
}

// StudentGradeRecord is a stored enrollment grade used by the pilot query.
type StudentGradeRecord struct {
	ID                 string `json:"id"`
	StudentId          string `json:"studentId"`
	SectionId          string `json:"sectionId"`
	TermCode           string `json:"termCode"`
	FinalGradeId       string `json:"finalGradeId"`
	MidtermGrade1      string `json:"midtermGrade1,omitempty"`
	FinalGradeExpireOn *Date  `json:"finalGradeExpireOn,omitempty"`
	VerifiedOn         *Date  `json:"verifiedOn,omitempty"`
}

// AnonymousGradingQueryCriteria selects anonymous grading ids for a student.
type AnonymousGradingQueryCriteria struct {
	StudentId  string   `json:"StudentId"`
	TermIds    []string `json:"TermIds"`
	SectionIds []string `json:"SectionIds"`
}

// StudentAnonymousGrading is one anonymous grading id.
type StudentAnonymousGrading struct {
	AnonymousGradingId        string `json:"AnonymousGradingId"`
	AnonymousMidTermGradingId string `json:"AnonymousMidTermGradingId,omitempty"`
	TermId                    string `json:"TermId,omitempty"`
	SectionId                 string `json:"SectionId,omitempty"`
	Message                   string `json:"Message,omitempty"`
	StudentId                 string `json:"-"`
}

// GradeDefinition is the v6 grade-definitions representation.
type GradeDefinition struct {
	ID              string           `json:"id"`
	Scheme          *GUIDObject      `json:"scheme,omitempty"`
	Grade           *GradeItem       `json:"grade,omitempty"`
	Credit          string           `json:"credit,omitempty"`
	IncompleteGrade *IncompleteGrade `json:"incompleteGrade,omitempty"`
	Level           *GUIDObject      `json:"level,omitempty"`
}

// GradeItem is the value part of a grade definition.
type GradeItem struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

// IncompleteGrade defaults an incomplete grade to another definition.
type IncompleteGrade struct {
	FinalGrade    *GUIDObject `json:"finalGrade,omitempty"`
	ExtensionDate *Date       `json:"extensionDate,omitempty"`
}

// GradeScheme is a referenced grade scheme.
type GradeScheme struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StartOn     *Date  `json:"startOn,omitempty"`
	EndOn       *Date  `json:"endOn,omitempty"`
}

// AcademicLevel is a referenced academic level.
type AcademicLevel struct {
	ID    string `json:"id"`
	Code  string `json:"code,omitempty"`
	Title string `json:"title,omitempty"`
}

// GradeDefinitionMaximum is the expanded grade-definitions representation.
type GradeDefinitionMaximum struct {
	ID              string             `json:"id"`
	Scheme          *GradeSchemeDetail `json:"scheme,omitempty"`
	Grade           *GradeItemDetail   `json:"grade,omitempty"`
	Credit          string             `json:"credit,omitempty"`
	IncompleteGrade *IncompleteGrade   `json:"incompleteGrade,omitempty"`
}

// GradeSchemeDetail embeds the scheme and its level.
type GradeSchemeDetail struct {
	ID            string         `json:"id"`
	Code          string         `json:"code,omitempty"`
	Title         string         `json:"title,omitempty"`
	Description   string         `json:"description,omitempty"`
	StartOn       *Date          `json:"startOn,omitempty"`
	EndOn         *Date          `json:"endOn,omitempty"`
	AcademicLevel *AcademicLevel `json:"academicLevel,omitempty"`
}

// GradeItemDetail is the expanded grade value.
type GradeItemDetail struct {
	Type        string `json:"type,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}
