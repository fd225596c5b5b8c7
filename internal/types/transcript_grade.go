package types

// StudentTranscriptGrade is the v1.1.0 student-transcript-grades
// representation.
type StudentTranscriptGrade struct {
	ID              string                  `json:"id"`
	Student         *GUIDObject             `json:"student,omitempty"`
	Course          *GUIDObject             `json:"course,omitempty"`
	CourseSection   *GUIDObject             `json:"courseSection,omitempty"`
	Title           string                  `json:"title,omitempty"`
	AcademicPeriod  *GUIDObject             `json:"academicPeriod,omitempty"`
	AttemptedCredit *float64                `json:"attemptedCredit,omitempty"`
	EarnedCredit    *float64                `json:"earnedCredit,omitempty"`
	GradePoints     *float64                `json:"gradePoints,omitempty"`
	Grade           *TranscriptGradeDetail  `json:"grade,omitempty"`
	GradeChanges    []TranscriptGradeChange `json:"gradeChanges,omitempty"`
	Status          string                  `json:"status,omitempty"`
}

// TranscriptGradeDetail is the awarded grade and its scheme.
type TranscriptGradeDetail struct {
	Grade     *GUIDObject `json:"grade,omitempty"`
	Scheme    *GUIDObject `json:"scheme,omitempty"`
	AwardedOn *Date       `json:"awardedOn,omitempty"`
}

// TranscriptGradeChange records one grade adjustment.
type TranscriptGradeChange struct {
	ChangedOn     *Date       `json:"changedOn,omitempty"`
	PreviousGrade *GUIDObject `json:"previousGrade,omitempty"`
	Reason        *GUIDObject `json:"reason,omitempty"`
}

// StudentTranscriptGradeAdjustment is the adjustments request body.
type StudentTranscriptGradeAdjustment struct {
	ID     string                      `json:"id"`
	Detail *TranscriptAdjustmentDetail `json:"detail,omitempty"`
}

// TranscriptAdjustmentDetail names the new grade and why it changed.
type TranscriptAdjustmentDetail struct {
	Grade        *GUIDObject `json:"grade,omitempty"`
	ChangeReason *GUIDObject `json:"changeReason,omitempty"`
}

// StudentTranscriptGradeOptions lists the grades that may replace the
// current one.
type StudentTranscriptGradeOptions struct {
	ID          string       `json:"id"`
	GradeScheme *GUIDObject  `json:"gradeScheme,omitempty"`
	Grades      []GUIDObject `json:"grades"`
}

// TranscriptGradeCriteria is the criteria filter.
type TranscriptGradeCriteria struct {
	Student *GUIDObject `json:"student,omitempty"`
}

// StudentFilter is the student named query.
type StudentFilter struct {
	Student *GUIDObject `json:"student"`
}
