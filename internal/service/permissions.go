package service

// Permission codes checked by the services.
const (
	PermViewHousingAssignment         = "VIEW.HOUSING.ASSIGNMENT"
	PermCreateUpdateHousingAssignment = "CREATE.UPDATE.HOUSING.ASSIGNMENT"
	PermViewHousingRequest            = "VIEW.HOUSING.REQS"
	PermCreateHousingRequest          = "CREATE.HOUSING.REQS"
	PermViewMealPlanAssignment        = "VIEW.MEAL.PLAN.ASSIGNMENT"
	PermCreateMealPlanAssignment      = "CREATE.MEAL.PLAN.ASSIGNMENT"
	PermViewStudentCharges            = "VIEW.STUDENT.CHARGES"
	PermCreateStudentCharges          = "CREATE.STUDENT.CHARGES"
	PermViewFinancialAidAwards        = "VIEW.STUDENT.FA.AWARDS"
	PermViewRestrictedFinancialAid    = "VIEW.RESTRICTED.STUDENT.FA.AWARDS"
	PermViewTranscriptGrades          = "VIEW.STUDENT.TRANSCRIPT.GRADES"
	PermUpdateTranscriptAdjustments   = "UPDATE.STUDENT.TRANSCRIPT.GRADES.ADJ"
	PermViewSectionCrosslists         = "VIEW.SECTION.CROSSLIST"
	PermUpdateSectionCrosslists       = "UPDATE.SECTION.CROSSLIST"
	PermDeleteSectionCrosslists       = "DELETE.SECTION.CROSSLIST"
	PermViewStudentGrades             = "VIEW.STUDENT.GRADES"
	PermViewAnonymousGradingIds       = "VIEW.ANONYMOUS.GRADING.IDS"
	PermViewFacultyInformation        = "VIEW.FACULTY.INFORMATION"
	PermViewStudent1098               = "VIEW.STUDENT.1098"
	PermViewStudentT2202A             = "VIEW.STUDENT.T2202A"
	PermViewInstantEnrollmentData     = "VIEW.INSTANT.ENROLLMENT.DATA"
	PermQueryPersonMatches            = "QUERY.PERSON.MATCHES"

	// Faculty function codes reported by the faculty permissions endpoint.
	PermGrantFacultyConsent      = "GRANT.FACULTY.CONSENT"
	PermGrantStudentPetition     = "GRANT.STUDENT.PETITION"
	PermUpdateGrades             = "UPDATE.GRADES"
	PermCreatePrerequisiteWaiver = "CREATE.PREREQUISITE.WAIVER"
	PermWaitlistRegistration     = "WAITLIST.REGISTRATION"
	PermDropStudent              = "DROP.STUDENT"
	PermAddAuthorization         = "ADD.AUTHORIZATION"
)

// Storage resource names. EEDM resources use their route name so the data
// privacy and extended data tables line up with the API.
const (
	ResourceAcademicPrograms        = "academic-programs"
	ResourceGrades                  = "grades"
	ResourceStudentGrades           = "student-grades"
	ResourceAnonymousGradingIds     = "anonymous-grading-ids"
	ResourceGradeDefinitions        = "grade-definitions"
	ResourceGradeSchemes            = "grade-schemes"
	ResourceAcademicLevels          = "academic-levels"
	ResourceFaculty                 = "faculty"
	ResourceFacultySections         = "faculty-sections"
	ResourceHousingAssignments      = "housing-assignments"
	ResourceHousingRequests         = "housing-requests"
	ResourceIESections              = "instant-enrollment-sections"
	ResourceIECashReceipts          = "instant-enrollment-cash-receipts"
	ResourceIERegistrations         = "instant-enrollment-registrations"
	ResourceIEPaymentParagraphs     = "instant-enrollment-payment-paragraphs"
	ResourcePersons                 = "persons"
	ResourceStudentPrograms         = "student-programs"
	ResourceSectionCrosslists       = "section-crosslists"
	ResourceStudentCharges          = "student-charges"
	ResourceFinancialAidAwards      = "student-financial-aid-awards"
	ResourceRestrictedFinancialAid  = "restricted-student-financial-aid-awards"
	ResourceMealPlanAssignments     = "meal-plan-assignments"
	ResourceTranscriptGrades        = "student-transcript-grades"
	ResourceTranscriptGradesOptions = "student-transcript-grades-options"
	ResourceTaxFormConsents         = "tax-form-consents"
	ResourceForm1098PdfData         = "form1098-pdf-data"
	ResourceFormT2202aPdfData       = "formt2202a-pdf-data"
)
