package types

// AcademicProgram is the current (v15.2.0) academic-programs representation.
type AcademicProgram struct {
	ID                 string                 `json:"id"`
	Code               string                 `json:"code,omitempty"`
	Title              string                 `json:"title,omitempty"`
	Description        string                 `json:"description,omitempty"`
	AcademicLevel      *GUIDObject            `json:"academicLevel,omitempty"`
	Credentials        []GUIDObject           `json:"credentials,omitempty"`
	Disciplines        []ProgramDiscipline    `json:"disciplines,omitempty"`
	Authorizing        []GUIDObject           `json:"authorizing,omitempty"`
	AcademicCatalogs   []GUIDObject           `json:"academicCatalogs,omitempty"`
	RecruitmentProgram string                 `json:"recruitmentProgram,omitempty"`
	StartOn            *Date                  `json:"startOn,omitempty"`
	EndOn              *Date                  `json:"endOn,omitempty"`
	Status             string                 `json:"status,omitempty"`
	Sites              []GUIDObject           `json:"sites,omitempty"`
	Legacy             *AcademicProgramLegacy `json:"legacy,omitempty"`
}

// AcademicProgramLegacy carries the self-service fields kept alongside the
// EEDM document in storage.
type AcademicProgramLegacy struct {
	Catalogs []string `json:"catalogs,omitempty"`
	Degree   string   `json:"degree,omitempty"`
	Majors   []string `json:"majors,omitempty"`
}

// ProgramDiscipline links a discipline to an administering unit.
type ProgramDiscipline struct {
	Discipline                   *GUIDObject `json:"discipline"`
	AdministeringInstitutionUnit *GUIDObject `json:"administeringInstitutionUnit,omitempty"`
}

// AcademicProgram2 is the v6 representation.
type AcademicProgram2 struct {
	ID            string      `json:"id"`
	Code          string      `json:"code,omitempty"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	AcademicLevel *GUIDObject `json:"academicLevel,omitempty"`
	Status        string      `json:"status,omitempty"`
}

// AcademicProgram3 is the v10 representation.
type AcademicProgram3 struct {
	ID            string              `json:"id"`
	Code          string              `json:"code,omitempty"`
	Title         string              `json:"title,omitempty"`
	Description   string              `json:"description,omitempty"`
	AcademicLevel *GUIDObject         `json:"academicLevel,omitempty"`
	Credentials   []GUIDObject        `json:"credentials,omitempty"`
	Disciplines   []ProgramDiscipline `json:"disciplines,omitempty"`
	Authorizing   []GUIDObject        `json:"authorizing,omitempty"`
	StartOn       *Date               `json:"startOn,omitempty"`
	EndOn         *Date               `json:"endOn,omitempty"`
	Status        string              `json:"status,omitempty"`
}

// AcademicProgramSummary is the self-service (v1) representation.
type AcademicProgramSummary struct {
	Code        string   `json:"Code"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Degree      string   `json:"Degree"`
	Majors      []string `json:"Majors"`
	Catalogs    []string `json:"Catalogs"`
}

// V6 projects p onto the v6 shape.
func (p AcademicProgram) V6() AcademicProgram2 {
	return AcademicProgram2{
		ID:            p.ID,
		Code:          p.Code,
		Title:         p.Title,
		Description:   p.Description,
		AcademicLevel: p.AcademicLevel,
		Status:        p.Status,
	}
}

// V10 projects p onto the v10 shape.
func (p AcademicProgram) V10() AcademicProgram3 {
	return AcademicProgram3{
		ID:            p.ID,
		Code:          p.Code,
		Title:         p.Title,
		Description:   p.Description,
		AcademicLevel: p.AcademicLevel,
		Credentials:   p.Credentials,
		Disciplines:   p.Disciplines,
		Authorizing:   p.Authorizing,
		StartOn:       p.StartOn,
		EndOn:         p.EndOn,
		Status:        p.Status,
	}
}

// Summary projects p onto the self-service shape.
func (p AcademicProgram) Summary() AcademicProgramSummary {
	s := AcademicProgramSummary{
		Code:        p.Code,
		Title:       p.Title,
		Description: p.Description,
		Majors:      []string{},
		Catalogs:    []string{},
	}
	if p.Legacy != nil {
		s.Degree = p.Legacy.Degree
		if p.Legacy.Majors != nil {
			s.Majors = p.Legacy.Majors
		}
		if p.Legacy.Catalogs != nil {
			s.Catalogs = p.Legacy.Catalogs
		}
	}
	return s
}

// AcademicCatalogFilter is the academicCatalog named query.
type AcademicCatalogFilter struct {
	AcademicCatalog *GUIDObject `json:"academicCatalog"`
}

// RecruitmentProgramFilter is the recruitmentProgram named query.
type RecruitmentProgramFilter struct {
	RecruitmentProgram *string `json:"recruitmentProgram"`
}
