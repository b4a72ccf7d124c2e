package models

import "time"

// Cv represents a candidate CV document with structured sections
type Cv struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Experience represents a single work experience entry
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description"`
}

// Education represents a single education entry
type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description"`
}

// Field returns the named text field of an experience entry
func (e *Experience) Field(name string) (string, bool) {
	switch name {
	case "title":
		return e.Title, true
	case "company":
		return e.Company, true
	case "location":
		return e.Location, true
	case "description":
		return e.Description, true
	default:
		return "", false
	}
}

// SetField sets the named text field of an experience entry
func (e *Experience) SetField(name, value string) bool {
	switch name {
	case "title":
		e.Title = value
	case "company":
		e.Company = value
	case "location":
		e.Location = value
	case "description":
		e.Description = value
	default:
		return false
	}
	return true
}

// Field returns the named text field of an education entry
func (e *Education) Field(name string) (string, bool) {
	switch name {
	case "school":
		return e.School, true
	case "degree":
		return e.Degree, true
	case "field_of_study":
		return e.FieldOfStudy, true
	case "description":
		return e.Description, true
	default:
		return "", false
	}
}

// SetField sets the named text field of an education entry
func (e *Education) SetField(name, value string) bool {
	switch name {
	case "school":
		e.School = value
	case "degree":
		e.Degree = value
	case "field_of_study":
		e.FieldOfStudy = value
	case "description":
		e.Description = value
	default:
		return false
	}
	return true
}

// SectionFieldPatch addresses a single field of an indexed section entry
type SectionFieldPatch struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// CvPatch represents a partial update to a CV document. Nil/empty members
// leave the corresponding section untouched.
type CvPatch struct {
	Summary    *string             `json:"summary,omitempty"`
	Skills     []string            `json:"skills,omitempty"`
	Experience []SectionFieldPatch `json:"experience,omitempty"`
	Education  []SectionFieldPatch `json:"education,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p *CvPatch) IsEmpty() bool {
	return p.Summary == nil && p.Skills == nil && len(p.Experience) == 0 && len(p.Education) == 0
}
