package models

import (
	"fmt"
	"regexp"
	"time"
)

// Semester identifies a residence period, formatted as S<year>_<term>.
// Terms are 1 (spring), 2 (fall), S (summer break) and W (winter break).
type Semester string

var semesterPattern = regexp.MustCompile(`^S(20\d{2})_(1|2|S|W)$`)

// ParseSemester validates raw and returns it as a Semester.
func ParseSemester(raw string) (Semester, error) {
	if !semesterPattern.MatchString(raw) {
		return "", fmt.Errorf("invalid semester %q", raw)
	}
	return Semester(raw), nil
}

// PdfType distinguishes the documents kept per resident.
type PdfType string

const (
	PdfTypeAdmission PdfType = "ADMISSION"
	PdfTypeDeparture PdfType = "DEPARTURE"
)

// ParsePdfType validates raw and returns it as a PdfType.
func ParsePdfType(raw string) (PdfType, error) {
	switch PdfType(raw) {
	case PdfTypeAdmission, PdfTypeDeparture:
		return PdfType(raw), nil
	default:
		return "", fmt.Errorf("invalid pdf type %q", raw)
	}
}

// Label returns the Korean document name.
func (t PdfType) Label() string {
	if t == PdfTypeDeparture {
		return "퇴사신청서"
	}
	return "입사신청서"
}

// Resident is one dormitory resident registered for a semester.
type Resident struct {
	ID               string    `db:"id" json:"id"`
	Semester         Semester  `db:"semester" json:"semester"`
	Name             string    `db:"name" json:"name"`
	Gender           string    `db:"gender" json:"gender"`
	StudentNumber    string    `db:"student_number" json:"student_number"`
	Major            string    `db:"major" json:"major"`
	Grade            string    `db:"grade" json:"grade"`
	PhoneNumber      string    `db:"phone_number" json:"phone_number"`
	RoomNumber       string    `db:"room_number" json:"room_number"`
	AdmissionPdfPath *string   `db:"admission_pdf_path" json:"-"`
	DeparturePdfPath *string   `db:"departure_pdf_path" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// PdfPath returns the stored document path for t, if any.
func (r Resident) PdfPath(t PdfType) *string {
	if t == PdfTypeDeparture {
		return r.DeparturePdfPath
	}
	return r.AdmissionPdfPath
}

// StoredPaths lists every document path currently attached to the resident.
func (r Resident) StoredPaths() []string {
	paths := make([]string, 0, 2)
	for _, p := range []*string{r.AdmissionPdfPath, r.DeparturePdfPath} {
		if p != nil && *p != "" {
			paths = append(paths, *p)
		}
	}
	return paths
}

// ResidentFilter narrows resident listings.
type ResidentFilter struct {
	Semester Semester
	Search   string
	Page     int
	PageSize int
}

// ResidentDocumentStatus reports which documents exist for a resident.
type ResidentDocumentStatus struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StudentNumber string `json:"student_number"`
	RoomNumber    string `json:"room_number"`
	HasAdmission  bool   `json:"has_admission_pdf"`
	HasDeparture  bool   `json:"has_departure_pdf"`
}
