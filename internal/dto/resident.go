package dto

import (
	"io"

	"github.com/noah-isme/dominest-api/internal/models"
)

// SaveResidentRequest is the body of resident create and update calls.
type SaveResidentRequest struct {
	Semester      string `json:"residenceSemester" validate:"required"`
	Name          string `json:"name" validate:"required,max=50"`
	Gender        string `json:"gender" validate:"required,oneof=M F"`
	StudentNumber string `json:"studentId" validate:"required,max=20"`
	Major         string `json:"major" validate:"max=100"`
	Grade         string `json:"grade" validate:"max=10"`
	PhoneNumber   string `json:"phoneNumber" validate:"max=20"`
	RoomNumber    string `json:"roomNumber" validate:"required,max=20"`
}

// ResidentQuery captures list query parameters.
type ResidentQuery struct {
	Semester string `form:"residenceSemester"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// ResidentListResponse wraps a page of residents.
type ResidentListResponse struct {
	Semester  models.Semester   `json:"residenceSemester"`
	Residents []models.Resident `json:"residents"`
}

// ResidentPdfListResponse lists document presence for a semester.
type ResidentPdfListResponse struct {
	Semester  models.Semester                 `json:"residenceSemester"`
	Residents []models.ResidentDocumentStatus `json:"residents"`
}

// UploadFile is one uploaded file. Data holds the content when it is already in
// memory; otherwise Open streams it and Size is the size the client declared.
type UploadFile struct {
	Name string
	Size int64
	Data []byte
	Open func() (io.ReadCloser, error)
}

// ResidentImportResponse summarises an Excel import.
type ResidentImportResponse struct {
	models.UploadBatchResult
	Created int `json:"created"`
	Updated int `json:"updated"`
}
