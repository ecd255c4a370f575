package dto

import "time"

// ExportResponse points at a rendered roster.
type ExportResponse struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	Rows        int       `json:"rows"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
