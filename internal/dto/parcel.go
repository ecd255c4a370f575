package dto

import "github.com/noah-isme/dominest-api/internal/models"

// CreateParcelPostRequest creates an undelivered parcel post.
type CreateParcelPostRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// SaveParcelRequest is the body of parcel create and update calls.
type SaveParcelRequest struct {
	RecipientName     string `json:"recipientName" validate:"required,max=50"`
	RecipientPhoneNum string `json:"recipientPhoneNum" validate:"max=20"`
	Instruction       string `json:"instruction" validate:"max=500"`
	ProcessState      string `json:"processState" validate:"omitempty,oneof=PENDING MESSAGE_SENT PHONE_CALLED RETURNED DISCARDED"`
}

// ParcelPostDetail is a post with its parcels.
type ParcelPostDetail struct {
	models.ParcelPost
	Parcels []models.Parcel `json:"parcels"`
}
