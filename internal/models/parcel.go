package models

import (
	"fmt"
	"time"
)

// ParcelProcessState tracks how staff handled an undelivered parcel.
type ParcelProcessState string

const (
	ParcelPending     ParcelProcessState = "PENDING"
	ParcelMessageSent ParcelProcessState = "MESSAGE_SENT"
	ParcelPhoneCalled ParcelProcessState = "PHONE_CALLED"
	ParcelReturned    ParcelProcessState = "RETURNED"
	ParcelDiscarded   ParcelProcessState = "DISCARDED"
)

// ParseParcelProcessState validates raw and returns it as a state.
func ParseParcelProcessState(raw string) (ParcelProcessState, error) {
	switch s := ParcelProcessState(raw); s {
	case ParcelPending, ParcelMessageSent, ParcelPhoneCalled, ParcelReturned, ParcelDiscarded:
		return s, nil
	default:
		return "", fmt.Errorf("invalid process state %q", raw)
	}
}

// ParcelPost groups undelivered parcels registered together.
type ParcelPost struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Parcel is one undelivered parcel on a post.
type Parcel struct {
	ID                string             `db:"id" json:"id"`
	PostID            string             `db:"post_id" json:"post_id"`
	RecipientName     string             `db:"recipient_name" json:"recipient_name"`
	RecipientPhoneNum string             `db:"recipient_phone_num" json:"recipient_phone_num"`
	Instruction       string             `db:"instruction" json:"instruction"`
	ProcessState      ParcelProcessState `db:"process_state" json:"process_state"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}
