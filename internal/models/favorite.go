package models

import "time"

// Category is a board category that users can mark as favorite.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Favorite links a user to a category. OnOff is flipped instead of deleting the row.
type Favorite struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	CategoryID string    `db:"category_id" json:"category_id"`
	OnOff      bool      `db:"on_off" json:"on_off"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
