package models

import "time"

// Todo is a task on the shared staff todo list.
type Todo struct {
	ID             string    `db:"id" json:"id"`
	Task           string    `db:"task" json:"task"`
	ReceiveRequest string    `db:"receive_request" json:"receive_request"`
	CheckYn        bool      `db:"check_yn" json:"check_yn"`
	UserID         string    `db:"user_id" json:"user_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
