package models

import (
	"time"

	"github.com/lib/pq"
)

// RecurrenceKind selects how a repeat schedule matches dates.
type RecurrenceKind string

const (
	RecurrenceWeekly  RecurrenceKind = "WEEKLY"
	RecurrenceMonthly RecurrenceKind = "MONTHLY"
)

// RepeatSchedule is a notice template repeated over a date window.
// Weekdays hold time.Weekday values (0 = Sunday), MonthDays hold 1..31.
type RepeatSchedule struct {
	ID             string         `db:"id" json:"id"`
	Title          string         `db:"title" json:"title"`
	Content        string         `db:"content" json:"content"`
	RecurrenceKind RecurrenceKind `db:"recurrence_kind" json:"recurrence_kind"`
	Weekdays       pq.Int64Array  `db:"weekdays" json:"weekdays"`
	MonthDays      pq.Int64Array  `db:"month_days" json:"month_days"`
	StartDate      time.Time      `db:"start_date" json:"start_date"`
	EndDate        time.Time      `db:"end_date" json:"end_date"`
	AuthorID       string         `db:"author_id" json:"author_id"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// DayNotice is a notice pinned to a single calendar day.
type DayNotice struct {
	ID               string    `db:"id" json:"id"`
	NoticeDate       time.Time `db:"notice_date" json:"notice_date"`
	Title            string    `db:"title" json:"title"`
	Content          string    `db:"content" json:"content"`
	AuthorID         string    `db:"author_id" json:"author_id"`
	RepeatScheduleID *string   `db:"repeat_schedule_id" json:"repeat_schedule_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// RepeatScheduleSummary is a list row with the number of generated notices.
type RepeatScheduleSummary struct {
	RepeatSchedule
	NoticeCount int `db:"notice_count" json:"notice_count"`
}
