package dto

import "time"

// CreateRepeatScheduleRequest defines a notice repeated over a date window.
// Weekdays accept MON..SUN (or full English names); MonthDays accept 1..31.
type CreateRepeatScheduleRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Content        string   `json:"content" validate:"max=5000"`
	RecurrenceKind string   `json:"recurrenceKind" validate:"required,oneof=WEEKLY MONTHLY"`
	Weekdays       []string `json:"weekdays" validate:"omitempty,dive,required"`
	MonthDays      []int    `json:"monthDays" validate:"omitempty,dive,min=1,max=31"`
	StartDate      string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string   `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// RepeatScheduleResponse describes a definition and the notices it produced.
type RepeatScheduleResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RecurrenceKind string    `json:"recurrenceKind"`
	Weekdays       []string  `json:"weekdays"`
	MonthDays      []int     `json:"monthDays"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	AuthorID       string    `json:"authorId"`
	CreatedAt      time.Time `json:"createdAt"`
	GeneratedCount int       `json:"generatedCount"`
	NoticeDates    []string  `json:"noticeDates,omitempty"`
}

// RegenerateResponse reports the outcome of re-expanding a stored definition.
type RegenerateResponse struct {
	ID        string   `json:"id"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Dates     []string `json:"generatedDates"`
}

// CreateDayNoticeRequest creates a notice on one day.
type CreateDayNoticeRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"max=5000"`
}
