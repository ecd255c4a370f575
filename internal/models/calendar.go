package models

// CalendarDay tells whether any day notice exists on a day of the month.
type CalendarDay struct {
	Day     int  `json:"day"`
	Content bool `json:"content"`
}
