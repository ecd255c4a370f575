package service

import (
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/dominest-api/internal/models"
)

const dateLayout = "2006-01-02"

var weekdayNames = map[string]time.Weekday{
	"SUN": time.Sunday, "SUNDAY": time.Sunday,
	"MON": time.Monday, "MONDAY": time.Monday,
	"TUE": time.Tuesday, "TUESDAY": time.Tuesday,
	"WED": time.Wednesday, "WEDNESDAY": time.Wednesday,
	"THU": time.Thursday, "THURSDAY": time.Thursday,
	"FRI": time.Friday, "FRIDAY": time.Friday,
	"SAT": time.Saturday, "SATURDAY": time.Saturday,
}

// ExpandRepeatSchedule materialises the notices implied by schedule, one per matching day in
// [StartDate, EndDate]. Dates are strictly increasing. An inverted window or a rule matching no
// day yields an empty slice.
func ExpandRepeatSchedule(schedule models.RepeatSchedule) []models.DayNotice {
	start := dateOnly(schedule.StartDate)
	end := dateOnly(schedule.EndDate)
	notices := make([]models.DayNotice, 0)
	if start.After(end) {
		return notices
	}

	match := recurrenceMatcher(schedule)
	var backRef *string
	if schedule.ID != "" {
		id := schedule.ID
		backRef = &id
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !match(day) {
			continue
		}
		notices = append(notices, models.DayNotice{
			NoticeDate:       day,
			Title:            schedule.Title,
			Content:          schedule.Content,
			AuthorID:         schedule.AuthorID,
			RepeatScheduleID: backRef,
		})
	}
	return notices
}

func recurrenceMatcher(schedule models.RepeatSchedule) func(time.Time) bool {
	switch schedule.RecurrenceKind {
	case models.RecurrenceWeekly:
		set := int64Set(schedule.Weekdays)
		return func(day time.Time) bool { return set[int64(day.Weekday())] }
	case models.RecurrenceMonthly:
		set := int64Set(schedule.MonthDays)
		return func(day time.Time) bool { return set[int64(day.Day())] }
	default:
		return func(time.Time) bool { return false }
	}
}

func int64Set(values []int64) map[int64]bool {
	set := make(map[int64]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// parseWeekdays converts weekday names into sorted, de-duplicated time.Weekday values.
func parseWeekdays(raw []string) (pq.Int64Array, bool) {
	seen := map[int64]bool{}
	for _, name := range raw {
		wd, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, false
		}
		seen[int64(wd)] = true
	}
	return sortedKeys(seen), true
}

func normaliseMonthDays(raw []int) (pq.Int64Array, bool) {
	seen := map[int64]bool{}
	for _, d := range raw {
		if d < 1 || d > 31 {
			return nil, false
		}
		seen[int64(d)] = true
	}
	return sortedKeys(seen), true
}

func sortedKeys(set map[int64]bool) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func weekdayLabels(values pq.Int64Array) []string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, strings.ToUpper(time.Weekday(v).String()[:3]))
	}
	return labels
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}
