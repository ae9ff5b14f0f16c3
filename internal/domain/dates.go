package domain

import "time"

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextOrSameSchoolDay returns the day itself when it falls on a weekday,
// otherwise the following Monday.
func NextOrSameSchoolDay(t time.Time) time.Time {
	day := DateOf(t)
	switch day.Weekday() {
	case time.Saturday:
		return day.AddDate(0, 0, 2)
	case time.Sunday:
		return day.AddDate(0, 0, 1)
	}
	return day
}
