package dashboard

import (
	"sort"
	"time"

	"github.com/mmcdole/classboard/internal/domain"
)

const (
	recentGradeDays  = 7
	gradesPerSubject = 5
)

// RecentGrades keeps grades from the last week, grouped by subject. Each
// subject holds at most five grades in date order, and subjects are ordered
// by their earliest grade.
func RecentGrades(grades []domain.Grade, now time.Time) []SubjectGrades {
	cutoff := domain.DateOf(now).AddDate(0, 0, -recentGradeDays)

	var order []string
	bySubject := make(map[string][]domain.Grade)
	for _, g := range grades {
		if !domain.DateOf(g.Date).After(cutoff) {
			continue
		}
		if _, ok := bySubject[g.Subject]; !ok {
			order = append(order, g.Subject)
		}
		bySubject[g.Subject] = append(bySubject[g.Subject], g)
	}

	out := make([]SubjectGrades, 0, len(order))
	for _, subject := range order {
		list := bySubject[subject]
		if len(list) > gradesPerSubject {
			list = list[:gradesPerSubject]
		}
		sorted := append([]domain.Grade(nil), list...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
		out = append(out, SubjectGrades{Subject: subject, Grades: sorted})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Grades[0].Date.Before(out[j].Grades[0].Date)
	})
	return out
}

// PendingHomework keeps assignments due today or later that are not done.
func PendingHomework(items []domain.Homework, now time.Time) []domain.Homework {
	today := domain.DateOf(now)
	var out []domain.Homework
	for _, h := range items {
		if h.Done || domain.DateOf(h.Date).Before(today) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// UpcomingMeetings keeps meetings that have not started yet.
func UpcomingMeetings(items []domain.Meeting, now time.Time) []domain.Meeting {
	var out []domain.Meeting
	for _, m := range items {
		if m.Date.After(now) {
			out = append(out, m)
		}
	}
	return out
}

// LessonDay picks the day the lessons tile shows: today while a lesson that
// is not canceled remains, otherwise the next day that has any lessons.
func LessonDay(tt domain.Timetable, now time.Time) (time.Time, []domain.Lesson) {
	today := domain.DateOf(now)
	lessons := tt.On(today)
	for _, l := range lessons {
		if !l.Canceled && l.End.After(now) {
			return today, lessons
		}
	}

	var next time.Time
	for _, l := range tt.Lessons {
		if d := l.Date(); d.After(today) && (next.IsZero() || d.Before(next)) {
			next = d
		}
	}
	if next.IsZero() {
		return today, nil
	}
	return next, tt.On(next)
}
