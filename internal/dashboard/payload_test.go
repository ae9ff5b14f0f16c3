package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/classboard/internal/domain"
)

func day(offset int) time.Time {
	return domain.DateOf(testNow).AddDate(0, 0, offset)
}

func TestRecentGrades(t *testing.T) {
	grades := []domain.Grade{
		{Subject: "Math", Entry: "5", Date: day(-1)},
		{Subject: "Art", Entry: "3", Date: day(-6)},
		{Subject: "Math", Entry: "4", Date: day(-3)},
		{Subject: "History", Entry: "6", Date: day(-7)}, // too old
		{Subject: "Art", Entry: "2", Date: day(-4)},
	}
	for i := 0; i < 6; i++ {
		grades = append(grades, domain.Grade{Subject: "PE", Entry: "6", Date: day(-2 - i%3)})
	}

	got := RecentGrades(grades, testNow)
	require.Len(t, got, 3)

	assert.Equal(t, "Art", got[0].Subject)
	assert.Equal(t, []string{"3", "2"}, entries(got[0].Grades))
	assert.Equal(t, day(-6), got[0].Grades[0].Date)

	assert.Equal(t, "PE", got[1].Subject)
	assert.Len(t, got[1].Grades, gradesPerSubject)

	assert.Equal(t, "Math", got[2].Subject)
	assert.Equal(t, []string{"4", "5"}, entries(got[2].Grades))

	assert.Empty(t, RecentGrades(nil, testNow))
}

func entries(grades []domain.Grade) []string {
	out := make([]string, len(grades))
	for i, g := range grades {
		out[i] = g.Entry
	}
	return out
}

func TestPendingHomework(t *testing.T) {
	items := []domain.Homework{
		{Content: "yesterday", Date: day(-1)},
		{Content: "today", Date: day(0)},
		{Content: "done", Date: day(1), Done: true},
		{Content: "tomorrow", Date: day(1)},
	}
	got := PendingHomework(items, testNow)
	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].Content)
	assert.Equal(t, "tomorrow", got[1].Content)
}

func TestUpcomingMeetings(t *testing.T) {
	items := []domain.Meeting{
		{Title: "past", Date: testNow.Add(-time.Hour)},
		{Title: "now", Date: testNow},
		{Title: "later", Date: testNow.Add(time.Hour)},
	}
	got := UpcomingMeetings(items, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, "later", got[0].Title)
}

func TestLessonDay(t *testing.T) {
	today := day(0)
	tt := domain.Timetable{Lessons: []domain.Lesson{
		{Number: 1, Subject: "Math", Start: today.Add(8 * time.Hour), End: today.Add(8*time.Hour + 45*time.Minute)},
		{Number: 5, Subject: "Art", Start: today.Add(12 * time.Hour), End: today.Add(12*time.Hour + 45*time.Minute)},
		{Number: 1, Subject: "Physics", Start: day(1).Add(8 * time.Hour), End: day(1).Add(8*time.Hour + 45*time.Minute)},
	}}

	d, lessons := LessonDay(tt, testNow)
	assert.Equal(t, today, d)
	assert.Len(t, lessons, 2)

	d, lessons = LessonDay(tt, today.Add(13*time.Hour))
	assert.Equal(t, day(1), d)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Physics", lessons[0].Subject)

	_, lessons = LessonDay(domain.Timetable{}, testNow)
	assert.Empty(t, lessons)
}

func TestLessonDay_SkipsCanceledRemainder(t *testing.T) {
	today := day(0)
	tt := domain.Timetable{Lessons: []domain.Lesson{
		{Number: 6, Subject: "Art", Start: today.Add(13 * time.Hour), End: today.Add(14 * time.Hour), Canceled: true},
		{Number: 1, Subject: "Physics", Start: day(1).Add(8 * time.Hour), End: day(1).Add(9 * time.Hour)},
	}}
	d, _ := LessonDay(tt, testNow)
	assert.Equal(t, day(1), d)
}
