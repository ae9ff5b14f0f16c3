package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttendancePercentage(t *testing.T) {
	summaries := []AttendanceSummary{
		{Month: time.September, Presence: 70, Lateness: 5, Absence: 20, AbsenceExcused: 5},
		{Month: time.October, Presence: 15, LatenessExcused: 5, Exemption: 12},
	}
	// 95 present out of 120 counted
	assert.InDelta(t, 79.1666, AttendancePercentage(summaries), 0.001)
	assert.Zero(t, AttendancePercentage(nil))
	assert.Zero(t, AttendancePercentage([]AttendanceSummary{{Exemption: 3}}))
}

func TestUnreadCount(t *testing.T) {
	messages := []Message{
		{Folder: FolderReceived, Unread: true},
		{Folder: FolderReceived},
		{Folder: FolderSent, Unread: true},
		{Folder: FolderReceived, Unread: true},
	}
	assert.Equal(t, 2, UnreadCount(messages))
}

func TestNextOrSameSchoolDay(t *testing.T) {
	friday := time.Date(2026, time.October, 16, 15, 30, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	sunday := friday.AddDate(0, 0, 2)
	monday := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DateOf(friday), NextOrSameSchoolDay(friday))
	assert.Equal(t, monday, NextOrSameSchoolDay(saturday))
	assert.Equal(t, monday, NextOrSameSchoolDay(sunday))
}

func TestTimetableOn(t *testing.T) {
	day := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	tt := Timetable{Lessons: []Lesson{
		{Number: 1, Subject: "Math", Start: day.Add(8 * time.Hour)},
		{Number: 1, Subject: "Art", Start: day.AddDate(0, 0, 1).Add(8 * time.Hour)},
		{Number: 2, Subject: "Physics", Start: day.Add(9 * time.Hour)},
	}}

	lessons := tt.On(day.Add(13 * time.Hour))
	if assert.Len(t, lessons, 2) {
		assert.Equal(t, "Math", lessons[0].Subject)
		assert.Equal(t, "Physics", lessons[1].Subject)
	}
	assert.Empty(t, tt.On(day.AddDate(0, 0, 3)))
}

func TestStudentDisplayName(t *testing.T) {
	assert.Equal(t, "Jan Kowalski", Student{Name: "Jan Kowalski"}.DisplayName())
	assert.Equal(t, "Janek", Student{Name: "Jan Kowalski", Nick: "Janek"}.DisplayName())
}
