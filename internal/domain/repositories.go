package domain

import (
	"context"
	"time"
)

// RegisterClient provides access to the school register for the current student
type RegisterClient interface {
	// CurrentStudent returns the student the session belongs to
	CurrentStudent(ctx context.Context) (Student, error)

	LuckyNumber(ctx context.Context, student Student) (LuckyNumber, error)

	// Messages returns the messages of one folder
	Messages(ctx context.Context, student Student, folder MessageFolder) ([]Message, error)

	// AttendanceSummary returns per-month counters for the current school year
	AttendanceSummary(ctx context.Context, student Student) ([]AttendanceSummary, error)

	// Timetable returns lessons between start and end, both inclusive
	Timetable(ctx context.Context, student Student, start, end time.Time) (Timetable, error)

	Grades(ctx context.Context, student Student) ([]Grade, error)

	// Homework returns assignments due between start and end
	Homework(ctx context.Context, student Student, start, end time.Time) ([]Homework, error)

	Announcements(ctx context.Context, student Student) ([]Announcement, error)

	// Exams returns exams scheduled between start and end
	Exams(ctx context.Context, student Student, start, end time.Time) ([]Exam, error)

	Meetings(ctx context.Context, student Student) ([]Meeting, error)
}

// AdsClient serves promotional cards. It does not need a student session.
type AdsClient interface {
	Ads(ctx context.Context) ([]Ad, error)
}
