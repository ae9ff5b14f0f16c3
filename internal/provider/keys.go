package provider

import "github.com/mmcdole/classboard/internal/dashboard"

// KeyStudent holds the student of the last successful session.
const KeyStudent = "student:current"

// KeyAds holds the promo cards. They do not depend on the student.
const KeyAds = "ads"

// cacheKey builds kind:studentID. kind is the data source name so one
// source can be wiped for every student with a single prefix.
func cacheKey(id dashboard.DataSourceID, studentID string) string {
	return id.String() + ":" + studentID
}

// studentScoped lists the sources whose entries are keyed by student.
var studentScoped = []dashboard.DataSourceID{
	dashboard.SourceLuckyNumber,
	dashboard.SourceMessages,
	dashboard.SourceAttendance,
	dashboard.SourceLessons,
	dashboard.SourceGrades,
	dashboard.SourceHomework,
	dashboard.SourceAnnouncements,
	dashboard.SourceExams,
	dashboard.SourceMeetings,
}

// StudentPrefixes returns every cache prefix holding data of one student.
func StudentPrefixes(studentID string) []string {
	out := make([]string, 0, len(studentScoped))
	for _, id := range studentScoped {
		out = append(out, cacheKey(id, studentID))
	}
	return out
}
