package domain

import "time"

// Student is the account the dashboard is rendered for.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Nick       string `json:"nick,omitempty"`
	ClassName  string `json:"class_name"`
	SchoolName string `json:"school_name"`
}

// DisplayName prefers the nick when the student set one.
func (s Student) DisplayName() string {
	if s.Nick != "" {
		return s.Nick
	}
	return s.Name
}

// LuckyNumber is the school-wide number drawn for a day.
type LuckyNumber struct {
	Number int       `json:"number"`
	Date   time.Time `json:"date"`
}

// MessageFolder identifies a mailbox folder
type MessageFolder string

const (
	FolderReceived MessageFolder = "received"
	FolderSent     MessageFolder = "sent"
	FolderTrash    MessageFolder = "trash"
)

type Message struct {
	ID      string        `json:"id"`
	Subject string        `json:"subject"`
	Sender  string        `json:"sender"`
	Folder  MessageFolder `json:"folder"`
	Unread  bool          `json:"unread"`
	Date    time.Time     `json:"date"`
}

// UnreadCount counts unread messages in the received folder.
func UnreadCount(messages []Message) int {
	n := 0
	for _, m := range messages {
		if m.Folder == FolderReceived && m.Unread {
			n++
		}
	}
	return n
}

// AttendanceSummary holds per-month attendance counters.
type AttendanceSummary struct {
	Month                   time.Month `json:"month"`
	Presence                int        `json:"presence"`
	Absence                 int        `json:"absence"`
	AbsenceExcused          int        `json:"absence_excused"`
	AbsenceForSchoolReasons int        `json:"absence_for_school_reasons"`
	Lateness                int        `json:"lateness"`
	LatenessExcused         int        `json:"lateness_excused"`
	Exemption               int        `json:"exemption"`
}

// AttendancePercentage returns the share of attended lessons in percent.
// Lateness and absence for school reasons count as presence; exemptions
// are not counted at all. Returns 0 when nothing was recorded.
func AttendancePercentage(summaries []AttendanceSummary) float64 {
	var present, absent int
	for _, s := range summaries {
		present += s.Presence + s.Lateness + s.LatenessExcused + s.AbsenceForSchoolReasons
		absent += s.Absence + s.AbsenceExcused
	}
	total := present + absent
	if total == 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

type Lesson struct {
	Number   int       `json:"number"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Subject  string    `json:"subject"`
	Room     string    `json:"room"`
	Teacher  string    `json:"teacher"`
	Canceled bool      `json:"canceled"`
}

// Date returns the school day the lesson belongs to.
func (l Lesson) Date() time.Time {
	return DateOf(l.Start)
}

// Timetable is the set of lessons for a date range.
type Timetable struct {
	Lessons []Lesson `json:"lessons"`
}

// On returns the lessons scheduled on the given day, in start order.
func (t Timetable) On(day time.Time) []Lesson {
	day = DateOf(day)
	var out []Lesson
	for _, l := range t.Lessons {
		if l.Date().Equal(day) {
			out = append(out, l)
		}
	}
	return out
}

type Grade struct {
	Subject     string    `json:"subject"`
	Entry       string    `json:"entry"`
	Value       float64   `json:"value"`
	Weight      float64   `json:"weight"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type Homework struct {
	Subject string    `json:"subject"`
	Content string    `json:"content"`
	Teacher string    `json:"teacher,omitempty"`
	Date    time.Time `json:"date"`
	Done    bool      `json:"done"`
}

// Announcement is a school announcement addressed to the student.
type Announcement struct {
	Subject string    `json:"subject"`
	Content string    `json:"content"`
	Author  string    `json:"author,omitempty"`
	Date    time.Time `json:"date"`
}

type Exam struct {
	Subject     string    `json:"subject"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

// Meeting is a parent-teacher conference.
type Meeting struct {
	Title string    `json:"title"`
	Topic string    `json:"topic,omitempty"`
	Place string    `json:"place,omitempty"`
	Date  time.Time `json:"date"`
}

// Ad is a promotional card served by the demo endpoint.
type Ad struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
