// Package fixture implements the register client against a local TOML file.
// It backs the demo mode and the tests, and can inject latency and failures
// per endpoint.
package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/classboard/internal/domain"
)

// Endpoint names accepted by Options.Fail
const (
	EndpointStudent       = "student"
	EndpointLuckyNumber   = "lucky_number"
	EndpointMessages      = "messages"
	EndpointAttendance    = "attendance"
	EndpointTimetable     = "lessons"
	EndpointGrades        = "grades"
	EndpointHomework      = "homework"
	EndpointAnnouncements = "announcements"
	EndpointExams         = "exams"
	EndpointMeetings      = "meetings"
	EndpointAds           = "ads"
)

var endpoints = []string{
	EndpointStudent, EndpointLuckyNumber, EndpointMessages, EndpointAttendance,
	EndpointTimetable, EndpointGrades, EndpointHomework, EndpointAnnouncements,
	EndpointExams, EndpointMeetings, EndpointAds,
}

// Endpoints lists every endpoint name in a stable order.
func Endpoints() []string {
	return append([]string(nil), endpoints...)
}

type Options struct {
	// Latency is the base delay of every call. Endpoints are staggered
	// around it so results arrive in a mixed order.
	Latency time.Duration
	Fail    []string
	Now     func() time.Time
	Logger  *slog.Logger
}

// Client implements domain.RegisterClient and domain.AdsClient.
type Client struct {
	data   *File
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func NewClient(data *File, opts Options) *Client {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{data: data, opts: opts, logger: logger, fail: make(map[string]bool), calls: make(map[string]int)}
	for _, name := range opts.Fail {
		c.fail[name] = true
	}
	return c
}

// SetFailing toggles injected failure for one endpoint.
func (c *Client) SetFailing(endpoint string, failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[endpoint] = failing
}

// Calls reports how many times an endpoint was hit.
func (c *Client) Calls(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[endpoint]
}

func (c *Client) call(ctx context.Context, endpoint string) error {
	c.mu.Lock()
	c.calls[endpoint]++
	failing := c.fail[endpoint]
	c.mu.Unlock()

	if c.opts.Latency > 0 {
		delay := c.opts.Latency + time.Duration(stagger(endpoint))*c.opts.Latency/4
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failing {
		c.logger.Debug("injecting failure", "endpoint", endpoint)
		return fmt.Errorf("%s: %w", endpoint, domain.ErrInjected)
	}
	return nil
}

func stagger(endpoint string) int {
	for i, e := range endpoints {
		if e == endpoint {
			return i % 4
		}
	}
	return 0
}

func (c *Client) today() time.Time {
	return domain.DateOf(c.opts.Now())
}

func (c *Client) checkStudent(student domain.Student) error {
	if student.ID != c.data.Student.ID {
		return fmt.Errorf("student %s: %w", student.ID, domain.ErrAuthFailed)
	}
	return nil
}

func (c *Client) CurrentStudent(ctx context.Context) (domain.Student, error) {
	if err := c.call(ctx, EndpointStudent); err != nil {
		return domain.Student{}, err
	}
	return c.data.Student.toDomain(), nil
}

func (c *Client) LuckyNumber(ctx context.Context, student domain.Student) (domain.LuckyNumber, error) {
	if err := c.call(ctx, EndpointLuckyNumber); err != nil {
		return domain.LuckyNumber{}, err
	}
	if err := c.checkStudent(student); err != nil {
		return domain.LuckyNumber{}, err
	}
	if c.data.LuckyNumber.Number == 0 {
		return domain.LuckyNumber{}, fmt.Errorf("lucky number: %w", domain.ErrNotFound)
	}
	return domain.LuckyNumber{Number: c.data.LuckyNumber.Number, Date: c.today()}, nil
}

func (c *Client) Messages(ctx context.Context, student domain.Student, folder domain.MessageFolder) ([]domain.Message, error) {
	if err := c.call(ctx, EndpointMessages); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	today := c.today()
	var out []domain.Message
	for i, r := range c.data.Messages {
		if domain.MessageFolder(r.Folder) != folder {
			continue
		}
		out = append(out, domain.Message{
			ID:      fmt.Sprintf("m%d", i+1),
			Subject: r.Subject,
			Sender:  r.Sender,
			Folder:  folder,
			Unread:  r.Unread,
			Date:    today.AddDate(0, 0, r.Day),
		})
	}
	return out, nil
}

func (c *Client) AttendanceSummary(ctx context.Context, student domain.Student) ([]domain.AttendanceSummary, error) {
	if err := c.call(ctx, EndpointAttendance); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	out := make([]domain.AttendanceSummary, 0, len(c.data.Attendance))
	for _, r := range c.data.Attendance {
		out = append(out, domain.AttendanceSummary{
			Month:                   time.Month(r.Month),
			Presence:                r.Presence,
			Absence:                 r.Absence,
			AbsenceExcused:          r.AbsenceExcused,
			AbsenceForSchoolReasons: r.AbsenceForSchoolReasons,
			Lateness:                r.Lateness,
			LatenessExcused:         r.LatenessExcused,
			Exemption:               r.Exemption,
		})
	}
	return out, nil
}

func (c *Client) Timetable(ctx context.Context, student domain.Student, start, end time.Time) (domain.Timetable, error) {
	if err := c.call(ctx, EndpointTimetable); err != nil {
		return domain.Timetable{}, err
	}
	if err := c.checkStudent(student); err != nil {
		return domain.Timetable{}, err
	}
	today := c.today()
	var tt domain.Timetable
	for _, r := range c.data.Lessons {
		begin, err := at(today, r.Day, r.Start)
		if err != nil {
			return domain.Timetable{}, fmt.Errorf("lesson %d: %w", r.Number, err)
		}
		if !inRange(begin, start, end) {
			continue
		}
		tt.Lessons = append(tt.Lessons, domain.Lesson{
			Number:   r.Number,
			Start:    begin,
			End:      begin.Add(time.Duration(r.Minutes) * time.Minute),
			Subject:  r.Subject,
			Room:     r.Room,
			Teacher:  r.Teacher,
			Canceled: r.Canceled,
		})
	}
	sort.SliceStable(tt.Lessons, func(i, j int) bool {
		return tt.Lessons[i].Start.Before(tt.Lessons[j].Start)
	})
	return tt, nil
}

func (c *Client) Grades(ctx context.Context, student domain.Student) ([]domain.Grade, error) {
	if err := c.call(ctx, EndpointGrades); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	today := c.today()
	out := make([]domain.Grade, 0, len(c.data.Grades))
	for _, r := range c.data.Grades {
		out = append(out, domain.Grade{
			Subject:     r.Subject,
			Entry:       r.Entry,
			Value:       r.Value,
			Weight:      r.Weight,
			Description: r.Description,
			Date:        today.AddDate(0, 0, r.Day),
		})
	}
	return out, nil
}

func (c *Client) Homework(ctx context.Context, student domain.Student, start, end time.Time) ([]domain.Homework, error) {
	if err := c.call(ctx, EndpointHomework); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	today := c.today()
	var out []domain.Homework
	for _, r := range c.data.Homework {
		date := today.AddDate(0, 0, r.Day)
		if !inRange(date, start, end) {
			continue
		}
		out = append(out, domain.Homework{Subject: r.Subject, Content: r.Content, Teacher: r.Teacher, Date: date, Done: r.Done})
	}
	return out, nil
}

func (c *Client) Announcements(ctx context.Context, student domain.Student) ([]domain.Announcement, error) {
	if err := c.call(ctx, EndpointAnnouncements); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	today := c.today()
	out := make([]domain.Announcement, 0, len(c.data.Announcements))
	for _, r := range c.data.Announcements {
		out = append(out, domain.Announcement{Subject: r.Subject, Content: r.Content, Author: r.Author, Date: today.AddDate(0, 0, r.Day)})
	}
	return out, nil
}

func (c *Client) Exams(ctx context.Context, student domain.Student, start, end time.Time) ([]domain.Exam, error) {
	if err := c.call(ctx, EndpointExams); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	today := c.today()
	var out []domain.Exam
	for _, r := range c.data.Exams {
		date := today.AddDate(0, 0, r.Day)
		if !inRange(date, start, end) {
			continue
		}
		out = append(out, domain.Exam{Subject: r.Subject, Type: r.Type, Description: r.Description, Date: date})
	}
	return out, nil
}

func (c *Client) Meetings(ctx context.Context, student domain.Student) ([]domain.Meeting, error) {
	if err := c.call(ctx, EndpointMeetings); err != nil {
		return nil, err
	}
	if err := c.checkStudent(student); err != nil {
		return nil, err
	}
	today := c.today()
	out := make([]domain.Meeting, 0, len(c.data.Meetings))
	for _, r := range c.data.Meetings {
		date, err := at(today, r.Day, r.Time)
		if err != nil {
			return nil, fmt.Errorf("meeting %q: %w", r.Title, err)
		}
		out = append(out, domain.Meeting{Title: r.Title, Topic: r.Topic, Place: r.Place, Date: date})
	}
	return out, nil
}

func (c *Client) Ads(ctx context.Context) ([]domain.Ad, error) {
	if err := c.call(ctx, EndpointAds); err != nil {
		return nil, err
	}
	out := make([]domain.Ad, 0, len(c.data.Ads))
	for _, r := range c.data.Ads {
		out = append(out, domain.Ad{Title: r.Title, URL: r.URL})
	}
	return out, nil
}

// inRange compares calendar days, both bounds inclusive.
func inRange(t, start, end time.Time) bool {
	day := domain.DateOf(t)
	return !day.Before(domain.DateOf(start)) && !day.After(domain.DateOf(end))
}
