// Package provider builds one cached-then-fetched stream per data source on
// top of the register client and the local cache.
package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/classboard/internal/dashboard"
	"github.com/mmcdole/classboard/internal/domain"
	"github.com/mmcdole/classboard/internal/resource"
)

const (
	examDays     = 7
	homeworkDays = 7
)

// Client is everything the dashboard reads from the register.
type Client interface {
	domain.RegisterClient
	domain.AdsClient
}

type Options struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// Set owns the session shared by every source it builds.
type Set struct {
	client  Client
	cache   domain.Cache
	session *session
	now     func() time.Time
	logger  *slog.Logger
}

func New(client Client, cache domain.Cache, opts Options) *Set {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Set{
		client:  client,
		cache:   cache,
		session: &session{client: client, cache: cache, logger: logger},
		now:     now,
		logger:  logger,
	}
}

// Providers binds every data source of the dashboard.
func (s *Set) Providers() dashboard.Providers {
	return dashboard.Providers{
		Account: resource.NetworkBound[domain.Student]{
			Name:   dashboard.SourceAccount.String(),
			Query:  s.session.cached,
			Fetch:  s.client.CurrentStudent,
			Save:   s.session.save,
			Logger: s.logger,
		},
		LuckyNumber: scoped(s, dashboard.SourceLuckyNumber, s.client.LuckyNumber),
		Messages: scoped(s, dashboard.SourceMessages, func(ctx context.Context, st domain.Student) ([]domain.Message, error) {
			return s.client.Messages(ctx, st, domain.FolderReceived)
		}),
		Attendance: scoped(s, dashboard.SourceAttendance, s.client.AttendanceSummary),
		Lessons: scoped(s, dashboard.SourceLessons, func(ctx context.Context, st domain.Student) (domain.Timetable, error) {
			today := domain.DateOf(s.now())
			return s.client.Timetable(ctx, st, today, today.AddDate(0, 0, 1))
		}),
		Grades: scoped(s, dashboard.SourceGrades, s.client.Grades),
		Homework: scoped(s, dashboard.SourceHomework, func(ctx context.Context, st domain.Student) ([]domain.Homework, error) {
			start := domain.NextOrSameSchoolDay(s.now())
			return s.client.Homework(ctx, st, start, start.AddDate(0, 0, homeworkDays))
		}),
		Announcements: scoped(s, dashboard.SourceAnnouncements, s.client.Announcements),
		Exams: scoped(s, dashboard.SourceExams, func(ctx context.Context, st domain.Student) ([]domain.Exam, error) {
			today := domain.DateOf(s.now())
			return s.client.Exams(ctx, st, today, today.AddDate(0, 0, examDays))
		}),
		Meetings: scoped(s, dashboard.SourceMeetings, s.client.Meetings),
		Ads: resource.NetworkBound[[]domain.Ad]{
			Name: dashboard.SourceAds.String(),
			Query: func() ([]domain.Ad, bool) {
				var ads []domain.Ad
				ok := s.cache.Get(KeyAds, &ads)
				return ads, ok
			},
			Fetch:  s.client.Ads,
			Save:   func(ads []domain.Ad) error { return s.cache.Put(KeyAds, ads) },
			Logger: s.logger,
		},
	}
}

// Forget drops every cached entry of one student, including the session.
func (s *Set) Forget(studentID string) {
	for _, prefix := range StudentPrefixes(studentID) {
		s.cache.InvalidatePrefix(prefix)
	}
	if st, ok := s.session.cached(); ok && st.ID == studentID {
		s.session.clear()
	}
}

// scoped builds a source whose data belongs to the current student. The
// cache is only consulted once the student is known.
func scoped[T any](s *Set, id dashboard.DataSourceID, fetch func(context.Context, domain.Student) (T, error)) resource.Source[T] {
	return resource.NetworkBound[T]{
		Name: id.String(),
		Query: func() (T, bool) {
			var v T
			st, ok := s.session.cached()
			if !ok {
				return v, false
			}
			ok = s.cache.Get(cacheKey(id, st.ID), &v)
			return v, ok
		},
		Fetch: func(ctx context.Context) (T, error) {
			st, err := s.session.current(ctx)
			if err != nil {
				var zero T
				return zero, err
			}
			return fetch(ctx, st)
		},
		Save: func(v T) error {
			st, ok := s.session.cached()
			if !ok {
				return nil
			}
			return s.cache.Put(cacheKey(id, st.ID), v)
		},
		Logger: s.logger,
	}
}
