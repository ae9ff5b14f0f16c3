package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/mmcdole/classboard/internal/domain"
	"github.com/mmcdole/classboard/internal/resource"
)

// Providers binds every data source to its stream. A nil source fails with
// domain.ErrUnknownSource when configured.
type Providers struct {
	Account       resource.Source[domain.Student]
	LuckyNumber   resource.Source[domain.LuckyNumber]
	Messages      resource.Source[[]domain.Message]
	Attendance    resource.Source[[]domain.AttendanceSummary]
	Lessons       resource.Source[domain.Timetable]
	Grades        resource.Source[[]domain.Grade]
	Homework      resource.Source[[]domain.Homework]
	Announcements resource.Source[[]domain.Announcement]
	Exams         resource.Source[[]domain.Exam]
	Meetings      resource.Source[[]domain.Meeting]
	Ads           resource.Source[[]domain.Ad]
}

// errStreamEnded marks a stream that closed before a terminal value.
var errStreamEnded = errors.New("unexpected end of stream")

// binding subscribes to one source and reports each value through emit.
type binding func(ctx context.Context, force bool, emit func(emission))

func bindTile[T any](src resource.Source[T], build func(resource.Resource[T]) Tile) binding {
	return func(ctx context.Context, force bool, emit func(emission)) {
		for r := range src.Observe(ctx, force) {
			emit(emission{status: r.Status, tile: build(r), err: r.Err})
			if r.Status.Terminal() {
				return
			}
		}
		if ctx.Err() == nil {
			emit(emission{status: resource.StatusError, tile: build(resource.Failure[T](errStreamEnded)), err: errStreamEnded})
		}
	}
}

func bindField[T any](src resource.Source[T], field GroupField, set func(*HorizontalGroupTile, T)) binding {
	return func(ctx context.Context, force bool, emit func(emission)) {
		for r := range src.Observe(ctx, force) {
			u := groupUpdate{field: field, terminal: r.Status.Terminal(), err: r.Err}
			if r.HasData {
				data := r.Data
				u.set = func(g *HorizontalGroupTile) { set(g, data) }
			}
			emit(emission{status: r.Status, group: u, err: r.Err})
			if r.Status.Terminal() {
				return
			}
		}
		if ctx.Err() == nil {
			u := groupUpdate{field: field, terminal: true, err: errStreamEnded}
			emit(emission{status: resource.StatusError, group: u, err: errStreamEnded})
		}
	}
}

func orFail[T any](src resource.Source[T]) resource.Source[T] {
	if src == nil {
		return resource.Fail[T](domain.ErrUnknownSource)
	}
	return src
}

func stateOf[T any](r resource.Resource[T]) TileState {
	return TileState{
		Error:     r.Err,
		IsLoading: r.Status == resource.StatusLoading,
		Populated: r.HasData,
	}
}

// bindAll builds the binding of every source. now and theme are captured
// for the payload shaping of this cycle.
func bindAll(p Providers, now func() time.Time, theme string) [sourceCount]binding {
	return [sourceCount]binding{
		SourceAccount: bindTile(orFail(p.Account), func(r resource.Resource[domain.Student]) Tile {
			t := AccountTile{TileState: stateOf(r)}
			if r.HasData {
				s := r.Data
				t.Student = &s
			}
			return t
		}),
		SourceLuckyNumber: bindField(orFail(p.LuckyNumber), FieldLuckyNumber, func(g *HorizontalGroupTile, v domain.LuckyNumber) {
			g.LuckyNumber = &v
		}),
		SourceMessages: bindField(orFail(p.Messages), FieldUnreadCount, func(g *HorizontalGroupTile, v []domain.Message) {
			n := domain.UnreadCount(v)
			g.UnreadCount = &n
		}),
		SourceAttendance: bindField(orFail(p.Attendance), FieldAttendance, func(g *HorizontalGroupTile, v []domain.AttendanceSummary) {
			pct := domain.AttendancePercentage(v)
			g.AttendancePct = &pct
		}),
		SourceLessons: bindTile(orFail(p.Lessons), func(r resource.Resource[domain.Timetable]) Tile {
			t := LessonsTile{TileState: stateOf(r)}
			if r.HasData {
				tt := r.Data
				t.Timetable = &tt
			}
			return t
		}),
		SourceGrades: bindTile(orFail(p.Grades), func(r resource.Resource[[]domain.Grade]) Tile {
			t := GradesTile{TileState: stateOf(r), ColorTheme: theme}
			if r.HasData {
				t.Subjects = RecentGrades(r.Data, now())
			}
			return t
		}),
		SourceHomework: bindTile(orFail(p.Homework), func(r resource.Resource[[]domain.Homework]) Tile {
			t := HomeworkTile{TileState: stateOf(r)}
			if r.HasData {
				t.Items = PendingHomework(r.Data, now())
			}
			return t
		}),
		SourceAnnouncements: bindTile(orFail(p.Announcements), func(r resource.Resource[[]domain.Announcement]) Tile {
			return AnnouncementsTile{TileState: stateOf(r), Items: r.Data}
		}),
		SourceExams: bindTile(orFail(p.Exams), func(r resource.Resource[[]domain.Exam]) Tile {
			return ExamsTile{TileState: stateOf(r), Items: r.Data}
		}),
		SourceMeetings: bindTile(orFail(p.Meetings), func(r resource.Resource[[]domain.Meeting]) Tile {
			t := MeetingsTile{TileState: stateOf(r)}
			if r.HasData {
				t.Items = UpcomingMeetings(r.Data, now())
			}
			return t
		}),
		SourceAds: bindTile(orFail(p.Ads), func(r resource.Resource[[]domain.Ad]) Tile {
			return AdsTile{TileState: stateOf(r), Items: r.Data}
		}),
	}
}
