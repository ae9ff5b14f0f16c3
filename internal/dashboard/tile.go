package dashboard

import (
	"errors"
	"fmt"

	"github.com/mmcdole/classboard/internal/domain"
)

// Tile is one card on the dashboard. The set of variants is closed: every
// TileType has exactly one implementation in this package, and consumers
// dispatch on it through Accept.
type Tile interface {
	Type() TileType
	Err() error
	Loading() bool

	// DataLoaded reports whether the tile holds a payload, cached or fresh.
	DataLoaded() bool

	Accept(v Visitor)

	// settled reports whether the tile needs no further emission this cycle.
	settled() bool

	// withRefreshError keeps the payload and records err.
	withRefreshError(err error) Tile

	// problems lists every error the tile carries, including ones it
	// does not surface through Err.
	problems() []error
}

// Visitor handles each tile variant. Adding a variant breaks every
// implementation until it handles the new case.
type Visitor interface {
	VisitAccount(AccountTile)
	VisitHorizontalGroup(HorizontalGroupTile)
	VisitLessons(LessonsTile)
	VisitGrades(GradesTile)
	VisitHomework(HomeworkTile)
	VisitAnnouncements(AnnouncementsTile)
	VisitExams(ExamsTile)
	VisitMeetings(MeetingsTile)
	VisitAds(AdsTile)
}

// TileState is the status shared by every variant.
type TileState struct {
	Error     error
	IsLoading bool

	// Populated is true once the tile carries a payload.
	Populated bool
}

func (s TileState) Err() error       { return s.Error }
func (s TileState) Loading() bool    { return s.IsLoading }
func (s TileState) DataLoaded() bool { return s.Populated }
func (s TileState) settled() bool    { return s.Populated || s.Error != nil }

func (s TileState) problems() []error {
	if s.Error == nil {
		return nil
	}
	return []error{s.Error}
}

func (s TileState) refreshFailed(err error) TileState {
	s.Error = err
	s.IsLoading = false
	return s
}

// failed reports a tile that errored without anything to show.
func failed(t Tile) bool {
	return t.Err() != nil && !t.DataLoaded()
}

type AccountTile struct {
	TileState
	Student *domain.Student
}

func (AccountTile) Type() TileType     { return TypeAccount }
func (t AccountTile) Accept(v Visitor) { v.VisitAccount(t) }
func (t AccountTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

type LessonsTile struct {
	TileState
	Timetable *domain.Timetable
}

func (LessonsTile) Type() TileType     { return TypeLessons }
func (t LessonsTile) Accept(v Visitor) { v.VisitLessons(t) }
func (t LessonsTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

// SubjectGrades is the recent grades of one subject.
type SubjectGrades struct {
	Subject string
	Grades  []domain.Grade
}

type GradesTile struct {
	TileState
	Subjects   []SubjectGrades
	ColorTheme string
}

func (GradesTile) Type() TileType     { return TypeGrades }
func (t GradesTile) Accept(v Visitor) { v.VisitGrades(t) }
func (t GradesTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

type HomeworkTile struct {
	TileState
	Items []domain.Homework
}

func (HomeworkTile) Type() TileType     { return TypeHomework }
func (t HomeworkTile) Accept(v Visitor) { v.VisitHomework(t) }
func (t HomeworkTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

type AnnouncementsTile struct {
	TileState
	Items []domain.Announcement
}

func (AnnouncementsTile) Type() TileType     { return TypeAnnouncements }
func (t AnnouncementsTile) Accept(v Visitor) { v.VisitAnnouncements(t) }
func (t AnnouncementsTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

type ExamsTile struct {
	TileState
	Items []domain.Exam
}

func (ExamsTile) Type() TileType     { return TypeExams }
func (t ExamsTile) Accept(v Visitor) { v.VisitExams(t) }
func (t ExamsTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

type MeetingsTile struct {
	TileState
	Items []domain.Meeting
}

func (MeetingsTile) Type() TileType     { return TypeMeetings }
func (t MeetingsTile) Accept(v Visitor) { v.VisitMeetings(t) }
func (t MeetingsTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

type AdsTile struct {
	TileState
	Items []domain.Ad
}

func (AdsTile) Type() TileType     { return TypeAds }
func (t AdsTile) Accept(v Visitor) { v.VisitAds(t) }
func (t AdsTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

// HorizontalGroupTile merges three small sources into one row. A nil field
// has not arrived yet. The group only reports an error when none of its
// fields could be shown.
type HorizontalGroupTile struct {
	TileState
	UnreadCount   *int
	AttendancePct *float64
	LuckyNumber   *domain.LuckyNumber

	// Want is the set of configured sub-fields.
	Want GroupField

	resolved GroupField
	failures map[GroupField]error
}

func (HorizontalGroupTile) Type() TileType     { return TypeHorizontalGroup }
func (t HorizontalGroupTile) Accept(v Visitor) { v.VisitHorizontalGroup(t) }

// DataLoaded is true once every configured sub-field holds a value.
func (t HorizontalGroupTile) DataLoaded() bool {
	return t.Want != 0 && t.present()&t.Want == t.Want
}

func (t HorizontalGroupTile) settled() bool {
	return t.DataLoaded() || t.Want&^t.resolved == 0
}

func (t HorizontalGroupTile) withRefreshError(err error) Tile {
	t.TileState = t.TileState.refreshFailed(err)
	return t
}

// FieldErr returns the failure recorded for one sub-field in this cycle.
func (t HorizontalGroupTile) FieldErr(f GroupField) error {
	return t.failures[f]
}

func (t HorizontalGroupTile) problems() []error {
	var errs []error
	for _, f := range t.Want.fields() {
		if err := t.failures[f]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
		}
	}
	if len(errs) == 0 && t.Error != nil {
		errs = append(errs, t.Error)
	}
	return errs
}

func (t HorizontalGroupTile) present() GroupField {
	var p GroupField
	if t.LuckyNumber != nil {
		p |= FieldLuckyNumber
	}
	if t.UnreadCount != nil {
		p |= FieldUnreadCount
	}
	if t.AttendancePct != nil {
		p |= FieldAttendance
	}
	return p
}

func newHorizontalGroup(want GroupField) HorizontalGroupTile {
	g := HorizontalGroupTile{Want: want}
	return g.recompute()
}

// groupUpdate is one sub-field emission.
type groupUpdate struct {
	field    GroupField
	terminal bool
	set      func(*HorizontalGroupTile) // nil when the emission carries no data
	err      error
}

// apply folds u into a copy of the group. Values from a LOADING with data
// and from SUCCESS are written; a failure is remembered per field and
// leaves earlier values in place.
func (t HorizontalGroupTile) apply(u groupUpdate) HorizontalGroupTile {
	if u.field&t.Want == 0 {
		return t
	}
	if u.set != nil {
		u.set(&t)
	}
	if u.terminal {
		t.resolved |= u.field
		t.failures = withFailure(t.failures, u.field, u.err)
	}
	return t.recompute()
}

// restrict drops the sub-fields that are no longer configured.
func (t HorizontalGroupTile) restrict(want GroupField) HorizontalGroupTile {
	t.Want = want
	if want&FieldLuckyNumber == 0 {
		t.LuckyNumber = nil
	}
	if want&FieldUnreadCount == 0 {
		t.UnreadCount = nil
	}
	if want&FieldAttendance == 0 {
		t.AttendancePct = nil
	}
	t.resolved &= want
	for f := range t.failures {
		if want&f == 0 {
			t.failures = withFailure(t.failures, f, nil)
		}
	}
	return t.recompute()
}

// restart forgets what the previous cycle resolved.
func (t HorizontalGroupTile) restart() HorizontalGroupTile {
	t.resolved = 0
	t.failures = nil
	return t.recompute()
}

func (t HorizontalGroupTile) recompute() HorizontalGroupTile {
	t.Populated = t.DataLoaded()
	t.Error = nil
	if t.present()&t.Want == 0 && len(t.failures) > 0 {
		t.Error = errors.Join(t.problems()...)
	}
	t.IsLoading = !t.settled() && t.Error == nil
	return t
}

// withFailure returns a copy of m with f set to err, or removed when err is nil.
func withFailure(m map[GroupField]error, f GroupField, err error) map[GroupField]error {
	if err == nil && m[f] == nil {
		return m
	}
	out := make(map[GroupField]error, len(m)+1)
	for k, v := range m {
		if k != f {
			out[k] = v
		}
	}
	if err != nil {
		out[f] = err
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// tilePrototypes holds one zero value per variant, indexed by type.
var tilePrototypes = [...]Tile{
	TypeAccount:         AccountTile{},
	TypeHorizontalGroup: HorizontalGroupTile{},
	TypeLessons:         LessonsTile{},
	TypeGrades:          GradesTile{},
	TypeHomework:        HomeworkTile{},
	TypeAnnouncements:   AnnouncementsTile{},
	TypeExams:           ExamsTile{},
	TypeMeetings:        MeetingsTile{},
	TypeAds:             AdsTile{},
}

// A TileType without a variant fails to compile here.
var (
	_ [len(tilePrototypes) - int(tileTypeCount)]struct{}
	_ [int(tileTypeCount) - len(tilePrototypes)]struct{}
)
