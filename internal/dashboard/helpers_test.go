package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/classboard/internal/domain"
	"github.com/mmcdole/classboard/internal/resource"
)

var testNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type viewCall struct {
	name string
	show bool
}

// recordingView captures every call the orchestrator makes.
type recordingView struct {
	mu        sync.Mutex
	calls     []viewCall
	tiles     []Tile
	progress  bool
	content   bool
	refresh   bool
	errorView bool
	details   string
	resets    int
}

func (v *recordingView) record(name string, show bool) {
	v.calls = append(v.calls, viewCall{name, show})
}

func (v *recordingView) UpdateData(tiles []Tile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tiles = tiles
	v.record("update", true)
}

func (v *recordingView) ShowProgress(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = show
	v.record("progress", show)
}

func (v *recordingView) ShowContent(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.content = show
	v.record("content", show)
}

func (v *recordingView) ShowRefreshIndicator(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh = show
	v.record("refresh", show)
}

func (v *recordingView) ShowErrorView(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorView = show
	v.record("error", show)
}

func (v *recordingView) SetErrorDetails(details string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.details = details
	v.record("details", true)
}

func (v *recordingView) ResetScrollPosition() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resets++
	v.record("reset", true)
}

func (v *recordingView) count(name string, show bool) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, c := range v.calls {
		if c.name == name && c.show == show {
			n++
		}
	}
	return n
}

func (v *recordingView) snapshot() (tiles []Tile, progress, content, refresh, errorView bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tiles, v.progress, v.content, v.refresh, v.errorView
}

func (v *recordingView) tileTypes() []TileType {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]TileType, len(v.tiles))
	for i, t := range v.tiles {
		out[i] = t.Type()
	}
	return out
}

func (v *recordingView) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = nil
}

// script returns a source whose every stream replays rs.
func script[T any](rs ...resource.Resource[T]) resource.Source[T] {
	return resource.SourceFunc[T](func(context.Context, bool) <-chan resource.Resource[T] {
		ch := make(chan resource.Resource[T], len(rs))
		for _, r := range rs {
			ch <- r
		}
		close(ch)
		return ch
	})
}

// gated returns a source that emits LOADING and then waits for a value on
// release. Every subscription records its force flag.
type gated[T any] struct {
	mu      sync.Mutex
	release chan resource.Resource[T]
	forces  []bool
}

func newGated[T any]() *gated[T] {
	return &gated[T]{release: make(chan resource.Resource[T])}
}

func (g *gated[T]) Observe(ctx context.Context, force bool) <-chan resource.Resource[T] {
	g.mu.Lock()
	g.forces = append(g.forces, force)
	g.mu.Unlock()

	out := make(chan resource.Resource[T], 1)
	out <- resource.Loading[T]()
	go func() {
		defer close(out)
		select {
		case r := <-g.release:
			select {
			case out <- r:
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
	}()
	return out
}

func (g *gated[T]) subscriptions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.forces)
}

type staticPrefs struct {
	mu      sync.Mutex
	sources SourceSet
	order   []TileType
	theme   string
}

func (p *staticPrefs) ConfiguredSources() SourceSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sources
}

func (p *staticPrefs) TileOrder() []TileType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.order
}

func (p *staticPrefs) GradeColorTheme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

func (p *staticPrefs) set(sources SourceSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources = sources
}

var (
	testStudent = domain.Student{ID: "s1", Name: "Jan Kowalski", ClassName: "3b"}
	testGrades  = []domain.Grade{
		{Subject: "Math", Entry: "5", Value: 5, Date: testNow.AddDate(0, 0, -1)},
		{Subject: "Art", Entry: "4", Value: 4, Date: testNow.AddDate(0, 0, -2)},
	}
	testMessages = []domain.Message{
		{Folder: domain.FolderReceived, Unread: true},
		{Folder: domain.FolderReceived, Unread: true},
		{Folder: domain.FolderReceived, Unread: true},
	}
	testAttendance = []domain.AttendanceSummary{{Presence: 9, Absence: 1}}
	testHomework   = []domain.Homework{{Subject: "Math", Content: "p. 12", Date: testNow.AddDate(0, 0, 1)}}
	testExams      = []domain.Exam{{Subject: "Physics", Type: "Test", Date: testNow.AddDate(0, 0, 2)}}
)

// successProviders answers every source with LOADING followed by SUCCESS.
func successProviders() Providers {
	return Providers{
		Account:       script(resource.Loading[domain.Student](), resource.Success(testStudent)),
		LuckyNumber:   script(resource.Loading[domain.LuckyNumber](), resource.Success(domain.LuckyNumber{Number: 7})),
		Messages:      script(resource.Loading[[]domain.Message](), resource.Success(testMessages)),
		Attendance:    script(resource.Loading[[]domain.AttendanceSummary](), resource.Success(testAttendance)),
		Lessons:       script(resource.Loading[domain.Timetable](), resource.Success(domain.Timetable{})),
		Grades:        script(resource.Loading[[]domain.Grade](), resource.Success(testGrades)),
		Homework:      script(resource.Loading[[]domain.Homework](), resource.Success(testHomework)),
		Announcements: script(resource.Loading[[]domain.Announcement](), resource.Success([]domain.Announcement{})),
		Exams:         script(resource.Loading[[]domain.Exam](), resource.Success(testExams)),
		Meetings:      script(resource.Loading[[]domain.Meeting](), resource.Success([]domain.Meeting{})),
		Ads:           script(resource.Loading[[]domain.Ad](), resource.Success([]domain.Ad{})),
	}
}

// emissionsOf runs the binding of id synchronously and returns what it emitted.
func emissionsOf(p Providers, id DataSourceID, force bool) []emission {
	bind := bindAll(p, testClock, "classic")[id]
	var out []emission
	bind(context.Background(), force, func(em emission) {
		em.source = id
		em.force = force
		out = append(out, em)
	})
	return out
}

func newTestBoard(view View, sources SourceSet, order ...TileType) *board {
	b := newBoard(view, discardLogger())
	b.configure(sources, order)
	return b
}

func mergeAll(b *board, ems []emission) {
	for _, em := range ems {
		b.merge(em)
	}
}
