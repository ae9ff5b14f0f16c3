package dashboard

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/classboard/internal/domain"
	"github.com/mmcdole/classboard/internal/resource"
)

var errBoom = errors.New("boom")

func TestBoard_OneTilePerTypeInConfiguredOrder(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades, SourceExams, SourceLuckyNumber, SourceMessages)
	b := newTestBoard(view, sources, TypeExams, TypeAccount)
	p := successProviders()

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}

	assert.Equal(t, []TileType{TypeExams, TypeAccount, TypeHorizontalGroup, TypeGrades}, view.tileTypes())
	for i, tile := range view.tiles {
		for j := i + 1; j < len(view.tiles); j++ {
			assert.NotEqual(t, tile.Type(), view.tiles[j].Type())
		}
	}
}

func TestBoard_MergeOrderDoesNotMatter(t *testing.T) {
	sources := NewSourceSet(
		SourceAccount, SourceLuckyNumber, SourceMessages, SourceAttendance,
		SourceGrades, SourceHomework, SourceExams,
	)
	p := successProviders()
	p.Attendance = script(resource.Loading[[]domain.AttendanceSummary](), resource.Failure[[]domain.AttendanceSummary](errBoom))
	p.Exams = script(resource.Loading[[]domain.Exam](), resource.Failure[[]domain.Exam](errBoom))

	perSource := make([][]emission, 0, sources.Len())
	for _, id := range sources.IDs() {
		perSource = append(perSource, emissionsOf(p, id, false))
	}

	var want []Tile
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		view := &recordingView{}
		b := newTestBoard(view, sources)

		// interleave streams at random while keeping each stream in order
		next := make([]int, len(perSource))
		remaining := 0
		for _, ems := range perSource {
			remaining += len(ems)
		}
		for ; remaining > 0; remaining-- {
			for {
				i := rng.Intn(len(perSource))
				if next[i] < len(perSource[i]) {
					b.merge(perSource[i][next[i]])
					next[i]++
					break
				}
			}
		}

		if want == nil {
			want = view.tiles
			continue
		}
		require.Equal(t, want, view.tiles, "round %d", round)
	}
}

func TestBoard_HorizontalGroupMergesInAnyOrder(t *testing.T) {
	sources := NewSourceSet(SourceLuckyNumber, SourceMessages)
	p := successProviders()
	lucky := emissionsOf(p, SourceLuckyNumber, false)
	unread := emissionsOf(p, SourceMessages, false)

	first := &recordingView{}
	b := newTestBoard(first, sources)
	mergeAll(b, lucky)
	mergeAll(b, unread)

	second := &recordingView{}
	b = newTestBoard(second, sources)
	mergeAll(b, unread)
	mergeAll(b, lucky)

	require.Len(t, first.tiles, 1)
	assert.Equal(t, first.tiles, second.tiles)

	g := first.tiles[0].(HorizontalGroupTile)
	require.NotNil(t, g.LuckyNumber)
	require.NotNil(t, g.UnreadCount)
	assert.Equal(t, 7, g.LuckyNumber.Number)
	assert.Equal(t, 3, *g.UnreadCount)
	assert.Nil(t, g.AttendancePct)
	assert.True(t, g.DataLoaded())
	assert.False(t, g.Loading())
	assert.NoError(t, g.Err())
}

func TestBoard_HorizontalGroupPartialFailure(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceLuckyNumber, SourceMessages, SourceAttendance)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.Attendance = script(resource.Loading[[]domain.AttendanceSummary](), resource.Failure[[]domain.AttendanceSummary](errBoom))

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}

	require.Len(t, view.tiles, 1)
	g := view.tiles[0].(HorizontalGroupTile)
	assert.Equal(t, 7, g.LuckyNumber.Number)
	assert.Equal(t, 3, *g.UnreadCount)
	assert.Nil(t, g.AttendancePct)
	assert.NoError(t, g.Err())
	assert.False(t, g.Loading())
	assert.ErrorIs(t, g.FieldErr(FieldAttendance), errBoom)

	assert.True(t, view.content)
	assert.False(t, view.progress)
	assert.Contains(t, b.errorDetails(), "attendance")
}

func TestBoard_HorizontalGroupAllFailed(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceLuckyNumber, SourceMessages)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.LuckyNumber = script(resource.Failure[domain.LuckyNumber](errBoom))
	p.Messages = script(resource.Loading[[]domain.Message](), resource.Failure[[]domain.Message](errBoom))

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}

	_, group := view.tiles[0], view.tiles[1].(HorizontalGroupTile)
	assert.ErrorIs(t, group.Err(), errBoom)
	assert.False(t, group.Loading())
	// the only non-account tile failed
	assert.True(t, view.errorView)
	assert.False(t, view.content)
}

func TestBoard_RefreshDoesNotShowProgress(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades, SourceHomework)
	b := newTestBoard(view, sources)
	p := successProviders()

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	require.True(t, view.content)
	settled := view.tiles
	view.reset()

	b.beginCycle(true)
	assert.True(t, view.refresh)

	ids := sources.IDs()
	for i, id := range ids {
		ems := emissionsOf(p, id, true)
		require.Len(t, ems, 2)
		b.merge(ems[0])
		assert.Equal(t, settled, view.tiles, "forced LOADING must not touch tiles")
		b.merge(ems[1])
		if i < len(ids)-1 {
			assert.True(t, view.refresh, "refresh indicator cleared early")
		}
	}

	assert.Zero(t, view.count("progress", true))
	assert.False(t, view.refresh)
	assert.Equal(t, 1, view.count("refresh", false))
	assert.True(t, view.content)
}

func TestBoard_RefreshErrorKeepsPayload(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades)
	b := newTestBoard(view, sources)
	p := successProviders()
	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}

	p.Grades = script(resource.Loading[[]domain.Grade](), resource.Failure[[]domain.Grade](errBoom))
	b.beginCycle(true)
	mergeAll(b, emissionsOf(p, SourceAccount, true))
	mergeAll(b, emissionsOf(p, SourceGrades, true))

	grades := view.tiles[1].(GradesTile)
	assert.True(t, grades.DataLoaded())
	assert.NotEmpty(t, grades.Subjects)
	assert.ErrorIs(t, grades.Err(), errBoom)
	assert.False(t, view.errorView)
	assert.False(t, view.refresh)
}

func TestBoard_ErrorViewShownOnceWhenEverythingFailed(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades, SourceHomework, SourceExams, SourceMeetings)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.Grades = script(resource.Loading[[]domain.Grade](), resource.Failure[[]domain.Grade](errBoom))
	p.Homework = script(resource.Loading[[]domain.Homework](), resource.Failure[[]domain.Homework](errBoom))
	p.Exams = script(resource.Loading[[]domain.Exam](), resource.Failure[[]domain.Exam](errBoom))
	p.Meetings = script(resource.Loading[[]domain.Meeting](), resource.Failure[[]domain.Meeting](errBoom))

	ids := sources.IDs()
	for i, id := range ids {
		mergeAll(b, emissionsOf(p, id, false))
		if i < len(ids)-1 {
			assert.Zero(t, view.count("error", true), "error view before tile %d settled", len(ids))
		}
	}
	assert.Equal(t, 1, view.count("error", true))
	assert.False(t, view.content)
	assert.False(t, view.progress)

	// replaying a terminal emission does not re-trigger the error view
	mergeAll(b, emissionsOf(p, SourceMeetings, false)[1:])
	assert.Equal(t, 1, view.count("error", true))

	details := b.errorDetails()
	for _, name := range []string{"grades", "homework", "exams", "meetings"} {
		assert.Contains(t, details, name)
	}

	b.retry()
	assert.False(t, view.errorView)
	assert.True(t, view.progress)
}

func TestBoard_ReplayedSuccessKeepsTiles(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades, SourceExams)
	b := newTestBoard(view, sources)
	p := successProviders()
	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	before := view.tiles
	require.True(t, view.content)

	mergeAll(b, emissionsOf(p, SourceGrades, false)[1:])
	assert.Equal(t, before, view.tiles)
	assert.True(t, view.content)
	assert.False(t, view.progress)
	assert.Zero(t, view.count("error", true))
}

func TestBoard_RetryWaitsForEveryTileToAnswerAgain(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades, SourceHomework)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.Grades = script(resource.Loading[[]domain.Grade](), resource.Failure[[]domain.Grade](errBoom))
	p.Homework = script(resource.Loading[[]domain.Homework](), resource.Failure[[]domain.Homework](errBoom))

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	require.Equal(t, 1, view.count("error", true))

	b.retry()
	b.beginCycle(false)
	cached := Providers{Account: script(resource.LoadingWith(testStudent))}
	b.merge(emissionsOf(cached, SourceAccount, false)[0])

	assert.Equal(t, 1, view.count("error", true), "stale failures must not settle the new load")
	assert.True(t, view.progress)
	assert.False(t, view.errorView)
	assert.False(t, view.content)
	assert.Len(t, view.tiles, 3, "previous tiles stay on screen")

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	assert.Equal(t, 2, view.count("error", true))
	assert.False(t, view.progress)
}

func TestBoard_ReloadWaitsForGroupFields(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceLuckyNumber, SourceMessages)
	b := newTestBoard(view, sources)
	p := successProviders()
	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	require.True(t, view.content)

	b.beginCycle(false)
	mergeAll(b, emissionsOf(p, SourceAccount, false))
	mergeAll(b, emissionsOf(p, SourceLuckyNumber, false))
	assert.True(t, view.progress, "unread count has not answered yet")

	mergeAll(b, emissionsOf(p, SourceMessages, false))
	assert.False(t, view.progress)
	assert.True(t, view.content)
}

func TestBoard_AccountFailureIsGeneral(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.Account = script(resource.Loading[domain.Student](), resource.Failure[domain.Student](domain.ErrAuthFailed))

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	assert.True(t, view.errorView)
	assert.Contains(t, b.errorDetails(), "account")
}

func TestBoard_NoErrorViewForPartialFailure(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades, SourceExams)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.Exams = script(resource.Loading[[]domain.Exam](), resource.Failure[[]domain.Exam](errBoom))

	for _, id := range sources.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	assert.Zero(t, view.count("error", true))
	assert.True(t, view.content)
	assert.ErrorIs(t, view.tiles[2].Err(), errBoom)
}

func TestBoard_ProgressUntilSettled(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount, SourceGrades)
	b := newTestBoard(view, sources)
	p := successProviders()

	account := emissionsOf(p, SourceAccount, false)
	grades := emissionsOf(p, SourceGrades, false)

	b.merge(account[0])
	assert.True(t, view.progress)
	assert.False(t, view.content)
	b.merge(account[1])
	assert.True(t, view.progress, "grades has not arrived")
	b.merge(grades[0])
	assert.True(t, view.progress)
	b.merge(grades[1])
	assert.False(t, view.progress)
	assert.True(t, view.content)
}

func TestBoard_CachedDataSettlesFirstPaint(t *testing.T) {
	view := &recordingView{}
	sources := NewSourceSet(SourceAccount)
	b := newTestBoard(view, sources)
	p := successProviders()
	p.Account = script(resource.LoadingWith(testStudent), resource.Success(testStudent))

	ems := emissionsOf(p, SourceAccount, false)
	b.merge(ems[0])
	_, _, content, _, _ := view.snapshot()
	assert.True(t, content)
	assert.True(t, view.tiles[0].Loading())
	assert.True(t, view.tiles[0].DataLoaded())
}

func TestBoard_ConfigurePrunes(t *testing.T) {
	view := &recordingView{}
	all := NewSourceSet(SourceAccount, SourceGrades, SourceLuckyNumber, SourceMessages)
	b := newTestBoard(view, all)
	p := successProviders()
	for _, id := range all.IDs() {
		mergeAll(b, emissionsOf(p, id, false))
	}
	require.Len(t, view.tiles, 3)

	changed := b.configure(NewSourceSet(SourceAccount, SourceLuckyNumber), nil)
	assert.True(t, changed)
	b.publish()

	assert.Equal(t, []TileType{TypeAccount, TypeHorizontalGroup}, view.tileTypes())
	g := view.tiles[1].(HorizontalGroupTile)
	assert.Nil(t, g.UnreadCount)
	assert.NotNil(t, g.LuckyNumber)
	assert.True(t, g.DataLoaded())
	assert.Equal(t, 1, view.resets)

	assert.False(t, b.configure(NewSourceSet(SourceAccount, SourceMessages), nil))
}

func TestBoard_IgnoresUnconfiguredSources(t *testing.T) {
	view := &recordingView{}
	b := newTestBoard(view, NewSourceSet(SourceAccount))
	mergeAll(b, emissionsOf(successProviders(), SourceGrades, false))
	assert.Empty(t, view.calls)
}
