package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/classboard/internal/domain"
)

var fixedNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func newDemoClient(t *testing.T, opts Options) *Client {
	t.Helper()
	data, err := Demo()
	require.NoError(t, err)
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewClient(data, opts)
}

func TestDemo_Decodes(t *testing.T) {
	data, err := Demo()
	require.NoError(t, err)
	assert.Equal(t, "demo-1", data.Student.ID)
	assert.NotEmpty(t, data.Lessons)
	assert.NotEmpty(t, data.Grades)
}

func TestDecode_RequiresStudent(t *testing.T) {
	_, err := Decode([]byte(`[lucky_number]
number = 3
`))
	assert.ErrorContains(t, err, "no student id")
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.toml")
	err := os.WriteFile(path, []byte(`
[student]
id = "s-9"
name = "Ola"

[[grades]]
subject = "Art"
entry = "5"
value = 5.0
day = -1
`), 0o644)
	require.NoError(t, err)

	data, err := LoadFrom(path)
	require.NoError(t, err)

	c := NewClient(data, Options{Now: func() time.Time { return fixedNow }})
	ctx := context.Background()
	student, err := c.CurrentStudent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ola", student.Name)

	grades, err := c.Grades(ctx, student)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC), grades[0].Date)
}

func TestClient_TimetableRange(t *testing.T) {
	c := newDemoClient(t, Options{})
	ctx := context.Background()
	student, err := c.CurrentStudent(ctx)
	require.NoError(t, err)

	today := domain.DateOf(fixedNow)
	tt, err := c.Timetable(ctx, student, today, today)
	require.NoError(t, err)
	assert.Len(t, tt.Lessons, 4)
	assert.Equal(t, today.Add(8*time.Hour), tt.Lessons[0].Start)
	assert.Equal(t, today.Add(8*time.Hour+45*time.Minute), tt.Lessons[0].End)

	tt, err = c.Timetable(ctx, student, today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, tt.Lessons, 6)
}

func TestClient_InjectedFailure(t *testing.T) {
	c := newDemoClient(t, Options{Fail: []string{EndpointGrades}})
	ctx := context.Background()
	student, err := c.CurrentStudent(ctx)
	require.NoError(t, err)

	_, err = c.Grades(ctx, student)
	assert.ErrorIs(t, err, domain.ErrInjected)
	assert.Equal(t, 1, c.Calls(EndpointGrades))

	c.SetFailing(EndpointGrades, false)
	_, err = c.Grades(ctx, student)
	assert.NoError(t, err)
}

func TestClient_WrongStudent(t *testing.T) {
	c := newDemoClient(t, Options{})
	_, err := c.Meetings(context.Background(), domain.Student{ID: "someone-else"})
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestClient_LatencyHonorsContext(t *testing.T) {
	c := newDemoClient(t, Options{Latency: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Ads(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Messages(t *testing.T) {
	c := newDemoClient(t, Options{})
	ctx := context.Background()
	student, err := c.CurrentStudent(ctx)
	require.NoError(t, err)

	received, err := c.Messages(ctx, student, domain.FolderReceived)
	require.NoError(t, err)
	assert.Len(t, received, 3)
	assert.Equal(t, 2, domain.UnreadCount(received))
}
