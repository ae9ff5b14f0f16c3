package tui

import (
	"bytes"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/classboard/internal/dashboard"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func TestProgramView_Messages(t *testing.T) {
	s := &recordingSender{}
	v := NewProgramView(s)

	tiles := []dashboard.Tile{dashboard.AccountTile{}}
	v.UpdateData(tiles)
	v.ShowProgress(true)
	v.ShowContent(false)
	v.ShowRefreshIndicator(true)
	v.ShowErrorView(true)
	v.SetErrorDetails("boom")
	v.ResetScrollPosition()

	require.Len(t, s.msgs, 7)
	assert.Equal(t, []tea.Msg{
		TilesMsg{Tiles: tiles},
		ProgressMsg{Show: true},
		ContentMsg{Show: false},
		RefreshIndicatorMsg{Show: true},
		ErrorViewMsg{Show: true},
		ErrorDetailsMsg{Details: "boom"},
		ResetScrollMsg{},
	}, s.msgs)

	tiles[0] = dashboard.AdsTile{}
	assert.Equal(t, dashboard.TypeAccount, s.msgs[0].(TilesMsg).Tiles[0].Type(), "slice must be copied")
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestPlainView_DoneWhenSettled(t *testing.T) {
	v := NewPlainView()

	v.UpdateData([]dashboard.Tile{
		dashboard.GradesTile{TileState: dashboard.TileState{Populated: true, IsLoading: true}},
	})
	v.ShowContent(true)
	assert.False(t, closed(v.Done()), "cached tile is still loading")

	v.UpdateData([]dashboard.Tile{
		dashboard.GradesTile{TileState: dashboard.TileState{Populated: true}},
	})
	assert.True(t, closed(v.Done()))
	assert.False(t, v.Failed())

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, 60, fixedNow))
	assert.Contains(t, buf.String(), "Recent grades")
}

func TestPlainView_DoneOnErrorView(t *testing.T) {
	v := NewPlainView()
	v.ShowErrorView(true)
	v.SetErrorDetails("account: session is invalid")
	v.SetErrorDetails("dropped")

	assert.True(t, closed(v.Done()))
	assert.True(t, v.Failed())
	assert.Equal(t, "account: session is invalid", <-v.ErrorDetails())

	// Repeated transitions must not close twice.
	v.ShowErrorView(false)
	v.ShowContent(true)
}
