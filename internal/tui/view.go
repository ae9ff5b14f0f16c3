package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/classboard/internal/dashboard"
)

// Sender delivers messages to a running Bubble Tea program.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramView adapts dashboard.View to Bubble Tea messages. Send blocks
// until the program reads the message, so the model must never call the
// orchestrator synchronously from Update.
type ProgramView struct {
	p Sender
}

func NewProgramView(p Sender) *ProgramView {
	return &ProgramView{p: p}
}

func (v *ProgramView) UpdateData(tiles []dashboard.Tile) {
	v.p.Send(TilesMsg{Tiles: append([]dashboard.Tile(nil), tiles...)})
}

func (v *ProgramView) ShowProgress(show bool)         { v.p.Send(ProgressMsg{Show: show}) }
func (v *ProgramView) ShowContent(show bool)          { v.p.Send(ContentMsg{Show: show}) }
func (v *ProgramView) ShowRefreshIndicator(show bool) { v.p.Send(RefreshIndicatorMsg{Show: show}) }
func (v *ProgramView) ShowErrorView(show bool)        { v.p.Send(ErrorViewMsg{Show: show}) }
func (v *ProgramView) SetErrorDetails(details string) { v.p.Send(ErrorDetailsMsg{Details: details}) }
func (v *ProgramView) ResetScrollPosition()           { v.p.Send(ResetScrollMsg{}) }

// PlainView collects the dashboard for a single non-interactive snapshot.
// Done closes once every tile holds fresh data or the error view is shown.
type PlainView struct {
	mu        sync.Mutex
	tiles     []dashboard.Tile
	content   bool
	errorView bool

	done    chan struct{}
	once    sync.Once
	details chan string
}

func NewPlainView() *PlainView {
	return &PlainView{done: make(chan struct{}), details: make(chan string, 1)}
}

func (v *PlainView) UpdateData(tiles []dashboard.Tile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tiles = append([]dashboard.Tile(nil), tiles...)
	v.check()
}

func (v *PlainView) ShowContent(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.content = show
	v.check()
}

func (v *PlainView) ShowErrorView(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorView = show
	v.check()
}

func (v *PlainView) SetErrorDetails(details string) {
	select {
	case v.details <- details:
	default:
	}
}

func (v *PlainView) ShowProgress(bool)         {}
func (v *PlainView) ShowRefreshIndicator(bool) {}
func (v *PlainView) ResetScrollPosition()      {}

// check must be called with mu held.
func (v *PlainView) check() {
	if v.errorView {
		v.once.Do(func() { close(v.done) })
		return
	}
	if !v.content {
		return
	}
	for _, t := range v.tiles {
		if t.Loading() {
			return
		}
	}
	v.once.Do(func() { close(v.done) })
}

func (v *PlainView) Done() <-chan struct{} { return v.done }

// ErrorDetails yields the text pushed by SetErrorDetails.
func (v *PlainView) ErrorDetails() <-chan string { return v.details }

// Failed reports whether the dashboard ended on the error view.
func (v *PlainView) Failed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errorView
}

// Render writes the collected tiles.
func (v *PlainView) Render(w io.Writer, width int, now time.Time) error {
	v.mu.Lock()
	tiles := v.tiles
	v.mu.Unlock()
	_, err := io.WriteString(w, RenderTiles(tiles, width, now)+"\n")
	return err
}
