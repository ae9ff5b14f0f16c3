// Package tui renders the dashboard in the terminal with Bubble Tea.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/classboard/internal/dashboard"
	"github.com/mmcdole/classboard/internal/tui/styles"
)

const statusTimeout = 3 * time.Second

// Controller is the part of the orchestrator the model drives. Methods
// only enqueue work, but they may block while the orchestrator is
// delivering to this program, so they are always called from a tea.Cmd.
type Controller interface {
	Attach(v dashboard.View)
	Load(force bool)
	OnSwipeRefresh()
	OnRetry()
	OnShowErrorDetails()
}

type Options struct {
	Now func() time.Time

	// Reload re-reads the tile preferences. Nil disables the reload key.
	Reload func() error
}

// Model is the Bubble Tea model of the dashboard screen
type Model struct {
	ctrl   Controller
	now    func() time.Time
	reload func() error

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	// Dashboard state as pushed through the View messages
	tiles       []dashboard.Tile
	progress    bool
	content     bool
	refreshing  bool
	errorView   bool
	details     string
	showDetails bool

	// Dimensions
	width  int
	height int
	ready  bool

	statusMsg   string
	statusIsErr bool
}

func NewModel(ctrl Controller, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return Model{
		ctrl:     ctrl,
		now:      now,
		reload:   opts.Reload,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle)),
		progress: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, 1)
			m.ready = true
		}
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TilesMsg:
		m.tiles = msg.Tiles
		m.syncContent()
		return m, nil

	case ProgressMsg:
		m.progress = msg.Show
		return m, nil

	case ContentMsg:
		m.content = msg.Show
		return m, nil

	case RefreshIndicatorMsg:
		m.refreshing = msg.Show
		return m, nil

	case ErrorViewMsg:
		m.errorView = msg.Show
		if !msg.Show {
			m.showDetails = false
			m.details = ""
		}
		return m, nil

	case ErrorDetailsMsg:
		m.details = msg.Details
		return m, nil

	case ResetScrollMsg:
		m.viewport.GotoTop()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		m.statusIsErr = msg.IsError
		m.layout()
		return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg { return ClearStatusMsg{} })

	case ClearStatusMsg:
		m.statusMsg = ""
		m.statusIsErr = false
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, call(m.ctrl.OnSwipeRefresh)

	case key.Matches(msg, m.keys.Retry):
		if !m.errorView {
			return m, nil
		}
		ctrl := m.ctrl
		return m, call(func() {
			ctrl.OnRetry()
			ctrl.Load(false)
		})

	case key.Matches(msg, m.keys.Details):
		if !m.errorView {
			return m, nil
		}
		m.showDetails = !m.showDetails
		if m.showDetails {
			return m, call(m.ctrl.OnShowErrorDetails)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.reload == nil {
			return m, nil
		}
		return m, reloadCmd(m.ctrl, m.reload)

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// call runs fn off the Bubble Tea loop.
func call(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func reloadCmd(ctrl Controller, reload func() error) tea.Cmd {
	return func() tea.Msg {
		if err := reload(); err != nil {
			return StatusMsg{Message: err.Error(), IsError: true}
		}
		ctrl.Load(false)
		return StatusMsg{Message: "Configuration reloaded"}
	}
}

// layout sizes the viewport between the header and the footer.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	height := m.height - lipgloss.Height(m.header()) - lipgloss.Height(m.footer())
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.syncContent()
}

func (m *Model) syncContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(RenderTiles(m.tiles, m.width, m.now()))
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch {
	case m.errorView:
		body = m.errorScreen()
	case m.progress && !m.content:
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dashboard…")
	default:
		body = m.viewport.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) header() string {
	title := styles.HeaderStyle.Render("classboard")
	if m.refreshing {
		title += " " + m.spinner.View() + styles.DimStyle.Render(" refreshing")
	}
	date := styles.SubtitleStyle.Render(m.now().Format("Mon, Jan 2"))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(date)
	if gap < 1 {
		gap = 1
	}
	return title + lipgloss.NewStyle().Width(gap).Render("") + date
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		style := styles.StatusStyle
		if m.statusIsErr {
			style = style.Foreground(styles.Red)
		}
		return style.Render(styles.Truncate(m.statusMsg, m.width-2))
	}
	return m.help.View(m.keys)
}

func (m Model) errorScreen() string {
	lines := []string{
		styles.ErrorTitleStyle.Render("The dashboard could not be loaded"),
		styles.SubtitleStyle.Render("Press enter to retry or d for details."),
	}
	if m.showDetails {
		details := m.details
		if details == "" {
			details = "…"
		}
		lines = append(lines, "", styles.ErrorStyle.Width(m.width-8).Render(details))
	}
	panel := styles.ErrorPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, panel)
}
