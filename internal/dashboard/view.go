package dashboard

// View is the presentation side of the dashboard. All calls come from the
// orchestrator goroutine, one at a time.
type View interface {
	// UpdateData replaces the rendered list. The slice is not retained by
	// the orchestrator.
	UpdateData(tiles []Tile)
	ShowProgress(show bool)
	ShowContent(show bool)
	ShowRefreshIndicator(show bool)
	ShowErrorView(show bool)
	SetErrorDetails(details string)
	ResetScrollPosition()
}

// Preferences supplies the user's dashboard configuration. It is read at
// the start of every load.
type Preferences interface {
	ConfiguredSources() SourceSet
	TileOrder() []TileType
	GradeColorTheme() string
}

type nopView struct{}

func (nopView) UpdateData([]Tile)         {}
func (nopView) ShowProgress(bool)         {}
func (nopView) ShowContent(bool)          {}
func (nopView) ShowRefreshIndicator(bool) {}
func (nopView) ShowErrorView(bool)        {}
func (nopView) SetErrorDetails(string)    {}
func (nopView) ResetScrollPosition()      {}
