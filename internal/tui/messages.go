package tui

import "github.com/mmcdole/classboard/internal/dashboard"

// Message types for the TUI. Each dashboard.View call becomes one message.

// TilesMsg carries a new tile list
type TilesMsg struct {
	Tiles []dashboard.Tile
}

// ProgressMsg toggles the first-load spinner
type ProgressMsg struct{ Show bool }

// ContentMsg toggles the tile list
type ContentMsg struct{ Show bool }

// RefreshIndicatorMsg toggles the header refresh spinner
type RefreshIndicatorMsg struct{ Show bool }

// ErrorViewMsg toggles the full-screen error
type ErrorViewMsg struct{ Show bool }

// ErrorDetailsMsg carries the text of the last dashboard error
type ErrorDetailsMsg struct {
	Details string
}

// ResetScrollMsg scrolls the tile list back to the top
type ResetScrollMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
