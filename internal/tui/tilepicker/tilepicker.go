// Package tilepicker lets the user choose which data sources the dashboard shows.
package tilepicker

import (
	"context"
	"errors"
	"slices"

	"github.com/charmbracelet/huh"

	"github.com/mmcdole/classboard/internal/dashboard"
)

// ErrCanceled is returned when the user leaves the form without confirming.
var ErrCanceled = errors.New("tile selection canceled")

var labels = map[dashboard.DataSourceID]string{
	dashboard.SourceLuckyNumber:   "Lucky number",
	dashboard.SourceMessages:      "Unread messages",
	dashboard.SourceAttendance:    "Attendance",
	dashboard.SourceLessons:       "Lessons",
	dashboard.SourceGrades:        "Recent grades",
	dashboard.SourceHomework:      "Homework",
	dashboard.SourceAnnouncements: "Announcements",
	dashboard.SourceExams:         "Upcoming exams",
	dashboard.SourceMeetings:      "Meetings",
	dashboard.SourceAds:           "Promotions",
}

// Options lists every selectable source with the current ones preselected.
// An empty current selection means every source. The account source is
// always shown and is not offered.
func Options(current []string) []huh.Option[string] {
	selected := Preselected(current)
	opts := make([]huh.Option[string], 0, len(labels))
	for _, name := range selectable() {
		id, _ := dashboard.ParseDataSourceID(name)
		opts = append(opts, huh.NewOption(labels[id], name).Selected(slices.Contains(selected, name)))
	}
	return opts
}

// Preselected returns the selectable names that start checked.
func Preselected(current []string) []string {
	if len(current) == 0 {
		return selectable()
	}
	var out []string
	for _, name := range selectable() {
		if slices.Contains(current, name) {
			out = append(out, name)
		}
	}
	return out
}

func selectable() []string {
	var out []string
	for _, name := range dashboard.DataSourceNames() {
		if name != dashboard.SourceAccount.String() {
			out = append(out, name)
		}
	}
	return out
}

// Normalize orders the picked names the way the dashboard lists its sources.
func Normalize(picked []string) []string {
	out := make([]string, 0, len(picked))
	for _, name := range dashboard.DataSourceNames() {
		if slices.Contains(picked, name) {
			out = append(out, name)
		}
	}
	return out
}

// Run shows the picker and returns the chosen source names.
func Run(ctx context.Context, current []string) ([]string, error) {
	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Dashboard tiles").
				Description("Space toggles a tile, enter saves.").
				Options(Options(current)...).
				Value(&picked),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrCanceled
		}
		return nil, err
	}
	return Normalize(picked), nil
}
