package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/classboard/internal/dashboard"
	"github.com/mmcdole/classboard/internal/domain"
	"github.com/mmcdole/classboard/internal/tui/styles"
)

const (
	minTileWidth   = 24
	attendanceBar  = 20
	maxListedItems = 6
)

var tileTitles = map[dashboard.TileType]string{
	dashboard.TypeAccount:         "Student",
	dashboard.TypeHorizontalGroup: "At a glance",
	dashboard.TypeLessons:         "Lessons",
	dashboard.TypeGrades:          "Recent grades",
	dashboard.TypeHomework:        "Homework",
	dashboard.TypeAnnouncements:   "Announcements",
	dashboard.TypeExams:           "Upcoming exams",
	dashboard.TypeMeetings:        "Meetings",
	dashboard.TypeAds:             "Promoted",
}

// RenderTiles renders the list as stacked boxes of the given outer width.
func RenderTiles(tiles []dashboard.Tile, width int, now time.Time) string {
	parts := make([]string, 0, len(tiles))
	for _, t := range tiles {
		parts = append(parts, RenderTile(t, width, now))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderTile renders one tile. A tile that failed without data shows its
// error; a tile still waiting for its first value shows a placeholder.
func RenderTile(t dashboard.Tile, width int, now time.Time) string {
	if width < minTileWidth {
		width = minTileWidth
	}
	inner := width - 4 // border and padding

	style := styles.TileStyle
	header := styles.TileTitleStyle.Render(tileTitles[t.Type()])
	if t.Loading() {
		header += " " + styles.DimStyle.Render("updating…")
	}

	var body string
	switch {
	case t.Err() != nil && !t.DataLoaded() && t.Type() != dashboard.TypeHorizontalGroup:
		style = styles.TileErrorStyle
		body = styles.ErrorStyle.Render(styles.Truncate("Unavailable: "+t.Err().Error(), inner))
	case !t.DataLoaded() && t.Type() != dashboard.TypeHorizontalGroup:
		body = styles.DimStyle.Render("Loading…")
	default:
		r := &tileRenderer{width: inner, now: now}
		t.Accept(r)
		body = strings.TrimRight(r.b.String(), "\n")
		if err := t.Err(); err != nil && t.DataLoaded() {
			body += "\n" + styles.WarningStyle.Render(styles.Truncate("Refresh failed: "+err.Error(), inner))
		}
	}

	return style.Width(width - 2).Render(header + "\n" + body)
}

// tileRenderer writes the payload of one tile.
type tileRenderer struct {
	b     strings.Builder
	width int
	now   time.Time
}

func (r *tileRenderer) line(format string, args ...any) {
	r.b.WriteString(styles.Truncate(fmt.Sprintf(format, args...), r.width))
	r.b.WriteByte('\n')
}

func (r *tileRenderer) styled(s string) {
	r.b.WriteString(s)
	r.b.WriteByte('\n')
}

func (r *tileRenderer) empty(what string) {
	r.styled(styles.DimStyle.Render("No " + what))
}

func (r *tileRenderer) more(shown, total int) {
	if total > shown {
		r.styled(styles.DimStyle.Render(fmt.Sprintf("+%d more", total-shown)))
	}
}

func (r *tileRenderer) VisitAccount(t dashboard.AccountTile) {
	s := t.Student
	if s == nil {
		return
	}
	r.styled(styles.TitleStyle.Render(s.DisplayName()))
	var details []string
	if s.ClassName != "" {
		details = append(details, "class "+s.ClassName)
	}
	if s.SchoolName != "" {
		details = append(details, s.SchoolName)
	}
	if len(details) > 0 {
		r.styled(styles.SubtitleStyle.Render(styles.Truncate(strings.Join(details, " · "), r.width)))
	}
}

func (r *tileRenderer) VisitHorizontalGroup(t dashboard.HorizontalGroupTile) {
	pending := func(f dashboard.GroupField) string {
		if t.FieldErr(f) != nil {
			return styles.ErrorStyle.Render("unavailable")
		}
		return styles.DimStyle.Render("…")
	}

	if t.Want&dashboard.FieldLuckyNumber != 0 {
		value := pending(dashboard.FieldLuckyNumber)
		if t.LuckyNumber != nil {
			value = styles.BadgeStyle.Render(fmt.Sprint(t.LuckyNumber.Number))
		}
		r.styled("Lucky number     " + value)
	}
	if t.Want&dashboard.FieldUnreadCount != 0 {
		value := pending(dashboard.FieldUnreadCount)
		if t.UnreadCount != nil {
			style := styles.DimBadgeStyle
			if *t.UnreadCount > 0 {
				style = styles.BadgeStyle
			}
			value = style.Render(humanize.Comma(int64(*t.UnreadCount)))
		}
		r.styled("Unread messages  " + value)
	}
	if t.Want&dashboard.FieldAttendance != 0 {
		value := pending(dashboard.FieldAttendance)
		if t.AttendancePct != nil {
			value = fmt.Sprintf("%5.1f%% %s", *t.AttendancePct, styles.RenderProgressBar(*t.AttendancePct, attendanceBar))
		}
		r.styled("Attendance       " + value)
	}
}

func (r *tileRenderer) VisitLessons(t dashboard.LessonsTile) {
	if t.Timetable == nil {
		r.empty("lessons")
		return
	}
	day, lessons := dashboard.LessonDay(*t.Timetable, r.now)
	if len(lessons) == 0 {
		r.empty("lessons")
		return
	}
	r.styled(styles.SubtitleStyle.Render(capitalize(dayLabel(day, r.now))))
	for _, l := range lessons {
		text := fmt.Sprintf("%s  %s-%s  %s", humanize.Ordinal(l.Number), l.Start.Format("15:04"), l.End.Format("15:04"), l.Subject)
		if l.Room != "" {
			text += " (" + l.Room + ")"
		}
		switch {
		case l.Canceled:
			r.styled(styles.DimStyle.Strikethrough(true).Render(styles.Truncate(text, r.width)))
		case day.Equal(domain.DateOf(r.now)) && !l.Start.After(r.now) && l.End.After(r.now):
			r.styled(styles.AccentStyle.Render(styles.Truncate(text, r.width)))
		default:
			r.line("%s", text)
		}
	}
}

func (r *tileRenderer) VisitGrades(t dashboard.GradesTile) {
	if len(t.Subjects) == 0 {
		r.empty("new grades this week")
		return
	}
	for _, sg := range t.Subjects {
		entries := make([]string, 0, len(sg.Grades))
		for _, g := range sg.Grades {
			entries = append(entries, styles.GradeStyle(t.ColorTheme, g.Value).Render(g.Entry))
		}
		r.styled(fmt.Sprintf("%-16s %s", styles.Truncate(sg.Subject, 16), strings.Join(entries, " ")))
	}
}

func (r *tileRenderer) VisitHomework(t dashboard.HomeworkTile) {
	if len(t.Items) == 0 {
		r.empty("homework")
		return
	}
	for i, h := range t.Items {
		if i == maxListedItems {
			break
		}
		r.line("%s · %s · %s", dayLabel(h.Date, r.now), h.Subject, h.Content)
	}
	r.more(maxListedItems, len(t.Items))
}

func (r *tileRenderer) VisitAnnouncements(t dashboard.AnnouncementsTile) {
	if len(t.Items) == 0 {
		r.empty("announcements")
		return
	}
	for i, a := range t.Items {
		if i == maxListedItems {
			break
		}
		r.line("%s", a.Subject)
		r.styled(styles.DimStyle.Render(styles.Truncate(fmt.Sprintf("%s, %s", a.Author, humanize.RelTime(a.Date, r.now, "ago", "from now")), r.width)))
	}
	r.more(maxListedItems, len(t.Items))
}

func (r *tileRenderer) VisitExams(t dashboard.ExamsTile) {
	if len(t.Items) == 0 {
		r.empty("exams")
		return
	}
	for i, e := range t.Items {
		if i == maxListedItems {
			break
		}
		text := fmt.Sprintf("%s · %s %s", dayLabel(e.Date, r.now), e.Subject, strings.ToLower(e.Type))
		if e.Description != "" {
			text += ": " + e.Description
		}
		r.line("%s", text)
	}
	r.more(maxListedItems, len(t.Items))
}

func (r *tileRenderer) VisitMeetings(t dashboard.MeetingsTile) {
	if len(t.Items) == 0 {
		r.empty("meetings")
		return
	}
	for i, m := range t.Items {
		if i == maxListedItems {
			break
		}
		r.line("%s · %s", m.Date.Format("Mon 15:04"), m.Title)
		where := humanize.RelTime(m.Date, r.now, "ago", "from now")
		if m.Place != "" {
			where = m.Place + ", " + where
		}
		r.styled(styles.DimStyle.Render(styles.Truncate(where, r.width)))
	}
	r.more(maxListedItems, len(t.Items))
}

func (r *tileRenderer) VisitAds(t dashboard.AdsTile) {
	if len(t.Items) == 0 {
		r.empty("promotions")
		return
	}
	for _, a := range t.Items {
		r.line("%s", a.Title)
		if a.URL != "" {
			r.styled(styles.DimStyle.Render(styles.Truncate(a.URL, r.width)))
		}
	}
}

// dayLabel names a calendar day relative to now.
func dayLabel(d, now time.Time) string {
	days := int(math.Round(domain.DateOf(d).Sub(domain.DateOf(now)).Hours() / 24))
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1 && days < 7:
		return d.Weekday().String()
	}
	return d.Format("Jan 2")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
