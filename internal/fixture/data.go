package fixture

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mmcdole/classboard/internal/domain"
)

//go:embed demo.toml
var demoData []byte

// File is the on-disk fixture format. Dates are stored as day offsets from
// today so a fixture never goes stale.
type File struct {
	Student       studentRecord        `toml:"student"`
	LuckyNumber   luckyNumberRecord    `toml:"lucky_number"`
	Messages      []messageRecord      `toml:"messages"`
	Attendance    []attendanceRecord   `toml:"attendance"`
	Lessons       []lessonRecord       `toml:"lessons"`
	Grades        []gradeRecord        `toml:"grades"`
	Homework      []homeworkRecord     `toml:"homework"`
	Announcements []announcementRecord `toml:"announcements"`
	Exams         []examRecord         `toml:"exams"`
	Meetings      []meetingRecord      `toml:"meetings"`
	Ads           []adRecord           `toml:"ads"`
}

type studentRecord struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Nick   string `toml:"nick"`
	Class  string `toml:"class"`
	School string `toml:"school"`
}

type luckyNumberRecord struct {
	Number int `toml:"number"`
}

type messageRecord struct {
	Subject string `toml:"subject"`
	Sender  string `toml:"sender"`
	Folder  string `toml:"folder"`
	Unread  bool   `toml:"unread"`
	Day     int    `toml:"day"`
}

type attendanceRecord struct {
	Month                   int `toml:"month"`
	Presence                int `toml:"presence"`
	Absence                 int `toml:"absence"`
	AbsenceExcused          int `toml:"absence_excused"`
	AbsenceForSchoolReasons int `toml:"absence_for_school_reasons"`
	Lateness                int `toml:"lateness"`
	LatenessExcused         int `toml:"lateness_excused"`
	Exemption               int `toml:"exemption"`
}

type lessonRecord struct {
	Day      int    `toml:"day"`
	Number   int    `toml:"number"`
	Start    string `toml:"start"`
	Minutes  int    `toml:"minutes"`
	Subject  string `toml:"subject"`
	Room     string `toml:"room"`
	Teacher  string `toml:"teacher"`
	Canceled bool   `toml:"canceled"`
}

type gradeRecord struct {
	Subject     string  `toml:"subject"`
	Entry       string  `toml:"entry"`
	Value       float64 `toml:"value"`
	Weight      float64 `toml:"weight"`
	Description string  `toml:"description"`
	Day         int     `toml:"day"`
}

type homeworkRecord struct {
	Subject string `toml:"subject"`
	Content string `toml:"content"`
	Teacher string `toml:"teacher"`
	Day     int    `toml:"day"`
	Done    bool   `toml:"done"`
}

type announcementRecord struct {
	Subject string `toml:"subject"`
	Content string `toml:"content"`
	Author  string `toml:"author"`
	Day     int    `toml:"day"`
}

type examRecord struct {
	Subject     string `toml:"subject"`
	Type        string `toml:"type"`
	Description string `toml:"description"`
	Day         int    `toml:"day"`
}

type meetingRecord struct {
	Title string `toml:"title"`
	Topic string `toml:"topic"`
	Place string `toml:"place"`
	Day   int    `toml:"day"`
	Time  string `toml:"time"`
}

type adRecord struct {
	Title string `toml:"title"`
	URL   string `toml:"url"`
}

// Demo returns the embedded demo fixture.
func Demo() (*File, error) {
	return Decode(demoData)
}

func Decode(data []byte) (*File, error) {
	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if f.Student.ID == "" {
		return nil, fmt.Errorf("fixture has no student id")
	}
	return &f, nil
}

func LoadFrom(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("loading fixture from %s: %w", path, err)
	}
	if f.Student.ID == "" {
		return nil, fmt.Errorf("fixture %s has no student id", path)
	}
	return &f, nil
}

// at resolves a day offset and an optional "15:04" clock time against today.
func at(today time.Time, day int, clock string) (time.Time, error) {
	t := today.AddDate(0, 0, day)
	if clock == "" {
		return t, nil
	}
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", clock, err)
	}
	return t.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute), nil
}

func (r studentRecord) toDomain() domain.Student {
	return domain.Student{ID: r.ID, Name: r.Name, Nick: r.Nick, ClassName: r.Class, SchoolName: r.School}
}
