package dashboard

import (
	"fmt"
	"math/bits"
)

// DataSourceID identifies one upstream stream. Several sources may feed
// a single tile.
type DataSourceID int

const (
	SourceAccount DataSourceID = iota
	SourceLuckyNumber
	SourceMessages
	SourceAttendance
	SourceLessons
	SourceGrades
	SourceHomework
	SourceAnnouncements
	SourceExams
	SourceMeetings
	SourceAds

	sourceCount
)

var sourceNames = [sourceCount]string{
	SourceAccount:       "account",
	SourceLuckyNumber:   "lucky_number",
	SourceMessages:      "messages",
	SourceAttendance:    "attendance",
	SourceLessons:       "lessons",
	SourceGrades:        "grades",
	SourceHomework:      "homework",
	SourceAnnouncements: "announcements",
	SourceExams:         "exams",
	SourceMeetings:      "meetings",
	SourceAds:           "ads",
}

var sourceTiles = [sourceCount]TileType{
	SourceAccount:       TypeAccount,
	SourceLuckyNumber:   TypeHorizontalGroup,
	SourceMessages:      TypeHorizontalGroup,
	SourceAttendance:    TypeHorizontalGroup,
	SourceLessons:       TypeLessons,
	SourceGrades:        TypeGrades,
	SourceHomework:      TypeHomework,
	SourceAnnouncements: TypeAnnouncements,
	SourceExams:         TypeExams,
	SourceMeetings:      TypeMeetings,
	SourceAds:           TypeAds,
}

func (s DataSourceID) String() string {
	if s < 0 || s >= sourceCount {
		return fmt.Sprintf("DataSourceID(%d)", int(s))
	}
	return sourceNames[s]
}

// TileType returns the tile this source feeds.
func (s DataSourceID) TileType() TileType {
	return sourceTiles[s]
}

// ParseDataSourceID maps a config name back to its id.
func ParseDataSourceID(name string) (DataSourceID, error) {
	for i, n := range sourceNames {
		if n == name {
			return DataSourceID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown data source %q", name)
}

// DataSourceNames lists every source name in declaration order.
func DataSourceNames() []string {
	return append([]string(nil), sourceNames[:]...)
}

// TileType identifies a tile variant. Declaration order is the default
// display order.
type TileType int

const (
	TypeAccount TileType = iota
	TypeHorizontalGroup
	TypeLessons
	TypeGrades
	TypeHomework
	TypeAnnouncements
	TypeExams
	TypeMeetings
	TypeAds

	tileTypeCount
)

var tileTypeNames = [tileTypeCount]string{
	TypeAccount:         "account",
	TypeHorizontalGroup: "horizontal_group",
	TypeLessons:         "lessons",
	TypeGrades:          "grades",
	TypeHomework:        "homework",
	TypeAnnouncements:   "announcements",
	TypeExams:           "exams",
	TypeMeetings:        "meetings",
	TypeAds:             "ads",
}

func (t TileType) String() string {
	if t < 0 || t >= tileTypeCount {
		return fmt.Sprintf("TileType(%d)", int(t))
	}
	return tileTypeNames[t]
}

func ParseTileType(name string) (TileType, error) {
	for i, n := range tileTypeNames {
		if n == name {
			return TileType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile type %q", name)
}

// TileTypeNames lists every tile type name in default order.
func TileTypeNames() []string {
	return append([]string(nil), tileTypeNames[:]...)
}

// SourceSet is a set of data sources.
type SourceSet uint16

func NewSourceSet(ids ...DataSourceID) SourceSet {
	var s SourceSet
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// AllSources contains every known data source.
func AllSources() SourceSet {
	return SourceSet(1<<sourceCount - 1)
}

func (s SourceSet) With(id DataSourceID) SourceSet    { return s | 1<<id }
func (s SourceSet) Without(id DataSourceID) SourceSet { return s &^ (1 << id) }
func (s SourceSet) Has(id DataSourceID) bool          { return s&(1<<id) != 0 }
func (s SourceSet) Len() int                          { return bits.OnesCount16(uint16(s)) }

// IDs returns the members in declaration order.
func (s SourceSet) IDs() []DataSourceID {
	out := make([]DataSourceID, 0, s.Len())
	for id := DataSourceID(0); id < sourceCount; id++ {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// TileTypes returns the set of tiles fed by the members.
func (s SourceSet) TileTypes() TypeSet {
	var t TypeSet
	for _, id := range s.IDs() {
		t = t.With(id.TileType())
	}
	return t
}

// GroupFields returns the sub-fields of the horizontal group fed by the members.
func (s SourceSet) GroupFields() GroupField {
	var f GroupField
	for _, id := range s.IDs() {
		if field, ok := groupFieldOf(id); ok {
			f |= field
		}
	}
	return f
}

// TypeSet is a set of tile types.
type TypeSet uint16

func (s TypeSet) With(t TileType) TypeSet { return s | 1<<t }
func (s TypeSet) Has(t TileType) bool     { return s&(1<<t) != 0 }
func (s TypeSet) Len() int                { return bits.OnesCount16(uint16(s)) }

func (s TypeSet) Types() []TileType {
	out := make([]TileType, 0, s.Len())
	for t := TileType(0); t < tileTypeCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// GroupField is a bitmask of horizontal group sub-fields.
type GroupField uint8

const (
	FieldLuckyNumber GroupField = 1 << iota
	FieldUnreadCount
	FieldAttendance

	groupFieldCount = 3
)

var groupFieldNames = [groupFieldCount]string{"lucky_number", "unread_count", "attendance"}

func (f GroupField) String() string {
	for i := 0; i < groupFieldCount; i++ {
		if f == 1<<i {
			return groupFieldNames[i]
		}
	}
	return fmt.Sprintf("GroupField(%#x)", uint8(f))
}

// fields splits the mask into single fields in declaration order.
func (f GroupField) fields() []GroupField {
	var out []GroupField
	for i := 0; i < groupFieldCount; i++ {
		if bit := GroupField(1 << i); f&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

func groupFieldOf(id DataSourceID) (GroupField, bool) {
	switch id {
	case SourceLuckyNumber:
		return FieldLuckyNumber, true
	case SourceMessages:
		return FieldUnreadCount, true
	case SourceAttendance:
		return FieldAttendance, true
	}
	return 0, false
}
