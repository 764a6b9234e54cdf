package models

// LineupSize is the fixed number of slots in a [Lineup].
const LineupSize = 5

const (
	PlaceholderName     = "Add Artist"
	PlaceholderImageURL = "https://t3.ftcdn.net/jpg/01/09/84/42/360_F_109844212_NnLGUrn3RgMHQIuqSiLGlc9d419eK2dX.jpg"
)

// Placeholder marks an empty, fillable slot.
var Placeholder = Artist{Name: PlaceholderName, ImageURL: PlaceholderImageURL}

// Lineup is an ordered set of exactly [LineupSize] artist slots.
type Lineup [LineupSize]Artist

// EmptyLineup returns a lineup of placeholders.
func EmptyLineup() Lineup {
	var l Lineup
	for i := range l {
		l[i] = Placeholder
	}
	return l
}

// NewLineup truncates raw to [LineupSize], drops repeated names keeping the first occurrence,
// then right-pads with [Placeholder].
func NewLineup(raw []Artist) Lineup {
	if len(raw) > LineupSize {
		raw = raw[:LineupSize]
	}

	l := EmptyLineup()
	seen := make(map[string]struct{}, len(raw))
	n := 0
	for _, a := range raw {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		l[n] = a
		n++
	}
	return l
}

// Artists returns the non-placeholder artists in slot order.
func (l Lineup) Artists() []Artist {
	artists := make([]Artist, 0, LineupSize)
	for _, a := range l {
		if !a.IsPlaceholder() {
			artists = append(artists, a)
		}
	}
	return artists
}

// Filled counts non-placeholder slots.
func (l Lineup) Filled() int {
	return len(l.Artists())
}

// LineupSet holds one lineup per [TimeWindow], indexed by the window.
type LineupSet [len(TimeWindows)]Lineup

// Get returns the lineup for w.
func (s LineupSet) Get(w TimeWindow) Lineup {
	if w < 0 || int(w) >= len(s) {
		return EmptyLineup()
	}
	return s[w]
}

// EmptyLineupSet returns a set where every window is all placeholders.
func EmptyLineupSet() LineupSet {
	var s LineupSet
	for i := range s {
		s[i] = EmptyLineup()
	}
	return s
}
