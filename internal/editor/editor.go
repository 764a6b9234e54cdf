package editor

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/services"
	"github.com/desertthunder/lineup/internal/shared"
)

// State is the edit state derived from the selection.
type State int

const (
	Idle State = iota
	SlotSelected
	AwaitingNewArtist
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SlotSelected:
		return "slot_selected"
	case AwaitingNewArtist:
		return "awaiting_new_artist"
	default:
		return ""
	}
}

const noSelection = -1

// Session edits the lineup of one time window.
type Session struct {
	svc    services.Service
	cred   models.Credential
	logger *log.Logger

	set    models.LineupSet
	window models.TimeWindow
	lineup models.Lineup

	selected   int
	results    []models.Artist
	searchOpen bool
}

// NewSession starts an idle session on the all-time lineup of set.
//
// svc is only used for search and may be nil, in which case searches return nothing.
func NewSession(svc services.Service, cred models.Credential, set models.LineupSet, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{
		svc:      svc,
		cred:     cred,
		logger:   logger,
		set:      set,
		window:   models.AllTime,
		lineup:   set.Get(models.AllTime),
		selected: noSelection,
	}
}

func (s *Session) Lineup() models.Lineup         { return s.lineup }
func (s *Session) Window() models.TimeWindow     { return s.window }
func (s *Session) SearchOpen() bool              { return s.searchOpen }
func (s *Session) Results() []models.Artist      { return slices.Clone(s.results) }
func (s *Session) Service() services.Service     { return s.svc }
func (s *Session) Credential() models.Credential { return s.cred }

// Artists returns the real artists of the active lineup in slot order.
func (s *Session) Artists() []models.Artist { return s.lineup.Artists() }

// Selected reports the selected slot.
func (s *Session) Selected() (int, bool) {
	if s.selected == noSelection {
		return 0, false
	}
	return s.selected, true
}

func (s *Session) State() State {
	switch {
	case s.selected == noSelection:
		return Idle
	case s.searchOpen:
		return AwaitingNewArtist
	default:
		return SlotSelected
	}
}

func (s *Session) reset() {
	s.selected = noSelection
	s.results = nil
	s.searchOpen = false
}

// SelectSlot applies a click on slot i.
//
// Clicking the selected slot deselects it. Clicking a placeholder selects it and opens search.
// Clicking a real slot while another real slot is selected swaps the two. Out of range is a no-op.
func (s *Session) SelectSlot(i int) {
	if i < 0 || i >= models.LineupSize {
		return
	}

	switch {
	case s.selected == i:
		s.reset()
	case s.lineup[i].IsPlaceholder():
		s.reset()
		s.selected = i
		s.searchOpen = true
	case s.selected != noSelection && !s.lineup[s.selected].IsPlaceholder():
		s.lineup[s.selected], s.lineup[i] = s.lineup[i], s.lineup[s.selected]
		s.reset()
	default:
		s.reset()
		s.selected = i
	}
}

// RemoveSelected replaces the selected real artist with a placeholder.
func (s *Session) RemoveSelected() {
	if s.State() != SlotSelected {
		return
	}
	s.lineup[s.selected] = models.Placeholder
	s.reset()
}

// ChooseSearchResult fills the awaiting slot with results[j].
func (s *Session) ChooseSearchResult(j int) {
	if s.State() != AwaitingNewArtist || j < 0 || j >= len(s.results) {
		return
	}
	s.lineup[s.selected] = s.results[j]
	s.reset()
}

// CloseSearch dismisses the search dialog and drops the selection.
func (s *Session) CloseSearch() {
	if s.searchOpen {
		s.reset()
	}
}

// Search looks query up with the provider and replaces the current results.
//
// It does nothing unless a placeholder is awaiting an artist or when query is blank.
func (s *Session) Search(ctx context.Context, query string) {
	if s.State() != AwaitingNewArtist {
		return
	}
	if results, ok := s.Lookup(ctx, query); ok {
		s.ApplyResults(results)
	}
}

// Lookup runs the provider search without touching session state.
//
// ok is false for blank queries. Provider errors are logged and yield empty results.
func (s *Session) Lookup(ctx context.Context, query string) ([]models.Artist, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	if s.svc == nil {
		return nil, true
	}

	results, err := s.svc.SearchArtists(ctx, s.cred, query, 0)
	if err != nil {
		s.logger.Warn("artist search failed", "provider", s.svc.Name(), "query", query, "err", err)
		return nil, true
	}
	return results, true
}

// ApplyResults stores results from [Session.Lookup] if search is still open.
func (s *Session) ApplyResults(results []models.Artist) {
	if s.State() != AwaitingNewArtist {
		return
	}
	s.results = results
}

// SetWindow switches to the lineup of w. Edits to the previous window are discarded.
func (s *Session) SetWindow(w models.TimeWindow) {
	if w < 0 || int(w) >= len(models.TimeWindows) {
		return
	}
	s.window = w
	s.lineup = s.set.Get(w)
	s.reset()
}

// Reload replaces the lineup set, for example after a fresh aggregate, and reloads the active window.
func (s *Session) Reload(set models.LineupSet) {
	s.set = set
	s.SetWindow(s.window)
}
