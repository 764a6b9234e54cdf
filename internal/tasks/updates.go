package tasks

import (
	"fmt"

	"github.com/desertthunder/lineup/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLineups Phase = iota
	FetchTracks
	CreatePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchLineups:
		return "fetch_lineups"
	case FetchTracks:
		return "fetch_tracks"
	case CreatePlaylist:
		return "create_playlist"
	default:
		return ""
	}
}

func fetchingLineupsUpdate(total int, provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLineups,
		Total:   total,
		Message: fmt.Sprintf("Fetching top artists from %s...", provider),
	}
}

func fetchedWindowUpdate(step, total int, w models.TimeWindow, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLineups,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d artists", step, total, w.Label(), count),
	}
}

func fetchedTracksUpdate(step, total int, artist string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d tracks)", step, total, artist, count),
	}
}

func creatingPlaylistUpdate(name string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q with %d tracks...", name, tracks),
	}
}

func createdPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}
