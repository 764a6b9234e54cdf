package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLineupsFetched MsgKind = iota
	MsgSearchResults
	MsgProgressUpdate
	MsgPlaylistCreated
)

type searchResults struct {
	query   string
	artists []models.Artist
}

type playlistCreated struct {
	playlist *models.Playlist
	err      error
}

// lineupsFetchedMsg is the constructor for [MsgLineupsFetched]
func lineupsFetchedMsg(set models.LineupSet) Msg {
	return Msg{kind: MsgLineupsFetched, data: set}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(query string, artists []models.Artist) Msg {
	return Msg{kind: MsgSearchResults, data: searchResults{query, artists}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// playlistCreatedMsg is the constructor for [MsgPlaylistCreated]
func playlistCreatedMsg(pl *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistCreated, data: playlistCreated{pl, err}}
}
