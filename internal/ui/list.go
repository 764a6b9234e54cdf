package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/lineup/internal/models"
)

var (
	_ list.Item = artistItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	if i.artist.Popularity != nil {
		return fmt.Sprintf("popularity %d", *i.artist.Popularity)
	}
	if i.artist.ID != "" {
		return i.artist.ID
	}
	return "no id"
}

func artistItems(artists []models.Artist) []list.Item {
	items := make([]list.Item, len(artists))
	for i, a := range artists {
		items[i] = artistItem{artist: a}
	}
	return items
}
