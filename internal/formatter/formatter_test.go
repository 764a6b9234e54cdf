package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
	th "github.com/desertthunder/lineup/internal/testing"
)

func testLineups() Lineups {
	pop := 88
	set := models.EmptyLineupSet()
	set[models.AllTime] = models.NewLineup([]models.Artist{
		{Name: "Adele", ID: "a1", URI: "https://open.spotify.com/artist/a1", ImageURL: "https://img/adele", Popularity: &pop},
		{Name: "Drake, Jr", ID: "d1", ImageURL: "https://img/drake"},
	})
	set[models.LastMonth] = models.NewLineup([]models.Artist{{Name: "SZA", ImageURL: "https://img/sza"}})

	return Lineups{Title: "Owen's All Star Music Lineup", Provider: "Spotify", Set: set}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", Text},
		{"txt", Text},
		{"MD", Markdown},
		{"markdown", Markdown},
		{"csv", CSV},
		{" json ", JSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRenderers(t *testing.T) {
	t.Run("LineupsToText", func(t *testing.T) {
		output := string(LineupsToText(testLineups()))

		for _, want := range []string{"Owen's All Star Music Lineup", "Provider: Spotify", "All Time", "  1. Adele", "  2. Drake, Jr", "  3. -", "Last Month", "  1. SZA"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("LineupsToText with selected windows", func(t *testing.T) {
		l := testLineups()
		l.Windows = []models.TimeWindow{models.LastMonth}
		output := string(LineupsToText(l))

		if strings.Contains(output, "All Time") {
			t.Errorf("unselected window rendered:\n%s", output)
		}
		if !strings.Contains(output, "SZA") {
			t.Errorf("selected window missing:\n%s", output)
		}
	})

	t.Run("LineupsToMarkdown", func(t *testing.T) {
		output := string(LineupsToMarkdown(testLineups()))

		if !strings.HasPrefix(output, "# Owen's All Star Music Lineup\n") {
			t.Errorf("markdown missing title, got:\n%s", output)
		}
		if !strings.Contains(output, "1. [Adele](https://open.spotify.com/artist/a1) ![Adele](https://img/adele)") {
			t.Errorf("markdown missing linked artist, got:\n%s", output)
		}
		if !strings.Contains(output, "**Artists**: 2/5") {
			t.Errorf("markdown missing fill count")
		}
		if !strings.Contains(output, "3. _empty_") {
			t.Errorf("markdown missing placeholder")
		}
	})

	t.Run("LineupsToMarkdown default title", func(t *testing.T) {
		output := string(LineupsToMarkdown(Lineups{Set: models.EmptyLineupSet()}))
		if !strings.HasPrefix(output, "# All Star Music Lineup\n") {
			t.Errorf("unexpected title:\n%s", output)
		}
	})

	t.Run("LineupsToCSV", func(t *testing.T) {
		data, err := LineupsToCSV(testLineups())
		if err != nil {
			t.Fatalf("LineupsToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1+3*models.LineupSize {
			t.Fatalf("expected %d lines, got %d", 1+3*models.LineupSize, len(lines))
		}
		if lines[0] != "Window,Slot,Name,ID,URI,Image,Popularity" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "all-time,1,Adele,a1,https://open.spotify.com/artist/a1,https://img/adele,88" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if lines[2] != `all-time,2,"Drake, Jr",d1,,https://img/drake,` {
			t.Errorf("expected quoted name, got: %s", lines[2])
		}
		if lines[3] != "all-time,3,,,,," {
			t.Errorf("expected empty placeholder row, got: %s", lines[3])
		}
	})

	t.Run("LineupsToJSON", func(t *testing.T) {
		data, err := LineupsToJSON(testLineups())
		if err != nil {
			t.Fatalf("LineupsToJSON failed: %v", err)
		}

		var doc jsonDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(doc.Lineups) != 3 || len(doc.Lineups[0].Slots) != models.LineupSize {
			t.Fatalf("unexpected shape: %+v", doc)
		}
		first := doc.Lineups[0].Slots[0]
		if first.Name != "Adele" || first.Popularity == nil || *first.Popularity != 88 {
			t.Errorf("unexpected first slot: %+v", first)
		}
		if !doc.Lineups[0].Slots[2].Placeholder {
			t.Error("slot 3 should be flagged as placeholder")
		}
		if doc.Lineups[2].Window != "last-month" {
			t.Errorf("unexpected window %q", doc.Lineups[2].Window)
		}
	})

	t.Run("PlaylistToText", func(t *testing.T) {
		pl := &models.Playlist{
			ID:   "pl1",
			Name: "Owen's All Star Music Lineup",
			URL:  "https://open.spotify.com/playlist/pl1",
			Tracks: []models.Track{
				{Title: "Hello", Artist: "Adele"},
				{Title: "Hotline Bling", Artist: "Drake"},
			},
		}
		output := string(PlaylistToText(pl))

		for _, want := range []string{"Playlist: Owen's All Star Music Lineup", "URL: https://open.spotify.com/playlist/pl1", "Tracks: 2", "1. Adele - Hello", "2. Drake - Hotline Bling"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q", want)
			}
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("default filename", func(t *testing.T) {
		dir := t.TempDir()
		orig := th.MustGetwd(t)
		th.MustChdir(t, dir)
		defer th.MustChdir(t, orig)

		path, err := WriteExport(testLineups(), Markdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "lineup.md" {
			t.Errorf("expected lineup.md, got %s", path)
		}
		th.AssertFileExists(t, filepath.Join(dir, path))
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if _, err := WriteExport(testLineups(), JSON, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, `"provider": "Spotify"`) {
			t.Errorf("unexpected content: %s", content)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		if _, err := WriteExport(testLineups(), Text, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
