// package formatter renders lineups and playlists to various formats (plain text, Markdown, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
)

// Format names an output encoding.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// Formats lists every supported [Format].
var Formats = []Format{Text, Markdown, CSV, JSON}

// ParseFormat accepts a [Format] name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Ext is the file extension used by [WriteExport].
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return "md"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	default:
		return "txt"
	}
}

// Lineups is the printable view of a [models.LineupSet].
//
// Windows selects and orders the windows to render; empty means all of them.
type Lineups struct {
	Title    string
	Provider string
	Windows  []models.TimeWindow
	Set      models.LineupSet
}

func (l Lineups) windows() []models.TimeWindow {
	if len(l.Windows) == 0 {
		return models.TimeWindows[:]
	}
	return l.Windows
}

// Render encodes l in format.
func Render(format Format, l Lineups) ([]byte, error) {
	switch format {
	case Text:
		return LineupsToText(l), nil
	case Markdown:
		return LineupsToMarkdown(l), nil
	case CSV:
		return LineupsToCSV(l)
	case JSON:
		return LineupsToJSON(l)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// LineupsToText lists each window's slots, one per line.
func LineupsToText(l Lineups) []byte {
	var buf bytes.Buffer

	if l.Title != "" {
		buf.WriteString(l.Title + "\n")
	}
	if l.Provider != "" {
		buf.WriteString(fmt.Sprintf("Provider: %s\n", l.Provider))
	}

	for _, w := range l.windows() {
		buf.WriteString(fmt.Sprintf("\n%s\n", w.Label()))
		for i, a := range l.Set.Get(w) {
			name := a.Name
			if a.IsPlaceholder() {
				name = "-"
			}
			buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, name))
		}
	}

	return buf.Bytes()
}

// LineupsToMarkdown renders a section per window with artist images.
func LineupsToMarkdown(l Lineups) []byte {
	var buf bytes.Buffer

	title := l.Title
	if title == "" {
		title = models.PlaylistName("")
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if l.Provider != "" {
		buf.WriteString(fmt.Sprintf("**Provider**: %s\n\n", l.Provider))
	}

	for _, w := range l.windows() {
		lineup := l.Set.Get(w)
		buf.WriteString(fmt.Sprintf("## %s\n\n", w.Label()))
		buf.WriteString(fmt.Sprintf("**Artists**: %d/%d\n\n", lineup.Filled(), models.LineupSize))

		for i, a := range lineup {
			if a.IsPlaceholder() {
				buf.WriteString(fmt.Sprintf("%d. _empty_\n", i+1))
				continue
			}

			name := a.Name
			if a.URI != "" && strings.HasPrefix(a.URI, "http") {
				name = fmt.Sprintf("[%s](%s)", a.Name, a.URI)
			}
			buf.WriteString(fmt.Sprintf("%d. %s", i+1, name))
			if a.ImageURL != "" {
				buf.WriteString(fmt.Sprintf(" ![%s](%s)", a.Name, a.ImageURL))
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// LineupsToCSV writes one row per slot with columns: Window, Slot, Name, ID, URI, Image, Popularity.
//
// Placeholder slots are written with an empty name so row counts stay fixed.
func LineupsToCSV(l Lineups) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Window", "Slot", "Name", "ID", "URI", "Image", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, w := range l.windows() {
		for i, a := range l.Set.Get(w) {
			record := []string{w.String(), strconv.Itoa(i + 1), "", "", "", "", ""}
			if !a.IsPlaceholder() {
				record[2], record[3], record[4], record[5] = a.Name, a.ID, a.URI, a.ImageURL
				if a.Popularity != nil {
					record[6] = strconv.Itoa(*a.Popularity)
				}
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

type jsonSlot struct {
	Slot        int  `json:"slot"`
	Placeholder bool `json:"placeholder,omitempty"`
	models.Artist
}

type jsonLineup struct {
	Window string     `json:"window"`
	Label  string     `json:"label"`
	Slots  []jsonSlot `json:"slots"`
}

type jsonDocument struct {
	Title    string       `json:"title,omitempty"`
	Provider string       `json:"provider,omitempty"`
	Lineups  []jsonLineup `json:"lineups"`
}

// LineupsToJSON encodes every slot, flagging placeholders.
func LineupsToJSON(l Lineups) ([]byte, error) {
	doc := jsonDocument{Title: l.Title, Provider: l.Provider}
	for _, w := range l.windows() {
		jl := jsonLineup{Window: w.String(), Label: w.Label()}
		for i, a := range l.Set.Get(w) {
			jl.Slots = append(jl.Slots, jsonSlot{Slot: i + 1, Placeholder: a.IsPlaceholder(), Artist: a})
		}
		doc.Lineups = append(doc.Lineups, jl)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return append(data, '\n'), nil
}

// PlaylistToText summarizes a created playlist and lists its tracks in play order.
func PlaylistToText(pl *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", pl.Name))
	if pl.ID != "" {
		buf.WriteString(fmt.Sprintf("ID: %s\n", pl.ID))
	}
	if pl.URL != "" {
		buf.WriteString(fmt.Sprintf("URL: %s\n", pl.URL))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(pl.Tracks)))

	for i, track := range pl.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes()
}

// WriteExport renders l in format and writes it to path.
//
// Defaults to lineup.{ext} as the filename.
func WriteExport(l Lineups, format Format, path string) (string, error) {
	if path == "" {
		path = "lineup." + format.Ext()
	}

	data, err := Render(format, l)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
