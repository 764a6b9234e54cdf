package models

import (
	"fmt"
	"strings"
)

// ProviderKind identifies a music-data provider.
type ProviderKind string

const (
	Spotify    ProviderKind = "spotify"
	AppleMusic ProviderKind = "applemusic"
	LastFM     ProviderKind = "lastfm"
	Scratch    ProviderKind = "scratch"
)

// ProviderKinds lists every supported provider in display order.
var ProviderKinds = []ProviderKind{Spotify, AppleMusic, LastFM, Scratch}

// ParseProviderKind resolves a user-supplied provider name.
func ParseProviderKind(s string) (ProviderKind, error) {
	k := ProviderKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case Spotify, AppleMusic, LastFM, Scratch:
		return k, nil
	case "apple", "apple-music":
		return AppleMusic, nil
	case "last.fm":
		return LastFM, nil
	case "deezer":
		return Scratch, nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// TimeWindow is the range over which top artists are computed.
type TimeWindow int

const (
	AllTime TimeWindow = iota
	SixMonths
	LastMonth
)

// TimeWindows lists every window in [LineupSet] order.
var TimeWindows = [...]TimeWindow{AllTime, SixMonths, LastMonth}

func (w TimeWindow) String() string {
	switch w {
	case AllTime:
		return "all-time"
	case SixMonths:
		return "six-months"
	case LastMonth:
		return "last-month"
	default:
		return ""
	}
}

// Label is the human readable form used by the CLI and TUI.
func (w TimeWindow) Label() string {
	switch w {
	case AllTime:
		return "All Time"
	case SixMonths:
		return "Last 6 Months"
	case LastMonth:
		return "Last Month"
	default:
		return ""
	}
}

// ParseTimeWindow accepts the [TimeWindow.String] form plus a few short aliases.
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all-time", "alltime", "all", "overall":
		return AllTime, nil
	case "six-months", "6months", "6m":
		return SixMonths, nil
	case "last-month", "month", "1m":
		return LastMonth, nil
	}
	return AllTime, fmt.Errorf("unknown time window %q", s)
}

// Artist is the normalized artist record every provider maps into.
type Artist struct {
	Name       string `json:"name"`
	ID         string `json:"id,omitempty"`
	URI        string `json:"uri,omitempty"`
	ImageURL   string `json:"image_url"`
	Popularity *int   `json:"popularity,omitempty"`
}

// IsPlaceholder reports whether a is the empty-slot sentinel. Identity is by name.
func (a Artist) IsPlaceholder() bool {
	return a.Name == PlaceholderName
}

// Track is a single song resolved for playlist synthesis.
type Track struct {
	ID     string `json:"id"`
	URI    string `json:"uri,omitempty"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Credential is the session identity handed to provider adapters.
//
// Token is opaque: a Spotify access token, an Apple Music user token or a Last.fm username.
type Credential struct {
	Token       string
	UserID      string
	DisplayName string
}

// Playlist describes a playlist created on a provider.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URL    string  `json:"url,omitempty"`
	Tracks []Track `json:"tracks"`
}
