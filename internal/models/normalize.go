package models

import "strings"

const (
	// QuestionMarkImageURL stands in for search results without artwork.
	QuestionMarkImageURL = "/assets/QuestionMark.jpg"

	kanyeImageURL = "https://scottwoodsmakeslists.files.wordpress.com/2016/12/kanye-west-3.jpg?w=1012&h=1349&crop=1"

	playlistSuffix = "All Star Music Lineup"

	maxOwnerLength = 11
)

var shortNames = map[string]string{
	"YoungBoy Never Broke Again": "NBA YoungBoy",
	"A Boogie wit da Hoodie":     "A Boogie",
	"A Boogie Wit da Hoodie":     "A Boogie",
	"Ski Mask The Slump God":     "Ski Mask",
}

var imageOverrides = map[string]string{
	"Kanye West": kanyeImageURL,
}

// DisplayName collapses known long-form stage names to their short public form.
func DisplayName(raw string) string {
	if short, ok := shortNames[raw]; ok {
		return short
	}
	return raw
}

// ApplyImageOverride swaps in a fixed image for artists whose provider artwork is unreliable.
// The lookup is on the raw provider name.
func ApplyImageOverride(raw, imageURL string) string {
	if u, ok := imageOverrides[raw]; ok {
		return u
	}
	return imageURL
}

// NormalizeArtist builds an [Artist] from raw provider fields.
//
// fallbackImage is used when the provider supplied no artwork.
func NormalizeArtist(rawName, id, uri, imageURL, fallbackImage string) Artist {
	name := DisplayName(rawName)
	if name == "" {
		name = rawName
	}
	if imageURL == "" {
		imageURL = fallbackImage
	}
	return Artist{
		Name:     name,
		ID:       id,
		URI:      uri,
		ImageURL: ApplyImageOverride(rawName, imageURL),
	}
}

// LineupOwner trims a session display name to what is shown on a lineup.
// Long names and the scratch sentinel are dropped.
func LineupOwner(displayName string) string {
	name := strings.TrimSpace(displayName)
	if len(name) > maxOwnerLength || name == string(Scratch) {
		return ""
	}
	return name
}

// PlaylistName derives the synthesized playlist name from a display name.
func PlaylistName(displayName string) string {
	if displayName == "" {
		return playlistSuffix
	}
	return displayName + "'s " + playlistSuffix
}
