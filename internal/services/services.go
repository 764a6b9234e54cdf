// package services defines interface Service for reading artist data from music providers
//
// Spotify, Apple Music, Last.fm, Deezer (scratch)
package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
)

const (
	// TopArtistsLimit caps every [Service.FetchTopArtists] result.
	TopArtistsLimit = models.LineupSize

	// TrackLimit is the number of representative tracks fetched per artist.
	TrackLimit = 10

	playlistDescription = "Playlist of your Music All Stars created at MusicLineup.io"
)

// Service defines the capability set every music provider implements.
//
// Implementations return wrapped [shared] sentinel errors and never panic. Callers in the
// tasks and editor packages convert errors into empty results.
type Service interface {
	// FetchTopArtists returns at most [TopArtistsLimit] artists for the window.
	FetchTopArtists(ctx context.Context, cred models.Credential, window models.TimeWindow) ([]models.Artist, error)

	// SearchArtists searches the provider catalog by free text.
	// A limit <= 0 selects the provider default.
	SearchArtists(ctx context.Context, cred models.Credential, query string, limit int) ([]models.Artist, error)

	// Kind identifies the provider.
	Kind() models.ProviderKind

	// Name returns the name of the service (e.g., "Spotify", "Last.fm")
	Name() string
}

// PlaylistService is implemented by providers that can save a lineup as a playlist.
type PlaylistService interface {
	Service

	// ArtistTracks returns up to limit representative tracks for artist.
	ArtistTracks(ctx context.Context, cred models.Credential, artist models.Artist, limit int) ([]models.Track, error)

	// CreatePlaylist creates a playlist holding tracks in order and returns its id.
	CreatePlaylist(ctx context.Context, cred models.Credential, name string, tracks []models.Track) (string, error)

	// PlaylistURL links to a created playlist.
	PlaylistURL(id string) string
}

// WindowlessService is implemented by providers that cannot segment listening history by time.
//
// One fetch serves every window.
type WindowlessService interface {
	Service
	FetchRecentArtists(ctx context.Context, cred models.Credential) ([]models.Artist, error)
}

// New builds the adapter for kind from config.
func New(kind models.ProviderKind, cfg *shared.Config, logger *log.Logger) (Service, error) {
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	opts := OptionsFromConfig(cfg.HTTP, logger)
	creds := cfg.Credentials

	switch kind {
	case models.Spotify:
		return NewSpotifyService(creds.Spotify.Map(), opts), nil
	case models.AppleMusic:
		kit := NewStaticMusicKit(creds.AppleMusic.UserToken)
		if err := kit.Configure(creds.AppleMusic.DeveloperToken); err != nil {
			return nil, err
		}
		return NewAppleMusicService(kit, creds.AppleMusic.Storefront, opts), nil
	case models.LastFM:
		return NewLastFMService(creds.LastFM.APIKey, creds.LastFM.Username, opts)
	case models.Scratch:
		opts.BaseURL = creds.Deezer.BaseURL
		return NewDeezerService(creds.Deezer.RapidAPIKey, creds.Deezer.RapidAPIHost, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownProvider, kind)
	}
}

// capArtists truncates artists to limit.
func capArtists(artists []models.Artist, limit int) []models.Artist {
	if limit > 0 && len(artists) > limit {
		return artists[:limit]
	}
	return artists
}

func orDefault(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
