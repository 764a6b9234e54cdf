// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL     = "https://accounts.spotify.com/authorize"
	spotifyTokenURL    = "https://accounts.spotify.com/api/token"
	spotifyBaseURL     = "https://api.spotify.com/v1"
	spotifyPlaylistURL = "https://open.spotify.com/playlist/"
	spotifyMarket      = "US"
	spotifySearchLimit = 10
	spotifyTrackChunk  = 100
)

var spotifyTimeRanges = map[models.TimeWindow]string{
	models.AllTime:   "long_term",
	models.SixMonths: "medium_term",
	models.LastMonth: "short_term",
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Images       []SpotifyImage `json:"images"`
	Popularity   int            `json:"popularity"`
	URI          string         `json:"uri"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

type spotifyArtistPage struct {
	Items  []SpotifyArtist `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Next   *string         `json:"next"`
}

type spotifySearchResponse struct {
	Artists spotifyArtistPage `json:"artists"`
}

type spotifyTopTracks struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

type spotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type spotifyPlaylistRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
}

type spotifyAddTracksRequest struct {
	URIs []string `json:"uris"`
}

// SpotifyService implements [PlaylistService] for the Spotify Web API.
//
// Requests carry the session access token through an [oauth2] client.
type SpotifyService struct {
	config *oauth2.Config
	api    *APIClient
	logger *log.Logger
}

// NewSpotifyService creates a Spotify adapter. The OAuth2 app credentials are only needed for [SpotifyService.AuthConfig].
func NewSpotifyService(credentials map[string]string, opts Options) *SpotifyService {
	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     credentials["client_id"],
		ClientSecret: credentials["client_secret"],
		RedirectURL:  redirectURI,
		Scopes:       []string{"user-top-read", "playlist-modify-public"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config: config,
		api:    NewAPIClient("spotify", opts.baseURL(spotifyBaseURL), opts.httpClient(), opts.limiter()),
		logger: opts.logger("spotify"),
	}
}

func (s *SpotifyService) Name() string              { return "Spotify" }
func (s *SpotifyService) Kind() models.ProviderKind { return models.Spotify }

// AuthConfig returns the OAuth2 config used by the login flow.
func (s *SpotifyService) AuthConfig() (*oauth2.Config, error) {
	if s.config.ClientID == "" || s.config.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	return s.config, nil
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// client derives an authorized API client for cred.
func (s *SpotifyService) client(ctx context.Context, cred models.Credential) (*APIClient, error) {
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: spotify access token", shared.ErrNotAuthenticated)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.api.HTTPClient())
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cred.Token, TokenType: "Bearer"})
	return s.api.WithClient(oauth2.NewClient(ctx, src)), nil
}

// UserProfile fetches the current user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context, cred models.Credential) (*SpotifyUser, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}

	var user SpotifyUser
	if err := api.Get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchTopArtists reads the user's top artists for the window, ordered by popularity.
func (s *SpotifyService) FetchTopArtists(ctx context.Context, cred models.Credential, window models.TimeWindow) ([]models.Artist, error) {
	timeRange, ok := spotifyTimeRanges[window]
	if !ok {
		return nil, fmt.Errorf("%w: time window %d", shared.ErrInvalidArgument, window)
	}

	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("time_range", timeRange)
	query.Set("limit", strconv.Itoa(TopArtistsLimit))
	query.Set("offset", "0")

	var page spotifyArtistPage
	if err := api.Get(ctx, "/me/top/artists", query, &page); err != nil {
		return nil, err
	}

	items := slices.Clone(page.Items)
	slices.SortStableFunc(items, func(a, b SpotifyArtist) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})

	artists := make([]models.Artist, 0, len(items))
	for _, item := range items {
		artists = append(artists, spotifyArtist(item, models.PlaceholderImageURL))
	}

	s.logger.Debug("fetched top artists", "window", window, "count", len(artists))
	return capArtists(artists, TopArtistsLimit), nil
}

// SearchArtists runs a catalog artist search in the US market.
func (s *SpotifyService) SearchArtists(ctx context.Context, cred models.Credential, q string, limit int) ([]models.Artist, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("type", "artist")
	query.Set("market", spotifyMarket)
	query.Set("limit", strconv.Itoa(orDefault(limit, spotifySearchLimit)))
	query.Set("offset", "0")

	var resp spotifySearchResponse
	if err := api.Get(ctx, "/search", query, &resp); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(resp.Artists.Items))
	for _, item := range resp.Artists.Items {
		artists = append(artists, spotifyArtist(item, models.QuestionMarkImageURL))
	}
	return artists, nil
}

// ArtistTracks returns the artist's top tracks in the US market.
func (s *SpotifyService) ArtistTracks(ctx context.Context, cred models.Credential, artist models.Artist, limit int) ([]models.Track, error) {
	if artist.ID == "" {
		return nil, fmt.Errorf("%w: artist %q has no spotify id", shared.ErrInvalidInput, artist.Name)
	}

	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("market", spotifyMarket)

	var resp spotifyTopTracks
	if err := api.Get(ctx, "/artists/"+url.PathEscape(artist.ID)+"/top-tracks", query, &resp); err != nil {
		return nil, err
	}

	limit = orDefault(limit, TrackLimit)
	tracks := make([]models.Track, 0, min(limit, len(resp.Tracks)))
	for _, t := range resp.Tracks {
		if len(tracks) == limit {
			break
		}
		tracks = append(tracks, models.Track{ID: t.ID, URI: t.URI, Title: t.Name, Artist: artist.Name})
	}
	return tracks, nil
}

// CreatePlaylist creates a public playlist for the user and adds tracks to it.
//
// A failure adding tracks is logged; the playlist id is still returned.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, cred models.Credential, name string, tracks []models.Track) (string, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return "", err
	}

	userID := cred.UserID
	if userID == "" {
		user, err := s.UserProfile(ctx, cred)
		if err != nil {
			return "", fmt.Errorf("failed to resolve spotify user: %w", err)
		}
		userID = user.ID
	}

	body := spotifyPlaylistRequest{Name: name, Description: playlistDescription, Public: true}
	var pl spotifyPlaylist
	if err := api.Post(ctx, "/users/"+url.PathEscape(userID)+"/playlists", body, &pl); err != nil {
		return "", err
	}
	if pl.ID == "" {
		return "", fmt.Errorf("%w: spotify returned no playlist id", shared.ErrDecode)
	}

	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.URI != "" {
			uris = append(uris, t.URI)
		}
	}

	for chunk := range slices.Chunk(uris, spotifyTrackChunk) {
		if err := api.Post(ctx, "/playlists/"+url.PathEscape(pl.ID)+"/tracks", spotifyAddTracksRequest{URIs: chunk}, nil); err != nil {
			s.logger.Warn("failed to add tracks to playlist", "playlist", pl.ID, "count", len(chunk), "err", err)
		}
	}

	return pl.ID, nil
}

func (s *SpotifyService) PlaylistURL(id string) string {
	return spotifyPlaylistURL + id
}

func spotifyArtist(a SpotifyArtist, fallbackImage string) models.Artist {
	artist := models.NormalizeArtist(a.Name, a.ID, a.ExternalURLs.Spotify, spotifyImage(a.Images), fallbackImage)
	popularity := a.Popularity
	artist.Popularity = &popularity
	return artist
}

// spotifyImage prefers the medium rendition (index 1) Spotify returns.
func spotifyImage(images []SpotifyImage) string {
	switch {
	case len(images) > 1:
		return images[1].URL
	case len(images) == 1:
		return images[0].URL
	default:
		return ""
	}
}

var _ PlaylistService = (*SpotifyService)(nil)
