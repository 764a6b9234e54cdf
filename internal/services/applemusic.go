// Apple Music API implementation of [Service]
//
// Response types based on https://developer.apple.com/documentation/applemusicapi
package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	appleBaseURL       = "https://api.music.apple.com/v1"
	appleLibraryURL    = "https://music.apple.com/library/playlist/"
	appleSearchLimit   = 5
	appleUserTokenHdr  = "Music-User-Token"
	appleDefaultRegion = "us"
)

type appleArtwork struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type appleAttributes struct {
	Name       string        `json:"name"`
	ArtistName string        `json:"artistName"`
	URL        string        `json:"url"`
	Artwork    *appleArtwork `json:"artwork"`
}

// AppleResource is a single Apple Music API resource object.
type AppleResource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes appleAttributes `json:"attributes"`
}

type appleResourceList struct {
	Data []AppleResource `json:"data"`
}

type appleSearchResponse struct {
	Results struct {
		Artists *appleResourceList `json:"artists"`
		Songs   *appleResourceList `json:"songs"`
	} `json:"results"`
}

type appleTrackRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type applePlaylistRequest struct {
	Attributes struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"attributes"`
	Relationships struct {
		Tracks struct {
			Data []appleTrackRef `json:"data"`
		} `json:"tracks"`
	} `json:"relationships"`
}

// AppleMusicService implements [PlaylistService] and [WindowlessService] for Apple Music.
//
// Apple exposes no top-artists ranking, so a lineup is sampled at random from recently played albums.
type AppleMusicService struct {
	kit        MusicKit
	storefront string
	api        *APIClient
	logger     *log.Logger
	shuffle    func(n int, swap func(i, j int))
}

// NewAppleMusicService creates an adapter that authorizes through kit.
func NewAppleMusicService(kit MusicKit, storefront string, opts Options) *AppleMusicService {
	if storefront == "" {
		storefront = appleDefaultRegion
	}
	return &AppleMusicService{
		kit:        kit,
		storefront: storefront,
		api:        NewAPIClient("applemusic", opts.baseURL(appleBaseURL), opts.httpClient(), opts.limiter()),
		logger:     opts.logger("applemusic"),
		shuffle:    rand.Shuffle,
	}
}

func (s *AppleMusicService) Name() string              { return "Apple Music" }
func (s *AppleMusicService) Kind() models.ProviderKind { return models.AppleMusic }

// client authorizes with the developer token and the session user token.
// An empty credential token falls back to [MusicKit.Authorize].
func (s *AppleMusicService) client(ctx context.Context, cred models.Credential) (*APIClient, error) {
	devToken := s.kit.DeveloperToken()
	if devToken == "" {
		return nil, fmt.Errorf("%w: musickit not configured", shared.ErrNotAuthenticated)
	}

	userToken := cred.Token
	if userToken == "" {
		t, err := s.kit.Authorize(ctx)
		if err != nil {
			return nil, err
		}
		userToken = t
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.api.HTTPClient())
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: devToken, TokenType: "Bearer"})
	return s.api.WithClient(oauth2.NewClient(ctx, src)).WithHeader(appleUserTokenHdr, userToken), nil
}

// FetchTopArtists ignores window: every window receives the same sample.
func (s *AppleMusicService) FetchTopArtists(ctx context.Context, cred models.Credential, _ models.TimeWindow) ([]models.Artist, error) {
	return s.FetchRecentArtists(ctx, cred)
}

// FetchRecentArtists samples up to [TopArtistsLimit] distinct artists from recently played albums
// and resolves each through the catalog. Names the catalog cannot resolve are dropped.
func (s *AppleMusicService) FetchRecentArtists(ctx context.Context, cred models.Credential) ([]models.Artist, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}

	var recent appleResourceList
	if err := api.Get(ctx, "/me/recent/played", nil, &recent); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(recent.Data))
	for _, r := range recent.Data {
		if r.Type != "albums" {
			continue
		}
		name := strings.TrimSpace(strings.ReplaceAll(r.Attributes.ArtistName, "&", ""))
		if name != "" {
			names = append(names, name)
		}
	}

	names = s.sample(names, TopArtistsLimit)

	resolved := make([]*models.Artist, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			matches, err := s.search(gctx, api, name, 1)
			if err != nil {
				s.logger.Warn("failed to resolve recent artist", "name", name, "err", err)
				return nil
			}
			if len(matches) > 0 {
				resolved[i] = &matches[0]
			}
			return nil
		})
	}
	_ = g.Wait()

	artists := make([]models.Artist, 0, len(resolved))
	for _, a := range resolved {
		if a != nil {
			artists = append(artists, *a)
		}
	}
	return artists, nil
}

// sample shuffles names and keeps the first n distinct entries.
func (s *AppleMusicService) sample(names []string, n int) []string {
	s.shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, n)
	for _, name := range names {
		if len(out) == n {
			break
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SearchArtists searches the storefront catalog for artists.
func (s *AppleMusicService) SearchArtists(ctx context.Context, cred models.Credential, q string, limit int) ([]models.Artist, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, api, q, orDefault(limit, appleSearchLimit))
}

func (s *AppleMusicService) search(ctx context.Context, api *APIClient, term string, limit int) ([]models.Artist, error) {
	query := url.Values{}
	query.Set("term", term)
	query.Set("types", "artists")
	query.Set("limit", strconv.Itoa(limit))

	var resp appleSearchResponse
	if err := api.Get(ctx, "/catalog/"+s.storefront+"/search", query, &resp); err != nil {
		return nil, err
	}
	if resp.Results.Artists == nil {
		return nil, nil
	}

	artists := make([]models.Artist, 0, len(resp.Results.Artists.Data))
	for _, r := range resp.Results.Artists.Data {
		artists = append(artists, models.NormalizeArtist(
			r.Attributes.Name, r.ID, r.Attributes.URL, appleArtworkURL(r.Attributes.Artwork), models.QuestionMarkImageURL,
		))
	}
	return artists, nil
}

// ArtistTracks searches the catalog for songs by the artist's name.
func (s *AppleMusicService) ArtistTracks(ctx context.Context, cred models.Credential, artist models.Artist, limit int) ([]models.Track, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("term", artist.Name)
	query.Set("types", "songs")
	query.Set("limit", strconv.Itoa(orDefault(limit, TrackLimit)))

	var resp appleSearchResponse
	if err := api.Get(ctx, "/catalog/"+s.storefront+"/search", query, &resp); err != nil {
		return nil, err
	}
	if resp.Results.Songs == nil {
		return nil, nil
	}

	tracks := make([]models.Track, 0, len(resp.Results.Songs.Data))
	for _, r := range resp.Results.Songs.Data {
		tracks = append(tracks, models.Track{
			ID:     r.ID,
			URI:    r.Attributes.URL,
			Title:  r.Attributes.Name,
			Artist: r.Attributes.ArtistName,
		})
	}
	return tracks, nil
}

// CreatePlaylist creates a library playlist holding tracks.
func (s *AppleMusicService) CreatePlaylist(ctx context.Context, cred models.Credential, name string, tracks []models.Track) (string, error) {
	api, err := s.client(ctx, cred)
	if err != nil {
		return "", err
	}

	var body applePlaylistRequest
	body.Attributes.Name = name
	body.Attributes.Description = playlistDescription
	body.Relationships.Tracks.Data = make([]appleTrackRef, 0, len(tracks))
	for _, t := range tracks {
		body.Relationships.Tracks.Data = append(body.Relationships.Tracks.Data, appleTrackRef{ID: t.ID, Type: "songs"})
	}

	var resp appleResourceList
	if err := api.Post(ctx, "/me/library/playlists", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].ID == "" {
		return "", fmt.Errorf("%w: apple music returned no playlist id", shared.ErrDecode)
	}
	return resp.Data[0].ID, nil
}

func (s *AppleMusicService) PlaylistURL(id string) string {
	return appleLibraryURL + id
}

// appleArtworkURL fills the {w}x{h} template with the artwork height.
func appleArtworkURL(a *appleArtwork) string {
	if a == nil || a.URL == "" {
		return ""
	}
	size := strconv.Itoa(a.Height)
	return strings.NewReplacer("{w}", size, "{h}", size).Replace(a.URL)
}

var (
	_ PlaylistService   = (*AppleMusicService)(nil)
	_ WindowlessService = (*AppleMusicService)(nil)
)
