// Last.fm API implementation of [Service]
//
// Response types based on https://www.last.fm/api
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
)

const (
	lastfmBaseURL     = "https://ws.audioscrobbler.com/2.0"
	lastfmSearchLimit = 5
	lastfmImageIndex  = 3 // extralarge
)

var lastfmPeriods = map[models.TimeWindow]string{
	models.AllTime:   "overall",
	models.SixMonths: "6month",
	models.LastMonth: "1month",
}

type lastfmImage struct {
	Text string `json:"#text"`
	Size string `json:"size"`
}

// LastFMArtist is an artist entry in Last.fm responses.
type LastFMArtist struct {
	Name   string        `json:"name"`
	MBID   string        `json:"mbid"`
	URL    string        `json:"url"`
	Images []lastfmImage `json:"image"`
}

// LastFMUser is the profile returned by user.getinfo.
type LastFMUser struct {
	Name     string `json:"name"`
	RealName string `json:"realname"`
	URL      string `json:"url"`
}

// lastfmError is embedded in every envelope: Last.fm reports some failures with a 200 status.
type lastfmError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

func (e lastfmError) err() error {
	if e.Code == 0 {
		return nil
	}
	return fmt.Errorf("%w: lastfm error %d: %s", shared.ErrAPIRequest, e.Code, e.Message)
}

type lastfmTopArtists struct {
	lastfmError
	TopArtists struct {
		Artist []LastFMArtist `json:"artist"`
	} `json:"topartists"`
}

type lastfmSearch struct {
	lastfmError
	Results struct {
		ArtistMatches struct {
			Artist []LastFMArtist `json:"artist"`
		} `json:"artistmatches"`
	} `json:"results"`
}

type lastfmUserInfo struct {
	lastfmError
	User LastFMUser `json:"user"`
}

// LastFMService implements [Service] for Last.fm. The credential token is the Last.fm username.
type LastFMService struct {
	apiKey      string
	defaultUser string
	api         *APIClient
	logger      *log.Logger
}

// NewLastFMService creates a Last.fm adapter. defaultUser is used when a credential carries no username.
func NewLastFMService(apiKey, defaultUser string, opts Options) (*LastFMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: lastfm api_key", shared.ErrMissingCredentials)
	}
	return &LastFMService{
		apiKey:      apiKey,
		defaultUser: defaultUser,
		api:         NewAPIClient("lastfm", opts.baseURL(lastfmBaseURL), opts.httpClient(), opts.limiter()),
		logger:      opts.logger("lastfm"),
	}, nil
}

func (s *LastFMService) Name() string              { return "Last.fm" }
func (s *LastFMService) Kind() models.ProviderKind { return models.LastFM }

func (s *LastFMService) query(method string) url.Values {
	q := url.Values{}
	q.Set("method", method)
	q.Set("api_key", s.apiKey)
	q.Set("format", "json")
	return q
}

func (s *LastFMService) username(cred models.Credential) (string, error) {
	if cred.Token != "" {
		return cred.Token, nil
	}
	if s.defaultUser != "" {
		return s.defaultUser, nil
	}
	return "", fmt.Errorf("%w: lastfm username", shared.ErrNotAuthenticated)
}

// ValidateUser checks that username exists.
func (s *LastFMService) ValidateUser(ctx context.Context, username string) (*LastFMUser, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", shared.ErrInvalidUser)
	}

	q := s.query("user.getinfo")
	q.Set("user", username)

	var resp lastfmUserInfo
	if err := s.api.Get(ctx, "/", q, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidUser, username, err)
	}
	if err := resp.err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidUser, username, err)
	}
	return &resp.User, nil
}

// FetchTopArtists reads user.gettopartists for the window's period.
func (s *LastFMService) FetchTopArtists(ctx context.Context, cred models.Credential, window models.TimeWindow) ([]models.Artist, error) {
	period, ok := lastfmPeriods[window]
	if !ok {
		return nil, fmt.Errorf("%w: time window %d", shared.ErrInvalidArgument, window)
	}

	user, err := s.username(cred)
	if err != nil {
		return nil, err
	}

	q := s.query("user.gettopartists")
	q.Set("user", user)
	q.Set("period", period)
	q.Set("limit", strconv.Itoa(TopArtistsLimit))

	var resp lastfmTopArtists
	if err := s.api.Get(ctx, "/", q, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(resp.TopArtists.Artist))
	for _, a := range resp.TopArtists.Artist {
		artists = append(artists, lastfmArtist(a, models.PlaceholderImageURL))
	}
	return capArtists(artists, TopArtistsLimit), nil
}

// SearchArtists runs artist.search.
func (s *LastFMService) SearchArtists(ctx context.Context, _ models.Credential, query string, limit int) ([]models.Artist, error) {
	q := s.query("artist.search")
	q.Set("artist", query)
	q.Set("limit", strconv.Itoa(orDefault(limit, lastfmSearchLimit)))

	var resp lastfmSearch
	if err := s.api.Get(ctx, "/", q, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	matches := resp.Results.ArtistMatches.Artist
	artists := make([]models.Artist, 0, len(matches))
	for _, a := range matches {
		artists = append(artists, lastfmArtist(a, models.QuestionMarkImageURL))
	}
	return artists, nil
}

func lastfmArtist(a LastFMArtist, fallbackImage string) models.Artist {
	return models.NormalizeArtist(a.Name, a.MBID, a.URL, lastfmImageURL(a.Images), fallbackImage)
}

// lastfmImageURL prefers the extralarge rendition and falls back to the largest non-empty one.
func lastfmImageURL(images []lastfmImage) string {
	if len(images) > lastfmImageIndex && images[lastfmImageIndex].Text != "" {
		return images[lastfmImageIndex].Text
	}
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].Text != "" {
			return images[i].Text
		}
	}
	return ""
}

var _ Service = (*LastFMService)(nil)
