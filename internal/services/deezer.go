// Deezer search implementation of [Service], used for lineups built from scratch
package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/models"
)

const (
	deezerBaseURL     = "https://api.deezer.com"
	deezerSearchLimit = 5
)

// DeezerArtist is the artist object embedded in Deezer search results.
type DeezerArtist struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Link       string `json:"link"`
	PictureBig string `json:"picture_big"`
}

type deezerSearchResult struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Artist DeezerArtist `json:"artist"`
}

type deezerSearchResponse struct {
	Data  []deezerSearchResult `json:"data"`
	Total int                  `json:"total"`
}

// DeezerService implements [Service] over the public Deezer search API. It needs no account.
//
// Scratch lineups start empty, so FetchTopArtists always returns nothing.
type DeezerService struct {
	api    *APIClient
	logger *log.Logger
}

// NewDeezerService creates the scratch adapter. A RapidAPI key routes requests through the RapidAPI proxy.
func NewDeezerService(rapidAPIKey, rapidAPIHost string, opts Options) *DeezerService {
	api := NewAPIClient("deezer", opts.baseURL(deezerBaseURL), opts.httpClient(), opts.limiter())
	if rapidAPIKey != "" {
		api = api.WithHeader("X-RapidAPI-Key", rapidAPIKey)
		if rapidAPIHost != "" {
			api = api.WithHeader("X-RapidAPI-Host", rapidAPIHost)
		}
	}
	return &DeezerService{api: api, logger: opts.logger("deezer")}
}

func (s *DeezerService) Name() string              { return "Deezer" }
func (s *DeezerService) Kind() models.ProviderKind { return models.Scratch }

func (s *DeezerService) FetchTopArtists(context.Context, models.Credential, models.TimeWindow) ([]models.Artist, error) {
	return nil, nil
}

// SearchArtists searches tracks and returns their distinct artists in result order.
func (s *DeezerService) SearchArtists(ctx context.Context, _ models.Credential, query string, limit int) ([]models.Artist, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(orDefault(limit, deezerSearchLimit)))

	var resp deezerSearchResponse
	if err := s.api.Get(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(resp.Data))
	artists := make([]models.Artist, 0, len(resp.Data))
	for _, r := range resp.Data {
		a := r.Artist
		if a.Name == "" {
			continue
		}
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}

		id := ""
		if a.ID != 0 {
			id = strconv.FormatInt(a.ID, 10)
		}
		artists = append(artists, models.NormalizeArtist(a.Name, id, a.Link, a.PictureBig, models.QuestionMarkImageURL))
	}
	return artists, nil
}

var _ Service = (*DeezerService)(nil)
