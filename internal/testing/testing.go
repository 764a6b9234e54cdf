// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/lineup/internal/models"
)

// MockService is a test double for [services.PlaylistService].
//
// Responses are keyed by time window, search query and artist name. Zero values return empty results.
type MockService struct {
	mu sync.Mutex

	Top       map[models.TimeWindow][]models.Artist
	TopErr    map[models.TimeWindow]error
	Results   map[string][]models.Artist
	SearchErr error
	Tracks    map[string][]models.Track
	TrackErr  map[string]error
	CreateID  string
	CreateErr error

	TopCalls     int
	SearchCalls  []string
	CreatedName  string
	CreatedWith  []models.Track
	CreatedCalls int
}

func (m *MockService) Name() string              { return "mock" }
func (m *MockService) Kind() models.ProviderKind { return models.Scratch }

func (m *MockService) FetchTopArtists(ctx context.Context, cred models.Credential, w models.TimeWindow) ([]models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TopCalls++
	if err := m.TopErr[w]; err != nil {
		return nil, err
	}
	return m.Top[w], nil
}

func (m *MockService) SearchArtists(ctx context.Context, cred models.Credential, query string, limit int) ([]models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls = append(m.SearchCalls, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Results[query], nil
}

func (m *MockService) ArtistTracks(ctx context.Context, cred models.Credential, artist models.Artist, limit int) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.TrackErr[artist.Name]; err != nil {
		return nil, err
	}
	tracks := m.Tracks[artist.Name]
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, cred models.Credential, name string, tracks []models.Track) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedCalls++
	m.CreatedName = name
	m.CreatedWith = tracks
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.CreateID, nil
}

func (m *MockService) PlaylistURL(id string) string { return "mock://playlist/" + id }

// SearchOnlyService is a test double without playlist support.
type SearchOnlyService struct {
	Results map[string][]models.Artist
}

func (s *SearchOnlyService) Name() string              { return "search-only" }
func (s *SearchOnlyService) Kind() models.ProviderKind { return models.LastFM }

func (s *SearchOnlyService) FetchTopArtists(context.Context, models.Credential, models.TimeWindow) ([]models.Artist, error) {
	return nil, nil
}

func (s *SearchOnlyService) SearchArtists(_ context.Context, _ models.Credential, query string, _ int) ([]models.Artist, error) {
	return s.Results[query], nil
}

// Artists builds artists with the given names and ids equal to the name.
func Artists(names ...string) []models.Artist {
	out := make([]models.Artist, len(names))
	for i, n := range names {
		out[i] = models.Artist{Name: n, ID: n, ImageURL: "https://img/" + n}
	}
	return out
}

// Tracks builds n tracks for artist with unique ids.
func Tracks(artist string, n int) []models.Track {
	out := make([]models.Track, n)
	for i := range out {
		id := fmt.Sprintf("%s-%d", artist, i)
		out[i] = models.Track{ID: id, URI: "mock:track:" + id, Title: id, Artist: artist}
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
