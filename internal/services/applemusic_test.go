package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/shared"
)

func newTestAppleService(t *testing.T, handler http.HandlerFunc) (*AppleMusicService, func()) {
	t.Helper()
	server := httptest.NewServer(handler)

	kit := NewStaticMusicKit("user-token")
	if err := kit.Configure("dev-token"); err != nil {
		t.Fatalf("failed to configure kit: %v", err)
	}

	srv := NewAppleMusicService(kit, "", testOptions(server.URL))
	srv.shuffle = func(int, func(i, j int)) {}
	return srv, server.Close
}

func appleSearchBody(names ...string) string {
	data := make([]map[string]any, 0, len(names))
	for _, n := range names {
		data = append(data, map[string]any{
			"id":   "id-" + n,
			"type": "artists",
			"attributes": map[string]any{
				"name":    n,
				"url":     "https://music.apple.com/artist/" + n,
				"artwork": map[string]any{"url": "https://img/{w}x{h}.jpg", "width": 1000, "height": 300},
			},
		})
	}
	b, _ := json.Marshal(map[string]any{"results": map[string]any{"artists": map[string]any{"data": data}}})
	return string(b)
}

func TestMusicKit(t *testing.T) {
	t.Run("Authorize Before Configure", func(t *testing.T) {
		kit := NewStaticMusicKit("user")
		if _, err := kit.Authorize(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Configure Requires Token", func(t *testing.T) {
		if err := NewStaticMusicKit("user").Configure(""); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Authorize Without User Token", func(t *testing.T) {
		kit := NewStaticMusicKit("")
		kit.Configure("dev")
		if _, err := kit.Authorize(context.Background()); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Authorize", func(t *testing.T) {
		kit := NewStaticMusicKit("user")
		kit.Configure("dev")
		token, err := kit.Authorize(context.Background())
		if err != nil || token != "user" {
			t.Errorf("expected user token, got %q %v", token, err)
		}
	})
}

func TestAppleMusicService(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchRecentArtists", func(t *testing.T) {
		srv, done := newTestAppleService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer dev-token" {
				t.Errorf("expected developer bearer token, got %q", r.Header.Get("Authorization"))
			}
			if r.Header.Get("Music-User-Token") != "user-token" {
				t.Errorf("expected user token header, got %q", r.Header.Get("Music-User-Token"))
			}

			switch r.URL.Path {
			case "/me/recent/played":
				w.Write([]byte(`{"data":[
					{"id":"1","type":"albums","attributes":{"artistName":"Simon & Garfunkel"}},
					{"id":"2","type":"playlists","attributes":{"artistName":"Ignored"}},
					{"id":"3","type":"albums","attributes":{"artistName":"Drake"}},
					{"id":"4","type":"albums","attributes":{"artistName":"Drake"}},
					{"id":"5","type":"albums","attributes":{"artistName":"Unknown"}}
				]}`))
			case "/catalog/us/search":
				term := r.URL.Query().Get("term")
				if r.URL.Query().Get("limit") != "1" {
					t.Errorf("expected limit 1 for resolution, got %s", r.URL.Query().Get("limit"))
				}
				if term == "Unknown" {
					w.Write([]byte(`{"results":{}}`))
					return
				}
				w.Write([]byte(appleSearchBody(term)))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})
		defer done()

		artists, err := srv.FetchTopArtists(ctx, models.Credential{}, models.SixMonths)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"Simon  Garfunkel", "Drake"}
		if len(artists) != len(want) {
			t.Fatalf("expected %v, got %v", want, artists)
		}
		for i, name := range want {
			if artists[i].Name != name {
				t.Errorf("slot %d: expected %q, got %q", i, name, artists[i].Name)
			}
		}
		if artists[1].ImageURL != "https://img/300x300.jpg" {
			t.Errorf("expected artwork sized by height, got %s", artists[1].ImageURL)
		}
	})

	t.Run("Uses Credential Token Over Kit", func(t *testing.T) {
		srv, done := newTestAppleService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Music-User-Token") != "session-token" {
				t.Errorf("expected session token, got %q", r.Header.Get("Music-User-Token"))
			}
			w.Write([]byte(appleSearchBody("Adele")))
		})
		defer done()

		artists, err := srv.SearchArtists(ctx, models.Credential{Token: "session-token"}, "adele", 0)
		if err != nil || len(artists) != 1 {
			t.Fatalf("expected one artist, got %v %v", artists, err)
		}
	})

	t.Run("SearchArtists Default Limit", func(t *testing.T) {
		srv, done := newTestAppleService(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("types") != "artists" || q.Get("limit") != "5" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(appleSearchBody("A", "B")))
		})
		defer done()

		artists, err := srv.SearchArtists(ctx, models.Credential{}, "a", 0)
		if err != nil || len(artists) != 2 {
			t.Fatalf("expected two artists, got %v %v", artists, err)
		}
	})

	t.Run("Unconfigured Kit", func(t *testing.T) {
		srv := NewAppleMusicService(NewStaticMusicKit("u"), "us", testOptions("http://example.invalid"))
		if _, err := srv.SearchArtists(ctx, models.Credential{}, "a", 0); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("ArtistTracks", func(t *testing.T) {
		srv, done := newTestAppleService(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("types") != "songs" || q.Get("limit") != "10" || q.Get("term") != "Drake" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"results":{"songs":{"data":[
				{"id":"s1","type":"songs","attributes":{"name":"One","artistName":"Drake"}},
				{"id":"s2","type":"songs","attributes":{"name":"Two","artistName":"Drake"}}
			]}}}`))
		})
		defer done()

		tracks, err := srv.ArtistTracks(ctx, models.Credential{}, models.Artist{Name: "Drake"}, 0)
		if err != nil || len(tracks) != 2 || tracks[0].ID != "s1" {
			t.Fatalf("unexpected tracks %v %v", tracks, err)
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		srv, done := newTestAppleService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/me/library/playlists" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var body applePlaylistRequest
			json.NewDecoder(r.Body).Decode(&body)
			if body.Attributes.Name != "All Star Music Lineup" {
				t.Errorf("unexpected name %q", body.Attributes.Name)
			}
			refs := body.Relationships.Tracks.Data
			if len(refs) != 2 || refs[0].Type != "songs" {
				t.Errorf("unexpected track refs %+v", refs)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":[{"id":"p.123","type":"library-playlists"}]}`))
		})
		defer done()

		id, err := srv.CreatePlaylist(ctx, models.Credential{}, "All Star Music Lineup", []models.Track{{ID: "s1"}, {ID: "s2"}})
		if err != nil || id != "p.123" {
			t.Fatalf("expected p.123, got %q %v", id, err)
		}
		if !strings.HasSuffix(srv.PlaylistURL(id), "p.123") {
			t.Errorf("unexpected url %s", srv.PlaylistURL(id))
		}
	})

	t.Run("CreatePlaylist Empty Response", func(t *testing.T) {
		srv, done := newTestAppleService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[]}`))
		})
		defer done()

		if _, err := srv.CreatePlaylist(ctx, models.Credential{}, "n", nil); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
	})
}
