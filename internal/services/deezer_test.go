package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/lineup/internal/models"
)

func TestDeezerService(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchTopArtists Is Empty", func(t *testing.T) {
		srv := NewDeezerService("", "", testOptions("http://example.invalid"))
		artists, err := srv.FetchTopArtists(ctx, models.Credential{}, models.AllTime)
		if err != nil || len(artists) != 0 {
			t.Errorf("expected empty result, got %v %v", artists, err)
		}
	})

	t.Run("SearchArtists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if r.URL.Path != "/search" || q.Get("q") != "drake" || q.Get("limit") != "5" {
				t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
			}
			if r.Header.Get("X-RapidAPI-Key") != "" {
				t.Error("expected no rapidapi header without key")
			}
			w.Write([]byte(`{"data":[
				{"id":1,"title":"One Dance","artist":{"id":246791,"name":"Drake","link":"https://www.deezer.com/artist/246791","picture_big":"big.jpg"}},
				{"id":2,"title":"Hotline Bling","artist":{"id":246791,"name":"Drake","link":"https://www.deezer.com/artist/246791","picture_big":"big.jpg"}},
				{"id":3,"title":"Collab","artist":{"id":7,"name":"Kanye West","picture_big":""}}
			],"total":3}`))
		}))
		defer server.Close()

		srv := NewDeezerService("", "", testOptions(server.URL))
		artists, err := srv.SearchArtists(ctx, models.Credential{}, "drake", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 2 {
			t.Fatalf("expected distinct artists, got %v", artists)
		}
		if artists[0].ID != "246791" || artists[0].ImageURL != "big.jpg" || artists[0].URI == "" {
			t.Errorf("unexpected mapping %+v", artists[0])
		}
		if artists[1].ImageURL == models.QuestionMarkImageURL {
			t.Error("expected image override to win over fallback")
		}
	})

	t.Run("RapidAPI Headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-RapidAPI-Key") != "k" || r.Header.Get("X-RapidAPI-Host") != "h" {
				t.Errorf("expected rapidapi headers, got %v", r.Header)
			}
			w.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		srv := NewDeezerService("k", "h", testOptions(server.URL))
		if _, err := srv.SearchArtists(ctx, models.Credential{}, "x", 5); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
