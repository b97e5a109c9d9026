package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showgrab/showgrab/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.CatalogConfig{
		APIKey:       "test-key",
		BaseURL:      serverURL,
		ImageBaseURL: "https://images.example/t/p",
		Timeout:      5,
	}, zerolog.Nop())
}

func TestClient_IsConfigured(t *testing.T) {
	client := NewClient(config.CatalogConfig{}, zerolog.Nop())
	assert.False(t, client.IsConfigured())

	_, err := client.FindSeriesByExternalID(context.Background(), "tt0944947")
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestClient_FindSeriesByExternalID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/find/tt0944947", r.URL.Path)
			assert.Equal(t, "imdb_id", r.URL.Query().Get("external_source"))
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			fmt.Fprint(w, `{"tv_results":[{"id":1399,"name":"Game of Thrones"}]}`)
		}))
		defer server.Close()

		id, err := newTestClient(server.URL).FindSeriesByExternalID(context.Background(), "tt0944947")
		require.NoError(t, err)
		assert.Equal(t, 1399, id)
	})

	t.Run("no tv results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"tv_results":[]}`)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FindSeriesByExternalID(context.Background(), "tt0000000")
		assert.ErrorIs(t, err, ErrSeriesNotFound)
	})
}

func TestClient_GetSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399", r.URL.Path)
		fmt.Fprint(w, `{"id":1399,"name":"Game of Thrones","overview":"Seven kingdoms.",
			"first_air_date":"2011-04-17","poster_path":"/poster.jpg",
			"vote_average":8.4,"vote_count":21000,"number_of_seasons":8}`)
	}))
	defer server.Close()

	series, err := newTestClient(server.URL).GetSeries(context.Background(), 1399)
	require.NoError(t, err)
	assert.Equal(t, "Game of Thrones", series.Title)
	assert.Equal(t, 8, series.TotalSeasons)
	assert.Equal(t, "https://images.example/t/p/w500/poster.jpg", series.PosterURL)
}

func TestClient_GetEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399/season/1/episode/1", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))

		crew := ""
		for i := 1; i <= 8; i++ {
			if i > 1 {
				crew += ","
			}
			crew += fmt.Sprintf(`{"id":%d,"name":"Crew %d","job":"Director"}`, i, i)
		}
		fmt.Fprintf(w, `{"name":"Winter Is Coming","season_number":1,"episode_number":1,
			"runtime":62,"still_path":"/still.jpg","vote_average":8.1,"vote_count":400,
			"credits":{"crew":[%s],"guest_stars":[{"id":99,"name":"Guest","character":"Lord","profile_path":"/g.jpg"}]}}`, crew)
	}))
	defer server.Close()

	episode, err := newTestClient(server.URL).GetEpisode(context.Background(), 1399, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Winter Is Coming", episode.Title)
	assert.Len(t, episode.Crew, 5, "crew must be capped")
	assert.Equal(t, "Crew 1", episode.Crew[0].Name, "original ordering kept")
	require.Len(t, episode.GuestStars, 1)
	assert.Equal(t, "Lord", episode.GuestStars[0].Role)
	assert.Equal(t, "https://images.example/t/p/w185/g.jpg", episode.GuestStars[0].PhotoURL)
	assert.Equal(t, "https://images.example/t/p/w500/still.jpg", episode.StillURL)
}

func TestClient_GetLogoURL(t *testing.T) {
	t.Run("prefers english", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "en,null", r.URL.Query().Get("include_image_language"))
			fmt.Fprint(w, `{"logos":[{"file_path":"/de.png","iso_639_1":"de"},{"file_path":"/en.png","iso_639_1":"en"}]}`)
		}))
		defer server.Close()

		logo, err := newTestClient(server.URL).GetLogoURL(context.Background(), 1399)
		require.NoError(t, err)
		assert.Equal(t, "https://images.example/t/p/w500/en.png", logo)
	})

	t.Run("falls back to first", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"logos":[{"file_path":"/de.png","iso_639_1":"de"}]}`)
		}))
		defer server.Close()

		logo, err := newTestClient(server.URL).GetLogoURL(context.Background(), 1399)
		require.NoError(t, err)
		assert.Equal(t, "https://images.example/t/p/w500/de.png", logo)
	})

	t.Run("none", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"logos":[]}`)
		}))
		defer server.Close()

		logo, err := newTestClient(server.URL).GetLogoURL(context.Background(), 1399)
		require.NoError(t, err)
		assert.Empty(t, logo)
	})
}

func TestClient_GetTrailerURL(t *testing.T) {
	t.Run("prefers official trailers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[
				{"key":"fan1","site":"YouTube","type":"Trailer","official":false},
				{"key":"teaser1","site":"YouTube","type":"Teaser","official":true},
				{"key":"off1","site":"YouTube","type":"Trailer","official":true}]}`)
		}))
		defer server.Close()

		trailer, err := newTestClient(server.URL).GetTrailerURL(context.Background(), 1399)
		require.NoError(t, err)
		assert.Equal(t, "https://www.youtube.com/watch?v=off1", trailer)
	})

	t.Run("unofficial fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[{"key":"fan1","site":"YouTube","type":"Trailer","official":false}]}`)
		}))
		defer server.Close()

		trailer, err := newTestClient(server.URL).GetTrailerURL(context.Background(), 1399)
		require.NoError(t, err)
		assert.Equal(t, "https://www.youtube.com/watch?v=fan1", trailer)
	})
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrAPIError},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"status_code":1,"status_message":"nope","success":false}`)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetSeries(context.Background(), 1399)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}
