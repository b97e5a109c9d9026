package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func driveTestServer(t *testing.T, wantID string, file driveFileInfo) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/file/"+wantID {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(file)
	}))
}

func int64ptr(v int64) *int64       { return &v }
func intptr(v int) *int             { return &v }
func float64ptr(v float64) *float64 { return &v }

func TestDriveProber_QualityFromResolution(t *testing.T) {
	tests := []struct {
		name   string
		height int
		want   string
	}{
		{"sd", 360, "360p"},
		{"480", 480, "480p"},
		{"hd", 720, "720p"},
		{"full hd", 1080, "1080p"},
		{"qhd", 1440, "1440p"},
		{"uhd", 2160, "4K"},
		{"beyond uhd", 4320, "4320p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := driveFileInfo{Size: int64ptr(1572864), MimeType: "video/mp4"}
			file.Video = &struct {
				Height   *int     `json:"height"`
				Duration *float64 `json:"duration"`
			}{Height: intptr(tt.height)}

			server := driveTestServer(t, "abc123", file)
			defer server.Close()

			prober := NewDriveProber(server.URL, 2*time.Second, zerolog.Nop())
			info := prober.Probe(context.Background(), "https://drive.example/file/abc123")

			if info.Quality != tt.want {
				t.Errorf("Quality = %q, want %q", info.Quality, tt.want)
			}
			if info.Size != "1.50 MB" {
				t.Errorf("Size = %q, want %q", info.Size, "1.50 MB")
			}
		})
	}
}

func TestDriveProber_QualityFromBitrate(t *testing.T) {
	// 300 MB over 40 minutes is 1000 kbps, inside the 480p bucket.
	file := driveFileInfo{Size: int64ptr(300_000_000), MimeType: "video/mp4"}
	file.Video = &struct {
		Height   *int     `json:"height"`
		Duration *float64 `json:"duration"`
	}{Duration: float64ptr(2400)}

	server := driveTestServer(t, "abc123", file)
	defer server.Close()

	prober := NewDriveProber(server.URL, 2*time.Second, zerolog.Nop())
	info := prober.Probe(context.Background(), "https://drive.example/file/abc123")

	if info.Quality != "480p" {
		t.Errorf("Quality = %q, want %q", info.Quality, "480p")
	}
}

func TestDriveProber_BitrateBuckets(t *testing.T) {
	tests := []struct {
		name string
		kbps float64
		want string
	}{
		{"low", 500, "360p"},
		{"sd", 1200, "480p"},
		{"hd", 2500, "720p"},
		{"full hd", 5000, "1080p"},
		{"very high", 9000, "4K+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// size chosen so size*8/duration/1000 == kbps over 1000s
			size := int64(tt.kbps * 1000 * 1000 / 8)
			if got := qualityFromBitrate(size, 1000); got != tt.want {
				t.Errorf("qualityFromBitrate(%d, 1000) = %q, want %q", size, got, tt.want)
			}
		})
	}
}

func TestDriveProber_FailuresDegradeToUnknown(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		prober := NewDriveProber(server.URL, 2*time.Second, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://drive.example/file/abc123"))
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		prober := NewDriveProber(server.URL, 2*time.Second, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://drive.example/file/abc123"))
	})

	t.Run("no file id in url", func(t *testing.T) {
		prober := NewDriveProber("http://127.0.0.1:0", 2*time.Second, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://drive.example/"))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		prober := NewDriveProber(server.URL, 20*time.Millisecond, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://drive.example/file/abc123"))
	})
}

func assertUnknown(t *testing.T, info FileInfo) {
	t.Helper()
	if info.Quality != QualityUnknown || info.Size != SizeUnknown || info.MimeType != "video/mp4" {
		t.Errorf("expected degraded unknown info, got %+v", info)
	}
}
