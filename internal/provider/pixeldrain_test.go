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

func TestPixeldrainProber_QualityFromSize(t *testing.T) {
	const mb = 1024 * 1024

	tests := []struct {
		name string
		size int64
		want string
	}{
		{"small", 50 * mb, "360p"},
		{"sd", 200 * mb, "480p"},
		{"hd", 500 * mb, "720p"},
		{"full hd", 1000 * mb, "1080p"},
		{"huge", 2000 * mb, "4K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/file/Xy9z/info" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				_ = json.NewEncoder(w).Encode(pixeldrainFileInfo{
					Success:  true,
					ID:       "Xy9z",
					Size:     &tt.size,
					MimeType: "video/x-matroska",
				})
			}))
			defer server.Close()

			prober := NewPixeldrainProber(server.URL, 2*time.Second, zerolog.Nop())
			info := prober.Probe(context.Background(), "https://pixeldrain.com/u/Xy9z")

			if info.Quality != tt.want {
				t.Errorf("Quality = %q, want %q", info.Quality, tt.want)
			}
			if info.MimeType != "video/x-matroska" {
				t.Errorf("MimeType = %q, want video/x-matroska", info.MimeType)
			}
		})
	}
}

func TestPixeldrainProber_SizeLabelPromoted(t *testing.T) {
	// 1010 MiB converts to "1010.00 MB" (binary threshold not yet reached)
	// and must promote to GB via the decimal rule.
	size := int64(1010 * 1024 * 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pixeldrainFileInfo{Success: true, Size: &size, MimeType: "video/mp4"})
	}))
	defer server.Close()

	prober := NewPixeldrainProber(server.URL, 2*time.Second, zerolog.Nop())
	info := prober.Probe(context.Background(), "https://pixeldrain.com/u/Xy9z")

	if info.Size != "1.01 GB" {
		t.Errorf("Size = %q, want %q", info.Size, "1.01 GB")
	}
}

func TestPixeldrainProber_FailuresDegradeToUnknown(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		prober := NewPixeldrainProber(server.URL, 2*time.Second, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://pixeldrain.com/u/missing"))
	})

	t.Run("no file id", func(t *testing.T) {
		prober := NewPixeldrainProber("http://127.0.0.1:0", 2*time.Second, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://pixeldrain.com"))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		prober := NewPixeldrainProber(server.URL, 20*time.Millisecond, zerolog.Nop())
		assertUnknown(t, prober.Probe(context.Background(), "https://pixeldrain.com/u/Xy9z"))
	})
}
