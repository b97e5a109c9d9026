package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// pixeldrainFileInfo is the pixeldrain /api/file/{id}/info response.
type pixeldrainFileInfo struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     *int64 `json:"size"`
	MimeType string `json:"mime_type"`
}

// PixeldrainProber probes pixeldrain's file info endpoint. Pixeldrain does
// not expose resolution metadata, so quality is estimated from absolute
// byte-size thresholds only.
type PixeldrainProber struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewPixeldrainProber creates a pixeldrain prober. timeout bounds each probe call.
func NewPixeldrainProber(baseURL string, timeout time.Duration, logger zerolog.Logger) *PixeldrainProber {
	return &PixeldrainProber{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With().Str("component", "prober").Str("provider", string(TypePixeldrain)).Logger(),
	}
}

// Type returns the provider type this prober handles.
func (p *PixeldrainProber) Type() Type {
	return TypePixeldrain
}

// Probe classifies a pixeldrain link. Any failure degrades to unknown.
func (p *PixeldrainProber) Probe(ctx context.Context, rawURL string) FileInfo {
	fileID := fileIDFromURL(rawURL)
	if fileID == "" {
		p.logger.Debug().Str("url", rawURL).Msg("no file id in link")
		return unknownInfo()
	}

	endpoint := fmt.Sprintf("%s/api/file/%s/info", p.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return unknownInfo()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Str("fileID", fileID).Msg("probe request failed")
		return unknownInfo()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug().Int("status", resp.StatusCode).Str("fileID", fileID).Msg("probe rejected")
		return unknownInfo()
	}

	var file pixeldrainFileInfo
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		p.logger.Debug().Err(err).Str("fileID", fileID).Msg("malformed probe response")
		return unknownInfo()
	}

	info := FileInfo{
		Quality:  QualityUnknown,
		Size:     SizeUnknown,
		MimeType: defaultMimeType,
	}
	if file.MimeType != "" {
		info.MimeType = file.MimeType
	}
	if file.Size != nil {
		info.Size = NormalizeSizeUnit(BytesToHuman(*file.Size))
		info.Quality = qualityFromSize(*file.Size)
	}

	return info
}

// qualityFromSize buckets quality by file size in MB. Coarse, but the only
// signal pixeldrain exposes.
func qualityFromSize(sizeBytes int64) string {
	mb := float64(sizeBytes) / (1024 * 1024)
	switch {
	case mb < 100:
		return "360p"
	case mb < 300:
		return "480p"
	case mb < 700:
		return "720p"
	case mb < 1500:
		return "1080p"
	default:
		return "4K"
	}
}
