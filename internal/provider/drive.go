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

// driveFileInfo is the drive provider's file metadata response.
type driveFileInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Size     *int64  `json:"size"`
	MimeType string  `json:"mime_type"`
	Video    *struct {
		Height   *int     `json:"height"`
		Duration *float64 `json:"duration"` // seconds
	} `json:"video"`
}

// DriveProber probes the drive hosting provider's metadata endpoint.
// The endpoint reports byte size, mime type and, when the provider has
// analyzed the file, video resolution and duration.
type DriveProber struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewDriveProber creates a drive prober. timeout bounds each probe call.
func NewDriveProber(baseURL string, timeout time.Duration, logger zerolog.Logger) *DriveProber {
	return &DriveProber{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With().Str("component", "prober").Str("provider", string(TypeDrive)).Logger(),
	}
}

// Type returns the provider type this prober handles.
func (p *DriveProber) Type() Type {
	return TypeDrive
}

// Probe classifies a drive link. Any failure degrades to unknown.
func (p *DriveProber) Probe(ctx context.Context, rawURL string) FileInfo {
	fileID := fileIDFromURL(rawURL)
	if fileID == "" {
		p.logger.Debug().Str("url", rawURL).Msg("no file id in link")
		return unknownInfo()
	}

	endpoint := fmt.Sprintf("%s/api/file/%s", p.baseURL, url.PathEscape(fileID))

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

	var file driveFileInfo
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
	}

	switch {
	case file.Video != nil && file.Video.Height != nil:
		info.Quality = qualityFromHeight(*file.Video.Height)
	case file.Video != nil && file.Video.Duration != nil && *file.Video.Duration > 0 && file.Size != nil:
		info.Quality = qualityFromBitrate(*file.Size, *file.Video.Duration)
	}

	return info
}

// qualityFromHeight maps a vertical resolution to a discrete quality bucket.
func qualityFromHeight(height int) string {
	switch {
	case height <= 360:
		return "360p"
	case height <= 480:
		return "480p"
	case height <= 720:
		return "720p"
	case height <= 1080:
		return "1080p"
	case height <= 1440:
		return "1440p"
	case height <= 2160:
		return "4K"
	default:
		return fmt.Sprintf("%dp", height)
	}
}

// qualityFromBitrate estimates quality from the computed average bitrate in
// kbps when the provider reports duration but no resolution.
func qualityFromBitrate(sizeBytes int64, durationSeconds float64) string {
	kbps := float64(sizeBytes) * 8 / durationSeconds / 1000
	switch {
	case kbps < 800:
		return "360p"
	case kbps < 1500:
		return "480p"
	case kbps < 3000:
		return "720p"
	case kbps < 6000:
		return "1080p"
	default:
		return "4K+"
	}
}

// fileIDFromURL extracts the file identifier: the last non-empty path
// segment of the link. Returns "" when the URL has no usable path.
func fileIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
