// Package provider probes file-hosting mirrors for size and quality and
// groups equivalent links into download options.
package provider

import "context"

// Type identifies a supported file-hosting provider.
type Type string

const (
	TypeDrive      Type = "drive"
	TypePixeldrain Type = "pixeldrain"
)

// QualityUnknown is used whenever a probe cannot classify a link.
const QualityUnknown = "unknown"

// SizeUnknown is used whenever a probe cannot determine a file size.
const SizeUnknown = "unknown"

// defaultMimeType is assumed when a provider does not report one.
const defaultMimeType = "video/mp4"

// Link is an unprobed provider link extracted from an episode page.
type Link struct {
	Type Type   `json:"type"`
	URL  string `json:"url"`
}

// FileInfo is the classification a probe produces for one link.
// Probes never fail: any error degrades to unknown quality/size.
type FileInfo struct {
	Quality  string `json:"quality"`
	Size     string `json:"size"`
	MimeType string `json:"mimeType"`
}

// DownloadLink is a probed provider link.
type DownloadLink struct {
	Type     Type   `json:"type"`
	URL      string `json:"url"`
	Quality  string `json:"quality"`
	Size     string `json:"size"`
	MimeType string `json:"mimeType"`
}

// Source is one mirror inside a download group.
type Source struct {
	Type Type   `json:"type"`
	URL  string `json:"url"`
}

// Group is a set of links sharing the same nominal quality and size.
// Multiple sources within one group are redundant mirrors of the same file,
// not distinct download options.
type Group struct {
	Quality  string   `json:"quality"`
	Size     string   `json:"size"`
	MimeType string   `json:"mimeType"`
	Sources  []Source `json:"sources"`
}

// Prober classifies a provider link. Implementations must not return errors:
// all failures resolve to an unknown FileInfo.
type Prober interface {
	Type() Type
	Probe(ctx context.Context, rawURL string) FileInfo
}

// unknownInfo is the degraded result for any probe failure.
func unknownInfo() FileInfo {
	return FileInfo{
		Quality:  QualityUnknown,
		Size:     SizeUnknown,
		MimeType: defaultMimeType,
	}
}

// GroupByQualityAndSize collapses links sharing (quality, size) into one
// group each, preserving first-seen order of both groups and sources.
func GroupByQualityAndSize(links []DownloadLink) []Group {
	type key struct {
		quality string
		size    string
	}

	index := make(map[key]int)
	groups := make([]Group, 0, len(links))

	for _, link := range links {
		k := key{quality: link.Quality, size: link.Size}
		if i, ok := index[k]; ok {
			groups[i].Sources = append(groups[i].Sources, Source{Type: link.Type, URL: link.URL})
			continue
		}
		index[k] = len(groups)
		groups = append(groups, Group{
			Quality:  link.Quality,
			Size:     link.Size,
			MimeType: link.MimeType,
			Sources:  []Source{{Type: link.Type, URL: link.URL}},
		})
	}

	return groups
}
