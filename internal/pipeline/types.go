// Package pipeline drives one aggregation request: episode discovery,
// metadata cross-referencing, mirror resolution and the assembled series
// document.
package pipeline

import (
	"github.com/showgrab/showgrab/internal/catalog"
	"github.com/showgrab/showgrab/internal/provider"
)

// EpisodeRecord is the per-episode result. The error variant carries only
// the position and a message; the full variant carries catalog metadata and
// grouped download options.
type EpisodeRecord struct {
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Error   string `json:"error,omitempty"`

	Title          string           `json:"title,omitempty"`
	Overview       string           `json:"overview,omitempty"`
	AirDate        string           `json:"airDate,omitempty"`
	Runtime        int              `json:"runtime,omitempty"`
	ProductionCode string           `json:"productionCode,omitempty"`
	StillURL       string           `json:"stillUrl,omitempty"`
	VoteAverage    float64          `json:"voteAverage,omitempty"`
	VoteCount      int              `json:"voteCount,omitempty"`
	Crew           []catalog.Person `json:"crew,omitempty"`
	GuestStars     []catalog.Person `json:"guestStars,omitempty"`
	Downloads      []provider.Group `json:"downloads"`
}

// SeasonRecord groups one season's episodes with its catalog metadata.
type SeasonRecord struct {
	Season       int             `json:"season"`
	Overview     string          `json:"overview"`
	PosterURL    string          `json:"posterUrl,omitempty"`
	VoteAverage  float64         `json:"voteAverage,omitempty"`
	Episodes     []EpisodeRecord `json:"episodes"`
	HasDownloads bool            `json:"hasDownloads"`
}

// SeriesMetadata is the show-level block of the final document.
type SeriesMetadata struct {
	CatalogID    int     `json:"catalogId"`
	Title        string  `json:"title"`
	VoteAverage  float64 `json:"voteAverage"`
	VoteCount    int     `json:"voteCount"`
	ExternalID   string  `json:"externalId"`
	ExternalURL  string  `json:"externalUrl"`
	CatalogURL   string  `json:"catalogUrl"`
	LogoURL      string  `json:"logoUrl,omitempty"`
	TrailerURL   string  `json:"trailerUrl,omitempty"`
	TotalSeasons int     `json:"totalSeasons"`
}

// SeriesDocument is the aggregated response for one series.
type SeriesDocument struct {
	Metadata SeriesMetadata        `json:"metadata"`
	Seasons  map[int]*SeasonRecord `json:"seasons"`
}
