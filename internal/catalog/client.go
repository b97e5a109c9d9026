// Package catalog is a TMDB client covering the lookups the series pipeline
// needs: external-ID resolution, show/season/episode metadata, logo and
// trailer discovery.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/showgrab/showgrab/internal/config"
)

var (
	ErrAPIKeyMissing  = errors.New("catalog API key is not configured")
	ErrSeriesNotFound = errors.New("series not found")
	ErrNotFound       = errors.New("not found")
	ErrAPIError       = errors.New("catalog API error")
	ErrRateLimited    = errors.New("catalog API rate limited")
)

// creditLimit caps crew and guest-star lists, keeping the API's own ordering.
const creditLimit = 5

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.CatalogConfig
	logger     zerolog.Logger
}

// NewClient creates a new catalog client.
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// FindSeriesByExternalID resolves an external (IMDb) ID to the catalog's
// internal series ID. Returns ErrSeriesNotFound when the catalog has no
// match.
func (c *Client) FindSeriesByExternalID(ctx context.Context, externalID string) (int, error) {
	if !c.IsConfigured() {
		return 0, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/find/%s", c.config.BaseURL, url.PathEscape(externalID))
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("external_source", "imdb_id")

	var response findResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return 0, err
	}

	if len(response.TVResults) == 0 {
		return 0, ErrSeriesNotFound
	}

	id := response.TVResults[0].ID
	c.logger.Debug().Str("externalID", externalID).Int("seriesID", id).Msg("resolved external ID")
	return id, nil
}

// GetSeries gets show-level metadata by catalog ID.
func (c *Client) GetSeries(ctx context.Context, seriesID int) (*Series, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d", c.config.BaseURL, seriesID)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var details tvDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	series := &Series{
		ID:           details.ID,
		Title:        details.Name,
		Overview:     details.Overview,
		FirstAirDate: details.FirstAirDate,
		VoteAverage:  details.VoteAverage,
		VoteCount:    details.VoteCount,
		TotalSeasons: details.NumberOfSeasons,
	}
	if details.PosterPath != nil {
		series.PosterURL = c.imageURL(*details.PosterPath, "w500")
	}

	c.logger.Debug().Int("seriesID", seriesID).Str("title", series.Title).Msg("got series details")
	return series, nil
}

// GetSeason gets season-level metadata.
func (c *Client) GetSeason(ctx context.Context, seriesID, seasonNumber int) (*Season, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d/season/%d", c.config.BaseURL, seriesID, seasonNumber)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var details seasonDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	season := &Season{
		SeasonNumber: details.SeasonNumber,
		Name:         details.Name,
		Overview:     details.Overview,
		AirDate:      details.AirDate,
		VoteAverage:  details.VoteAverage,
	}
	if details.PosterPath != nil {
		season.PosterURL = c.imageURL(*details.PosterPath, "w500")
	}

	return season, nil
}

// GetEpisode gets episode metadata with embedded credits. Crew and guest
// stars are truncated to the first five entries in the API's own order.
func (c *Client) GetEpisode(ctx context.Context, seriesID, seasonNumber, episodeNumber int) (*Episode, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d/season/%d/episode/%d", c.config.BaseURL, seriesID, seasonNumber, episodeNumber)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("append_to_response", "credits")

	var details episodeDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	episode := &Episode{
		SeasonNumber:   details.SeasonNumber,
		EpisodeNumber:  details.EpisodeNumber,
		Title:          details.Name,
		Overview:       details.Overview,
		AirDate:        details.AirDate,
		Runtime:        details.Runtime,
		ProductionCode: details.ProductionCode,
		VoteAverage:    details.VoteAverage,
		VoteCount:      details.VoteCount,
		Crew:           []Person{},
		GuestStars:     []Person{},
	}
	if details.StillPath != nil {
		episode.StillURL = c.imageURL(*details.StillPath, "w500")
	}

	if details.Credits != nil {
		for _, member := range details.Credits.Crew {
			if len(episode.Crew) == creditLimit {
				break
			}
			person := Person{ID: member.ID, Name: member.Name, Role: member.Job}
			if member.ProfilePath != nil {
				person.PhotoURL = c.imageURL(*member.ProfilePath, "w185")
			}
			episode.Crew = append(episode.Crew, person)
		}
		for _, member := range details.Credits.GuestStars {
			if len(episode.GuestStars) == creditLimit {
				break
			}
			person := Person{ID: member.ID, Name: member.Name, Role: member.Character}
			if member.ProfilePath != nil {
				person.PhotoURL = c.imageURL(*member.ProfilePath, "w185")
			}
			episode.GuestStars = append(episode.GuestStars, person)
		}
	}

	return episode, nil
}

// GetLogoURL returns the show's logo image URL, preferring English logos.
// Returns "" when the show has none.
func (c *Client) GetLogoURL(ctx context.Context, seriesID int) (string, error) {
	if !c.IsConfigured() {
		return "", ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d/images", c.config.BaseURL, seriesID)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("include_image_language", "en,null")

	var response imagesResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return "", err
	}

	for _, logo := range response.Logos {
		if logo.Iso6391 == "en" {
			return c.imageURL(logo.FilePath, "w500"), nil
		}
	}
	if len(response.Logos) > 0 {
		return c.imageURL(response.Logos[0].FilePath, "w500"), nil
	}
	return "", nil
}

// GetTrailerURL returns a YouTube watch URL for the show's trailer,
// preferring official trailers. Returns "" when the show has none.
func (c *Client) GetTrailerURL(ctx context.Context, seriesID int) (string, error) {
	if !c.IsConfigured() {
		return "", ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d/videos", c.config.BaseURL, seriesID)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var response videosResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return "", err
	}

	fallback := ""
	for _, v := range response.Results {
		if v.Site != "YouTube" || v.Type != "Trailer" || v.Key == "" {
			continue
		}
		if v.Official {
			return youtubeWatchURL(v.Key), nil
		}
		if fallback == "" {
			fallback = youtubeWatchURL(v.Key)
		}
	}
	return fallback, nil
}

// CatalogURL returns the catalog's public page for a series.
func (c *Client) CatalogURL(seriesID int) string {
	return fmt.Sprintf("https://www.themoviedb.org/tv/%d", seriesID)
}

func youtubeWatchURL(key string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}

func (c *Client) imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("catalog API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
