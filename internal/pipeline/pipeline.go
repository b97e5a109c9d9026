package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/showgrab/showgrab/internal/catalog"
	"github.com/showgrab/showgrab/internal/scrape"
)

var (
	// ErrNoEpisodes means neither discovery pattern matched the listing page.
	ErrNoEpisodes = errors.New("no episode links found on listing page")
	// ErrNoExternalID means the listing page carries no catalog cross-reference.
	ErrNoExternalID = errors.New("could not find an external catalog ID on listing page")
	// ErrNoUsableDownloads means every episode in every season resolved
	// without a single download link. The document is technically complete
	// but practically useless, which counts as failure.
	ErrNoUsableDownloads = errors.New("no usable download links found for any episode")
)

// seasonOverviewPlaceholder fills in when the season-level catalog lookup fails.
const seasonOverviewPlaceholder = "No overview available for this season."

// snippetLimit bounds the HTML excerpt attached to discovery failures.
const snippetLimit = 300

// Pipeline is the top-level driver for one aggregation request.
type Pipeline struct {
	catalog   *catalog.Client
	fetcher   *scrape.Fetcher
	resolver  *Resolver
	batchSize int
	logger    zerolog.Logger
}

// New creates a Pipeline. batchSize bounds concurrent episode resolutions.
func New(cat *catalog.Client, fetcher *scrape.Fetcher, resolver *Resolver, batchSize int, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		catalog:   cat,
		fetcher:   fetcher,
		resolver:  resolver,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run aggregates a full series document from its listing page URL.
//
// Stage failures before season processing abort the request; from season
// processing onward only the aggregate "no season yielded a usable link"
// is fatal.
func (p *Pipeline) Run(ctx context.Context, listingURL string) (*SeriesDocument, error) {
	html, status, err := p.fetcher.FetchPage(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("listing page returned status %d", status)
	}

	refs := scrape.ExtractEpisodeReferences(html)
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w (page starts: %s)", ErrNoEpisodes, scrape.Snippet(html, snippetLimit))
	}
	p.logger.Info().Int("episodes", len(refs)).Str("url", listingURL).Msg("discovered episode links")

	externalID := scrape.ExtractExternalID(html)
	if externalID == "" {
		return nil, ErrNoExternalID
	}

	seriesID, err := p.catalog.FindSeriesByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, catalog.ErrSeriesNotFound) {
			return nil, fmt.Errorf("could not find TV show for %s: %w", externalID, err)
		}
		return nil, fmt.Errorf("resolve catalog ID: %w", err)
	}

	series, err := p.catalog.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("fetch show metadata: %w", err)
	}

	// Logo and trailer lookups are independent of episode resolution, so
	// they run alongside season processing.
	var (
		wg         sync.WaitGroup
		logoURL    string
		trailerURL string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		url, err := p.catalog.GetLogoURL(ctx, seriesID)
		if err != nil {
			p.logger.Warn().Err(err).Int("seriesID", seriesID).Msg("logo lookup failed")
			return
		}
		logoURL = url
	}()
	go func() {
		defer wg.Done()
		url, err := p.catalog.GetTrailerURL(ctx, seriesID)
		if err != nil {
			p.logger.Warn().Err(err).Int("seriesID", seriesID).Msg("trailer lookup failed")
			return
		}
		trailerURL = url
	}()

	seasons := p.processSeasons(ctx, seriesID, refs)
	wg.Wait()

	usable := false
	for _, season := range seasons {
		if season.HasDownloads {
			usable = true
			break
		}
	}
	if !usable {
		return nil, ErrNoUsableDownloads
	}

	doc := &SeriesDocument{
		Metadata: SeriesMetadata{
			CatalogID:    seriesID,
			Title:        series.Title,
			VoteAverage:  series.VoteAverage,
			VoteCount:    series.VoteCount,
			ExternalID:   externalID,
			ExternalURL:  fmt.Sprintf("https://www.imdb.com/title/%s/", externalID),
			CatalogURL:   p.catalog.CatalogURL(seriesID),
			LogoURL:      logoURL,
			TrailerURL:   trailerURL,
			TotalSeasons: series.TotalSeasons,
		},
		Seasons: seasons,
	}

	p.logger.Info().
		Int("seriesID", seriesID).
		Str("title", series.Title).
		Int("seasons", len(seasons)).
		Msg("series document assembled")

	return doc, nil
}

// processSeasons groups references by season in discovery order (insertion
// order of first appearance, not numeric) and resolves each season's
// episodes in bounded batches. One season failing to produce links never
// aborts the others.
func (p *Pipeline) processSeasons(ctx context.Context, seriesID int, refs []scrape.EpisodeReference) map[int]*SeasonRecord {
	var order []int
	bySeason := make(map[int][]scrape.EpisodeReference)
	for _, ref := range refs {
		if _, seen := bySeason[ref.Season]; !seen {
			order = append(order, ref.Season)
		}
		bySeason[ref.Season] = append(bySeason[ref.Season], ref)
	}

	seasons := make(map[int]*SeasonRecord, len(order))
	for _, seasonNumber := range order {
		record := &SeasonRecord{
			Season:   seasonNumber,
			Overview: seasonOverviewPlaceholder,
		}

		if meta, err := p.catalog.GetSeason(ctx, seriesID, seasonNumber); err != nil {
			p.logger.Warn().Err(err).Int("season", seasonNumber).Msg("season metadata lookup failed")
		} else {
			if meta.Overview != "" {
				record.Overview = meta.Overview
			}
			record.PosterURL = meta.PosterURL
			record.VoteAverage = meta.VoteAverage
		}

		record.Episodes = resolveInBatches(ctx, bySeason[seasonNumber], p.batchSize,
			func(ctx context.Context, ref scrape.EpisodeReference) EpisodeRecord {
				return p.resolver.Resolve(ctx, seriesID, ref)
			})

		for _, ep := range record.Episodes {
			if ep.Error == "" && len(ep.Downloads) > 0 {
				record.HasDownloads = true
				break
			}
		}

		p.logger.Debug().
			Int("season", seasonNumber).
			Int("episodes", len(record.Episodes)).
			Bool("hasDownloads", record.HasDownloads).
			Msg("season processed")

		seasons[seasonNumber] = record
	}

	return seasons
}
