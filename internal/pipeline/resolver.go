package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/showgrab/showgrab/internal/catalog"
	"github.com/showgrab/showgrab/internal/provider"
	"github.com/showgrab/showgrab/internal/scrape"
)

// Resolver turns one episode reference into an EpisodeRecord. Failures never
// escape: everything scoped to one episode becomes that episode's error
// variant.
type Resolver struct {
	catalog *catalog.Client
	fetcher *scrape.Fetcher
	probers map[provider.Type]provider.Prober
	timeout time.Duration
	logger  zerolog.Logger
}

// NewResolver creates a Resolver. timeout bounds one full episode
// resolution (metadata, page, AJAX and probes together).
func NewResolver(cat *catalog.Client, fetcher *scrape.Fetcher, probers []provider.Prober, timeout time.Duration, logger zerolog.Logger) *Resolver {
	byType := make(map[provider.Type]provider.Prober, len(probers))
	for _, p := range probers {
		byType[p.Type()] = p
	}
	return &Resolver{
		catalog: cat,
		fetcher: fetcher,
		probers: byType,
		timeout: timeout,
		logger:  logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve fetches episode metadata, scrapes the episode page, recovers the
// obfuscated mirror links via the AJAX endpoint, probes them, and assembles
// the record.
func (r *Resolver) Resolve(ctx context.Context, seriesID int, ref scrape.EpisodeReference) EpisodeRecord {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	meta, err := r.catalog.GetEpisode(ctx, seriesID, ref.Season, ref.Episode)
	if err != nil {
		// No point fetching the page without metadata to attach links to.
		return r.errorRecord(ref, fmt.Sprintf("episode metadata unavailable: %v", err))
	}

	html, status, err := r.fetcher.FetchPage(ctx, ref.URL)
	if err != nil {
		return r.errorRecord(ref, fmt.Sprintf("episode page unavailable: %v", err))
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return r.errorRecord(ref, fmt.Sprintf("episode page returned status %d", status))
	}

	record := r.fullRecord(ref, meta)

	postID, ajaxEndpoint := scrape.ExtractPagePostID(html, ref.URL)
	if postID == "" {
		// The page rendered without its link form; metadata still counts.
		r.logger.Debug().Str("url", ref.URL).Msg("no post id on episode page")
		return record
	}

	fragment, err := r.fetcher.FetchAjaxHTML(ctx, ajaxEndpoint, postID, ref.URL)
	if err != nil {
		return r.errorRecord(ref, fmt.Sprintf("download links unavailable: %v", err))
	}

	links := scrape.ExtractProviderLinks(fragment)
	record.Downloads = provider.GroupByQualityAndSize(r.probeAll(ctx, links))

	return record
}

// probeAll probes every distinct link concurrently. Probers never fail, so
// every link survives with at worst unknown quality/size.
func (r *Resolver) probeAll(ctx context.Context, links []provider.Link) []provider.DownloadLink {
	probed := make([]provider.DownloadLink, len(links))

	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(i int, link provider.Link) {
			defer wg.Done()

			info := provider.FileInfo{
				Quality:  provider.QualityUnknown,
				Size:     provider.SizeUnknown,
				MimeType: "video/mp4",
			}
			if prober, ok := r.probers[link.Type]; ok {
				info = prober.Probe(ctx, link.URL)
			}
			probed[i] = provider.DownloadLink{
				Type:     link.Type,
				URL:      link.URL,
				Quality:  info.Quality,
				Size:     info.Size,
				MimeType: info.MimeType,
			}
		}(i, link)
	}
	wg.Wait()

	return probed
}

func (r *Resolver) fullRecord(ref scrape.EpisodeReference, meta *catalog.Episode) EpisodeRecord {
	return EpisodeRecord{
		Season:         ref.Season,
		Episode:        ref.Episode,
		Title:          meta.Title,
		Overview:       meta.Overview,
		AirDate:        meta.AirDate,
		Runtime:        meta.Runtime,
		ProductionCode: meta.ProductionCode,
		StillURL:       meta.StillURL,
		VoteAverage:    meta.VoteAverage,
		VoteCount:      meta.VoteCount,
		Crew:           meta.Crew,
		GuestStars:     meta.GuestStars,
		Downloads:      []provider.Group{},
	}
}

func (r *Resolver) errorRecord(ref scrape.EpisodeReference, msg string) EpisodeRecord {
	r.logger.Debug().
		Int("season", ref.Season).
		Int("episode", ref.Episode).
		Str("url", ref.URL).
		Str("reason", msg).
		Msg("episode resolution failed")

	return EpisodeRecord{
		Season:    ref.Season,
		Episode:   ref.Episode,
		Error:     msg,
		Downloads: []provider.Group{},
	}
}
