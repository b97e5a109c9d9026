package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// browser-like header set; the site serves different markup (or nothing) to
// non-browser clients.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// ajaxAction is the form action the site's admin-ajax endpoint dispatches on
// to return an episode's download links.
const ajaxAction = "get_download_links"

// Fetcher retrieves site pages and AJAX fragments with a fixed browser
// header set and the injected session cookies.
type Fetcher struct {
	httpClient   *http.Client
	cookieHeader string
	logger       zerolog.Logger
}

// NewFetcher creates a Fetcher. cookieHeader may be empty; timeout bounds
// every individual call.
func NewFetcher(timeout time.Duration, cookieHeader string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		httpClient:   &http.Client{Timeout: timeout},
		cookieHeader: cookieHeader,
		logger:       logger.With().Str("component", "fetcher").Logger(),
	}
}

// FetchPage GETs a site page. A transport failure returns an error; an HTTP
// error status is returned to the caller via status, with whatever body the
// site produced.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (html string, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	f.setBrowserHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read %s: %w", pageURL, err)
	}

	f.logger.Debug().Str("url", pageURL).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("fetched page")
	return string(body), resp.StatusCode, nil
}

// ajaxEnvelope is the JSON wrapper the AJAX endpoint sometimes returns.
type ajaxEnvelope struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

// FetchAjaxHTML POSTs the post identifier to the page's admin-ajax endpoint
// and returns the HTML fragment holding the download links. The endpoint
// answers either with a JSON envelope carrying the fragment in "data" or
// with the raw fragment directly; JSON is tried first.
func (f *Fetcher) FetchAjaxHTML(ctx context.Context, endpoint, postID, referer string) (string, error) {
	form := url.Values{}
	form.Set("action", ajaxAction)
	form.Set("post", postID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build ajax request: %w", err)
	}
	f.setBrowserHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ajax %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ajax %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ajax response: %w", err)
	}

	var envelope ajaxEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != "" {
		return envelope.Data, nil
	}
	return string(body), nil
}

func (f *Fetcher) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", acceptLanguage)
	if f.cookieHeader != "" {
		req.Header.Set("Cookie", f.cookieHeader)
	}
}
