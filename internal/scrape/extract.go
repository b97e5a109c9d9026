// Package scrape parses the content site's HTML pages and fetches them with
// a browser-like header set.
package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/showgrab/showgrab/internal/provider"
)

// EpisodeReference is a discovered episode page link with its parsed
// season/episode position.
type EpisodeReference struct {
	URL     string
	Season  int
	Episode int
}

// adminAjaxPath is WordPress's fixed AJAX endpoint path, served from the
// episode page's own origin.
const adminAjaxPath = "/wp-admin/admin-ajax.php"

var (
	// sNeN tokens like "s1e2", "s01-e02", "season-1-episode-2" in a URL.
	seasonEpisodeRe = regexp.MustCompile(`(?i)s(?:eason)?[-_ .]?(\d{1,3})[-_ .]?e(?:p(?:isode)?)?[-_ .]?(\d{1,4})`)
	// standalone season token, used when the combined form is absent
	seasonOnlyRe = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])s(?:eason)?[-_ .]?(\d{1,3})`)
	// standalone episode-number token, the looser fallback signal
	episodeOnlyRe = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])e(?:p(?:isode)?)?[-_ .]?(\d{1,4})`)
	// canonical external catalog ID: two letters followed by digits
	externalIDRe = regexp.MustCompile(`(?i)([a-z]{2}\d+)`)
	// episode button label on the listing page
	episodeTextRe = regexp.MustCompile(`(?i)\bepisode\s*\d+`)

	digitsRe = regexp.MustCompile(`^\d+$`)
)

// ExtractEpisodeReferences discovers episode page links in listing HTML.
//
// Two-stage strategy: the primary pattern matches the site's episode button
// convention (a "maxbutton" anchor labelled "Episode N"). Only when the
// primary pattern matches nothing does the fallback run, accepting any
// anchor whose href carries an episode-number token. The stages never merge.
//
// References without a detectable episode number are discarded; a missing
// season token defaults to season 1. An empty result is not an error here,
// the caller decides how to report it.
func ExtractEpisodeReferences(html string) []EpisodeReference {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	primary := collectReferences(doc.Find(`a[class*="maxbutton"]`).FilterFunction(
		func(_ int, sel *goquery.Selection) bool {
			return episodeTextRe.MatchString(sel.Text())
		}))
	if len(primary) > 0 {
		return primary
	}

	return collectReferences(doc.Find("a").FilterFunction(
		func(_ int, sel *goquery.Selection) bool {
			href, _ := sel.Attr("href")
			return seasonEpisodeRe.MatchString(href) || episodeOnlyRe.MatchString(href)
		}))
}

func collectReferences(anchors *goquery.Selection) []EpisodeReference {
	var refs []EpisodeReference
	anchors.Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		season, episode, ok := parsePosition(href)
		if !ok {
			return
		}
		refs = append(refs, EpisodeReference{
			URL:     strings.TrimSpace(href),
			Season:  season,
			Episode: episode,
		})
	})
	return refs
}

// parsePosition derives (season, episode) from URL tokens. Episode is
// required; season defaults to 1.
func parsePosition(href string) (season, episode int, ok bool) {
	if m := seasonEpisodeRe.FindStringSubmatch(href); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
	} else {
		season = 1
		if m := seasonOnlyRe.FindStringSubmatch(href); m != nil {
			season, _ = strconv.Atoi(m[1])
		}
		m := episodeOnlyRe.FindStringSubmatch(href)
		if m == nil {
			return 0, 0, false
		}
		episode, _ = strconv.Atoi(m[1])
	}
	if episode < 1 {
		return 0, 0, false
	}
	if season < 1 {
		season = 1
	}
	return season, episode, true
}

// ExtractExternalID finds the series' external catalog identifier (an IMDb
// style "tt1234567" token) in an anchor carrying the site's catalog-link
// class. Returns "" when the anchor or the token is absent.
func ExtractExternalID(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	href, ok := doc.Find(`a[class*="imdb"]`).First().Attr("href")
	if !ok {
		return ""
	}

	if m := externalIDRe.FindStringSubmatch(href); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// ExtractPagePostID finds the episode page's numeric post identifier in a
// hidden form field and derives the AJAX endpoint from the page's own
// origin. postID is "" when no identifier is present; the endpoint is
// returned regardless.
func ExtractPagePostID(html, pageURL string) (postID, ajaxEndpoint string) {
	ajaxEndpoint = ajaxEndpointFor(pageURL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ajaxEndpoint
	}

	doc.Find(`input[type="hidden"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		if name == "" {
			name, _ = sel.Attr("id")
		}
		if !strings.Contains(strings.ToLower(name), "post") {
			return true
		}
		value, _ := sel.Attr("value")
		if digitsRe.MatchString(value) {
			postID = value
			return false
		}
		return true
	})

	return postID, ajaxEndpoint
}

func ajaxEndpointFor(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return adminAjaxPath
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, adminAjaxPath)
}

// ExtractProviderLinks scans an AJAX HTML fragment for hosted mirror links.
// When the fragment carries the download container element, scanning narrows
// to its contents. A link counts only when the anchor carries both the
// provider's class token and a direct link. Exact duplicate URLs are dropped
// so each mirror is probed once.
func ExtractProviderLinks(html string) []provider.Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	scope := doc.Selection
	if container := doc.Find(`#download-links, [class*="download-links"]`).First(); container.Length() > 0 {
		scope = container
	}

	seen := make(map[string]struct{})
	var links []provider.Link

	scope.Find("a").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		class = strings.ToLower(class)

		var ptype provider.Type
		switch {
		case strings.Contains(class, "pixeldrain"):
			ptype = provider.TypePixeldrain
		case strings.Contains(class, "drive"):
			ptype = provider.TypeDrive
		default:
			return
		}

		href := directLink(sel)
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, provider.Link{Type: ptype, URL: href})
	})

	return links
}

func directLink(sel *goquery.Selection) string {
	if href, ok := sel.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	if href, ok := sel.Attr("data-href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	return ""
}

// Snippet truncates raw HTML for inclusion in diagnostics.
func Snippet(html string, max int) string {
	html = strings.TrimSpace(html)
	if len(html) <= max {
		return html
	}
	return html[:max] + "..."
}
