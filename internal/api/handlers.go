package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/showgrab/showgrab/internal/catalog"
	"github.com/showgrab/showgrab/internal/pipeline"
)

// successEnvelope wraps the aggregated document.
type successEnvelope struct {
	Success bool                     `json:"success"`
	Data    *pipeline.SeriesDocument `json:"data"`
}

// failureEnvelope is the single normalized failure shape for every error
// class, 400s included.
type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleSeries serves GET /hash/:encoded where :encoded is the
// base64url-encoded listing page URL of a series.
func (s *Server) handleSeries(c echo.Context) error {
	listingURL, err := decodeListingURL(c.Param("encoded"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := s.pipeline.Run(c.Request().Context(), listingURL)
	if err != nil {
		if isNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, successEnvelope{Success: true, Data: doc})
}

// healthCheck is a trivial liveness probe.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// isNotFound reports whether a pipeline failure belongs to the NOT_FOUND
// class: nothing upstream broke, the request just has no answer.
func isNotFound(err error) bool {
	return errors.Is(err, pipeline.ErrNoEpisodes) ||
		errors.Is(err, pipeline.ErrNoExternalID) ||
		errors.Is(err, pipeline.ErrNoUsableDownloads) ||
		errors.Is(err, catalog.ErrSeriesNotFound)
}

// decodeListingURL decodes the path segment (base64url, padded or not) and
// validates that it holds an absolute http(s) URL.
func decodeListingURL(encoded string) (string, error) {
	if encoded == "" {
		return "", errors.New("missing encoded listing URL")
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(encoded)
	}
	if err != nil {
		return "", errors.New("invalid base64 in listing URL")
	}

	u, err := url.ParseRequestURI(string(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.New("decoded value is not a valid listing URL")
	}

	return u.String(), nil
}
