package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

// OMDBClient talks to the Open Movie Database API. OMDB reports failures in a
// 200 body with Response="False", which this client turns back into errors.
type OMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *Cache
	log     zerolog.Logger
}

func NewOMDBClient(apiKey, baseURL string, cache *Cache, logger zerolog.Logger) *OMDBClient {
	return &OMDBClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
		log:     logger.With().Str("provider", "omdb").Logger(),
	}
}

func (c *OMDBClient) Name() string { return "omdb" }

type omdbSummary struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Poster string `json:"Poster"`
}

type omdbSearchResponse struct {
	Search       []omdbSummary `json:"Search"`
	TotalResults string        `json:"totalResults"`
	Response     string        `json:"Response"`
	Error        string        `json:"Error"`
}

type omdbDetailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	BoxOffice  string `json:"BoxOffice"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Search queries OMDB by title, optionally narrowed to a year.
func (c *OMDBClient) Search(ctx context.Context, query string, year, page int) (*models.SearchResult, error) {
	key := CacheKey("omdb", "search", query, strconv.Itoa(year))
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("query", query).Msg("cache hit")
		return cached.(*models.SearchResult), nil
	}

	if isPlaceholder(c.apiKey) {
		return nil, fmt.Errorf("omdb: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("s", query)
	params.Set("type", "movie")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	var body omdbSearchResponse
	if err := c.get(ctx, c.baseURL+"/?"+params.Encode(), &body); err != nil {
		return nil, err
	}
	if body.Response == "False" {
		if body.Error != "" {
			return nil, fmt.Errorf("omdb: %s", body.Error)
		}
		return nil, fmt.Errorf("omdb: %w", ErrProviderNotFound)
	}

	total, _ := strconv.Atoi(body.TotalResults)
	result := &models.SearchResult{
		Source:       "OMDB",
		Results:      make([]models.ExternalMovie, 0, len(body.Search)),
		TotalResults: total,
	}
	for _, m := range body.Search {
		result.Results = append(result.Results, normalizeOMDBSummary(m))
	}

	c.cache.Set(key, result)
	return result, nil
}

// FetchDetail loads one movie with the full plot.
func (c *OMDBClient) FetchDetail(ctx context.Context, externalID string) (*models.ExternalMovieDetail, error) {
	key := CacheKey("omdb", "details", externalID)
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("id", externalID).Msg("cache hit")
		return cached.(*models.ExternalMovieDetail), nil
	}

	if isPlaceholder(c.apiKey) {
		return nil, fmt.Errorf("omdb: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", externalID)
	params.Set("plot", "full")

	var body omdbDetailResponse
	if err := c.get(ctx, c.baseURL+"/?"+params.Encode(), &body); err != nil {
		return nil, err
	}
	if body.Response == "False" {
		if body.Error != "" {
			return nil, fmt.Errorf("omdb: %s", body.Error)
		}
		return nil, fmt.Errorf("omdb: %w", ErrProviderNotFound)
	}

	detail := normalizeOMDBDetail(body)
	c.cache.Set(key, detail)
	return detail, nil
}

func (c *OMDBClient) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("omdb: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("omdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("omdb: decode response: %w", err)
	}
	return nil
}

func normalizeOMDBSummary(m omdbSummary) models.ExternalMovie {
	out := models.ExternalMovie{
		ExternalID: m.ImdbID,
		Title:      m.Title,
		Source:     "OMDB",
	}
	// Year can be a range ("2001-2003"); only the first year counts.
	if len(m.Year) >= 4 {
		if y, err := strconv.Atoi(m.Year[:4]); err == nil {
			out.ReleaseYear = &y
		}
	}
	if !notAvailable(m.Poster) {
		out.Poster = m.Poster
	}
	return out
}

func normalizeOMDBDetail(m omdbDetailResponse) *models.ExternalMovieDetail {
	detail := &models.ExternalMovieDetail{
		ExternalMovie: models.ExternalMovie{
			ExternalID: m.ImdbID,
			Title:      m.Title,
			Source:     "OMDB",
		},
	}
	if len(m.Year) >= 4 {
		if y, err := strconv.Atoi(m.Year[:4]); err == nil {
			detail.ReleaseYear = &y
		}
	}
	if !notAvailable(m.Plot) {
		detail.Description = m.Plot
	}
	if !notAvailable(m.ImdbRating) {
		if r, err := strconv.ParseFloat(m.ImdbRating, 64); err == nil {
			detail.Rating = &r
		}
	}
	if !notAvailable(m.Runtime) {
		// "148 min" -> 148
		if d, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(m.Runtime, "min"))); err == nil {
			detail.Duration = &d
		}
	}
	if !notAvailable(m.Poster) {
		detail.Poster = m.Poster
	}
	if !notAvailable(m.Genre) {
		detail.Genre = splitList(m.Genre)
	}
	if !notAvailable(m.Director) {
		detail.Director = m.Director
	}
	if !notAvailable(m.Actors) {
		detail.Cast = splitList(m.Actors)
	}
	if !notAvailable(m.Language) {
		detail.Language = m.Language
	}
	if !notAvailable(m.Country) {
		detail.Country = m.Country
	}
	if !notAvailable(m.BoxOffice) {
		// "$292,576,195" -> 292576195
		if v, err := strconv.ParseFloat(moneyDigits.ReplaceAllString(m.BoxOffice, ""), 64); err == nil {
			detail.BoxOffice = &v
		}
	}
	return detail
}

var moneyDigits = regexp.MustCompile(`[^0-9.]`)

// notAvailable reports OMDB's "N/A" sentinel (or an empty field).
func notAvailable(s string) bool {
	return s == "" || s == "N/A"
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
