package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

// RapidAPIClient talks to the IMDB search proxy on RapidAPI. Authentication is
// the key/host header pair; a response without a results array is an empty
// result set, not an error.
type RapidAPIClient struct {
	apiKey  string
	apiHost string
	baseURL string
	client  *http.Client
	cache   *Cache
	log     zerolog.Logger
}

func NewRapidAPIClient(apiKey, apiHost, baseURL string, cache *Cache, logger zerolog.Logger) *RapidAPIClient {
	return &RapidAPIClient{
		apiKey:  apiKey,
		apiHost: apiHost,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
		log:     logger.With().Str("provider", "rapidapi").Logger(),
	}
}

func (c *RapidAPIClient) Name() string { return "rapidapi" }

type rapidAPIMovie struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Year   int      `json:"year"`
	Plot   string   `json:"plot"`
	Rating *float64 `json:"rating"`
	Image  string   `json:"image"`
}

type rapidAPISearchResponse struct {
	Results []rapidAPIMovie `json:"results"`
}

// Search queries the proxy by title. Year and page are not part of its contract.
func (c *RapidAPIClient) Search(ctx context.Context, query string, year, page int) (*models.SearchResult, error) {
	key := CacheKey("rapidapi", "search", query)
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("query", query).Msg("cache hit")
		return cached.(*models.SearchResult), nil
	}

	if isPlaceholder(c.apiKey) {
		return nil, fmt.Errorf("rapidapi: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("query", query)

	var body rapidAPISearchResponse
	if err := c.get(ctx, c.baseURL+"/searchMovies?"+params.Encode(), &body); err != nil {
		return nil, err
	}

	result := &models.SearchResult{
		Source:  "RapidAPI-IMDB",
		Results: make([]models.ExternalMovie, 0, len(body.Results)),
	}
	for _, m := range body.Results {
		result.Results = append(result.Results, normalizeRapidAPIMovie(m))
	}

	c.cache.Set(key, result)
	return result, nil
}

// FetchDetail is not offered by the search proxy.
func (c *RapidAPIClient) FetchDetail(ctx context.Context, externalID string) (*models.ExternalMovieDetail, error) {
	return nil, fmt.Errorf("rapidapi: %w", ErrUnsupportedSource)
}

func (c *RapidAPIClient) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("rapidapi: build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rapidapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rapidapi: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rapidapi: decode response: %w", err)
	}
	return nil
}

func normalizeRapidAPIMovie(m rapidAPIMovie) models.ExternalMovie {
	out := models.ExternalMovie{
		ExternalID:  m.ID,
		Title:       m.Title,
		Description: m.Plot,
		Rating:      m.Rating,
		Poster:      m.Image,
		Source:      "RapidAPI-IMDB",
	}
	if m.Year > 0 {
		year := m.Year
		out.ReleaseYear = &year
	}
	return out
}
