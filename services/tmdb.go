package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/w500"

// tmdbGenres maps the numeric genre ids TMDB returns on search results to
// their display names, so summaries carry the same genre shape as details.
var tmdbGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// TMDBClient talks to The Movie Database API.
type TMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *Cache
	log     zerolog.Logger
}

func NewTMDBClient(apiKey, baseURL string, cache *Cache, logger zerolog.Logger) *TMDBClient {
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
		log:     logger.With().Str("provider", "tmdb").Logger(),
	}
}

func (c *TMDBClient) Name() string { return "tmdb" }

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

type tmdbSearchResponse struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type tmdbMovieDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	Runtime          int     `json:"runtime"`
	VoteAverage      float64 `json:"vote_average"`
	Budget           float64 `json:"budget"`
	Revenue          float64 `json:"revenue"`
	OriginalLanguage string  `json:"original_language"`
	Genres           []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	Credits struct {
		Cast []struct {
			Name  string `json:"name"`
			Order int    `json:"order"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

type tmdbErrorResponse struct {
	StatusMessage string `json:"status_message"`
}

// Search queries TMDB by title. The year parameter is not part of TMDB's
// search contract here and is ignored.
func (c *TMDBClient) Search(ctx context.Context, query string, year, page int) (*models.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	key := CacheKey("tmdb", "search", query, strconv.Itoa(page))
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("query", query).Msg("cache hit")
		return cached.(*models.SearchResult), nil
	}

	if isPlaceholder(c.apiKey) {
		return nil, fmt.Errorf("tmdb: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("language", "en-US")

	var body tmdbSearchResponse
	if err := c.get(ctx, c.baseURL+"/search/movie?"+params.Encode(), &body); err != nil {
		return nil, err
	}

	result := &models.SearchResult{
		Source:       "TMDB",
		Results:      make([]models.ExternalMovie, 0, len(body.Results)),
		TotalResults: body.TotalResults,
		TotalPages:   body.TotalPages,
		Page:         body.Page,
	}
	for _, m := range body.Results {
		result.Results = append(result.Results, normalizeTMDBMovie(m))
	}

	c.cache.Set(key, result)
	return result, nil
}

// FetchDetail loads one movie with credits expanded.
func (c *TMDBClient) FetchDetail(ctx context.Context, externalID string) (*models.ExternalMovieDetail, error) {
	key := CacheKey("tmdb", "details", externalID)
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("id", externalID).Msg("cache hit")
		return cached.(*models.ExternalMovieDetail), nil
	}

	if isPlaceholder(c.apiKey) {
		return nil, fmt.Errorf("tmdb: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	params.Set("append_to_response", "credits,videos")

	var body tmdbMovieDetails
	if err := c.get(ctx, c.baseURL+"/movie/"+url.PathEscape(externalID)+"?"+params.Encode(), &body); err != nil {
		return nil, err
	}

	detail := normalizeTMDBDetails(body)
	c.cache.Set(key, detail)
	return detail, nil
}

func (c *TMDBClient) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("tmdb: %w", ErrProviderNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr tmdbErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.StatusMessage != "" {
			return fmt.Errorf("tmdb: %s", apiErr.StatusMessage)
		}
		return fmt.Errorf("tmdb: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb: decode response: %w", err)
	}
	return nil
}

func normalizeTMDBMovie(m tmdbMovie) models.ExternalMovie {
	out := models.ExternalMovie{
		ExternalID:  strconv.Itoa(m.ID),
		Title:       m.Title,
		ReleaseYear: yearFromDate(m.ReleaseDate),
		Description: m.Overview,
		Source:      "TMDB",
	}
	if m.VoteAverage > 0 {
		out.Rating = &m.VoteAverage
	}
	if m.PosterPath != "" {
		out.Poster = tmdbImageBase + m.PosterPath
	}
	for _, id := range m.GenreIDs {
		if name, ok := tmdbGenres[id]; ok {
			out.Genre = append(out.Genre, name)
		}
	}
	return out
}

func normalizeTMDBDetails(m tmdbMovieDetails) *models.ExternalMovieDetail {
	detail := &models.ExternalMovieDetail{
		ExternalMovie: models.ExternalMovie{
			ExternalID:  strconv.Itoa(m.ID),
			Title:       m.Title,
			ReleaseYear: yearFromDate(m.ReleaseDate),
			Description: m.Overview,
			Source:      "TMDB",
		},
		Language: m.OriginalLanguage,
	}
	if m.VoteAverage > 0 {
		detail.Rating = &m.VoteAverage
	}
	if m.PosterPath != "" {
		detail.Poster = tmdbImageBase + m.PosterPath
	}
	if m.Runtime > 0 {
		detail.Duration = &m.Runtime
	}
	if m.Budget > 0 {
		detail.Budget = &m.Budget
	}
	if m.Revenue > 0 {
		detail.BoxOffice = &m.Revenue
	}
	for _, g := range m.Genres {
		detail.Genre = append(detail.Genre, g.Name)
	}
	// Credits are optional; a missing block just leaves director and cast empty.
	for _, crew := range m.Credits.Crew {
		if crew.Job == "Director" {
			detail.Director = crew.Name
			break
		}
	}
	for i, actor := range m.Credits.Cast {
		if i == 10 {
			break
		}
		detail.Cast = append(detail.Cast, actor.Name)
	}
	if len(m.ProductionCountries) > 0 {
		detail.Country = m.ProductionCountries[0].Name
	}
	return detail
}

// yearFromDate extracts the year from a YYYY-MM-DD date, nil when absent.
func yearFromDate(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}
