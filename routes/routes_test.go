package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/WebDev-Insider/movie-api-project-defence/config"
	"github.com/WebDev-Insider/movie-api-project-defence/models"
	"github.com/WebDev-Insider/movie-api-project-defence/utils"
)

func newTestRouter(t *testing.T, jwtSecret string) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Movie{}))

	cfg := &config.Config{
		Env:             "test",
		APIBasePath:     "/api/v1",
		TMDBBaseURL:     "http://127.0.0.1:1",
		OMDBBaseURL:     "http://127.0.0.1:1",
		RapidAPIBaseURL: "http://127.0.0.1:1",
		CacheTTL:        time.Minute,
		RateLimitRPS:    100,
		RateLimitBurst:  100,
		JWTSecret:       jwtSecret,
	}
	return SetupRouter(cfg, db, zerolog.Nop())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func createBody() gin.H {
	return gin.H{
		"title":       "dune",
		"genre":       []string{"Sci-Fi", "Adventure"},
		"director":    "Denis Villeneuve",
		"releaseYear": 2021,
		"rating":      8.0,
	}
}

func TestHealthAndIndex(t *testing.T) {
	r := newTestRouter(t, "")

	w, _ := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Movie Info API is running")

	w, _ = do(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "endpoints")
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Route /api/v1/nope not found", env.Message)
}

func TestMovieCRUDFlow(t *testing.T) {
	r := newTestRouter(t, "")

	w, env := do(t, r, http.MethodPost, "/api/v1/movies", createBody())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Movie created successfully", env.Message)

	var created models.Movie
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dune", created.Title)
	assert.Equal(t, "English", created.Language)

	w, _ = do(t, r, http.MethodGet, "/api/v1/movies?search=dune", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count      int               `json:"count"`
		Pagination models.Pagination `json:"pagination"`
		Data       []models.Movie    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.EqualValues(t, 1, list.Pagination.Total)

	w, env = do(t, r, http.MethodPut, "/api/v1/movies/"+created.ID, gin.H{"rating": 8.4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Movie updated successfully", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/v1/movies/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Movie
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, 8.4, fetched.Rating)
	assert.Equal(t, time.Now().Year()-2021, fetched.Age)

	w, env = do(t, r, http.MethodDelete, "/api/v1/movies/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Movie deleted successfully", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/v1/movies/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie not found", env.Message)
}

func TestCreateMovieValidation(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodPost, "/api/v1/movies", gin.H{"rating": 12})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", env.Message)
	assert.Contains(t, env.Errors, "Movie title is required")
	assert.Contains(t, env.Errors, "Rating cannot be more than 10")
}

func TestListQueryValidation(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodGet, "/api/v1/movies?sortBy=budget", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid query parameters", env.Message)
}

func TestMovieStats(t *testing.T) {
	r := newTestRouter(t, "")
	_, _ = do(t, r, http.MethodPost, "/api/v1/movies", createBody())

	w, env := do(t, r, http.MethodGet, "/api/v1/movies/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Overview  models.StatsOverview `json:"overview"`
		TopGenres []models.GenreCount  `json:"topGenres"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.Overview.TotalMovies)
	assert.Len(t, stats.TopGenres, 2)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	const secret = "test-secret"
	r := newTestRouter(t, secret)

	w, env := do(t, r, http.MethodPost, "/api/v1/movies", createBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header missing", env.Message)

	w, _ = do(t, r, http.MethodPost, "/api/v1/movies", createBody(),
		"Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.CreateAdminToken(secret, time.Minute)
	require.NoError(t, err)
	w, _ = do(t, r, http.MethodPost, "/api/v1/movies", createBody(),
		"Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Reads stay open.
	w, _ = do(t, r, http.MethodGet, "/api/v1/movies", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExternalSearchRequiresQuery(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodGet, "/api/v1/external/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search query is required", env.Message)
}

func TestExternalSearchUnsupportedSource(t *testing.T) {
	r := newTestRouter(t, "")
	w, _ := do(t, r, http.MethodGet, "/api/v1/external/search?query=dune&source=netflix", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExternalSearchUnconfiguredProvider(t *testing.T) {
	r := newTestRouter(t, "")
	w, _ := do(t, r, http.MethodGet, "/api/v1/external/search?query=dune&source=tmdb", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExternalSearchAllSettledWithoutKeys(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodGet, "/api/v1/external/search?query=dune", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AggregatedSearch
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Empty(t, result.Combined)
	for _, name := range []string{"tmdb", "omdb", "rapidapi"} {
		assert.NotEmpty(t, result.Sources[name].Error, name)
	}
}

func TestBulkImportRequiresSearchQuery(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodPost, "/api/v1/external/bulk-import", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search query is required for bulk import", env.Message)
}

func TestImportRejectsUnsupportedSource(t *testing.T) {
	r := newTestRouter(t, "")
	w, _ := do(t, r, http.MethodPost, "/api/v1/external/import",
		gin.H{"source": "rapidapi", "externalId": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
