package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/WebDev-Insider/movie-api-project-defence/config"
	"github.com/WebDev-Insider/movie-api-project-defence/controllers"
	"github.com/WebDev-Insider/movie-api-project-defence/middlewares"
	"github.com/WebDev-Insider/movie-api-project-defence/repository"
	"github.com/WebDev-Insider/movie-api-project-defence/services"
	"github.com/WebDev-Insider/movie-api-project-defence/utils"
)

// SetupRouter wires every endpoint. All shared state (the cache, the provider
// clients, the repository) is constructed here once and passed down.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger zerolog.Logger) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(logger))
	r.Use(middlewares.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:3001"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	repo := repository.NewMovieRepository(db)
	cache := services.NewCache(cfg.CacheTTL)
	providers := &services.Providers{
		TMDB:     services.NewTMDBClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cache, logger),
		OMDB:     services.NewOMDBClient(cfg.OMDBAPIKey, cfg.OMDBBaseURL, cache, logger),
		RapidAPI: services.NewRapidAPIClient(cfg.RapidAPIKey, cfg.RapidAPIHost, cfg.RapidAPIBaseURL, cache, logger),
	}
	aggregator := services.NewAggregator(providers, logger)
	importer := services.NewImporter(repo, cfg.BulkImportDelay, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Movie Info API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   "v1",
		})
	})

	r.GET("/", apiIndex(cfg.APIBasePath))

	admin := middlewares.AdminMiddleware(cfg.JWTSecret)

	movies := r.Group(cfg.APIBasePath + "/movies")
	{
		// Stats route before /:id so it is not captured as an id.
		movies.GET("/stats", controllers.GetMovieStats(repo))
		movies.GET("", controllers.GetMovies(repo))
		movies.POST("", admin, controllers.CreateMovie(repo))
		movies.GET("/:id", controllers.GetMovie(repo))
		movies.PUT("/:id", admin, controllers.UpdateMovie(repo))
		movies.DELETE("/:id", admin, controllers.DeleteMovie(repo))
	}

	external := r.Group(cfg.APIBasePath + "/external")
	{
		external.GET("/search", controllers.SearchExternal(providers, aggregator))
		external.GET("/details/:source/:id", controllers.GetExternalDetails(providers))
		external.POST("/import", admin, controllers.ImportMovie(providers, importer))
		external.POST("/bulk-import", admin, controllers.BulkImportMovies(providers, importer))
		external.PUT("/sync/:id", admin, controllers.SyncMovie(providers, importer))
	}

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "Route "+c.Request.URL.Path+" not found")
	})

	return r
}

func apiIndex(basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Welcome to Movie Info API",
			"version": "v1",
			"endpoints": gin.H{
				"movies": gin.H{
					"GET " + basePath + "/movies":        "Get all movies with pagination, search, and filters",
					"GET " + basePath + "/movies/:id":    "Get a specific movie by ID",
					"POST " + basePath + "/movies":       "Create a new movie",
					"PUT " + basePath + "/movies/:id":    "Update a movie by ID",
					"DELETE " + basePath + "/movies/:id": "Delete a movie by ID",
					"GET " + basePath + "/movies/stats":  "Get movie statistics",
				},
				"external": gin.H{
					"GET " + basePath + "/external/search":              "Search movies from external APIs (TMDB, OMDB, RapidAPI)",
					"GET " + basePath + "/external/details/:source/:id": "Get movie details from external API",
					"POST " + basePath + "/external/import":             "Import movie from external API to database",
					"POST " + basePath + "/external/bulk-import":        "Bulk import movies from external API",
					"PUT " + basePath + "/external/sync/:id":            "Sync existing movie with external API data",
				},
			},
		})
	}
}
