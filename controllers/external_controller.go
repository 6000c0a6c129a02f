package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/WebDev-Insider/movie-api-project-defence/services"
	"github.com/WebDev-Insider/movie-api-project-defence/utils"
)

// SearchExternal handles GET /external/search. With a source parameter only
// that provider is queried; otherwise the search fans out to all of them.
func SearchExternal(providers *services.Providers, aggregator *services.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		if query == "" {
			utils.RespondError(c, http.StatusBadRequest, "Search query is required")
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		year, _ := strconv.Atoi(c.Query("year"))

		source := strings.ToLower(c.Query("source"))
		if source == "" || source == "all" {
			result := aggregator.SearchAllSources(c.Request.Context(), query, services.SearchOptions{
				Year:            year,
				Page:            page,
				ExcludeTMDB:     c.Query("excludeTMDB") == "true",
				ExcludeOMDB:     c.Query("excludeOMDB") == "true",
				ExcludeRapidAPI: c.Query("excludeRapidAPI") == "true",
			})
			utils.RespondData(c, http.StatusOK, result)
			return
		}

		provider, err := providers.Lookup(source)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Unsupported source. Use: tmdb, omdb, rapidapi, all")
			return
		}

		result, err := provider.Search(c.Request.Context(), query, year, page)
		if err != nil {
			utils.RespondError(c, providerStatus(err), err.Error())
			return
		}
		utils.RespondData(c, http.StatusOK, result)
	}
}

// GetExternalDetails handles GET /external/details/:source/:id.
func GetExternalDetails(providers *services.Providers) gin.HandlerFunc {
	return func(c *gin.Context) {
		source := strings.ToLower(c.Param("source"))
		if source != "tmdb" && source != "omdb" {
			utils.RespondError(c, http.StatusBadRequest, "Unsupported source. Use: tmdb, omdb")
			return
		}
		provider, _ := providers.Lookup(source)

		detail, err := provider.FetchDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondError(c, providerStatus(err), err.Error())
			return
		}
		utils.RespondData(c, http.StatusOK, detail)
	}
}

type importRequest struct {
	Source     string `json:"source"`
	ExternalID string `json:"externalId"`
	Overwrite  bool   `json:"overwrite"`
}

// ImportMovie handles POST /external/import.
func ImportMovie(providers *services.Providers, importer *services.Importer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Source == "" || req.ExternalID == "" {
			utils.RespondError(c, http.StatusBadRequest, "Source and external ID are required")
			return
		}

		source := strings.ToLower(req.Source)
		if source != "tmdb" && source != "omdb" {
			utils.RespondError(c, http.StatusBadRequest, "Unsupported source for import. Use: tmdb, omdb")
			return
		}
		provider, _ := providers.Lookup(source)

		movie, err := importer.ImportMovie(c.Request.Context(), provider, req.ExternalID, req.Overwrite)
		if err != nil {
			var conflict *services.ConflictError
			if errors.As(err, &conflict) {
				utils.RespondConflict(c, http.StatusConflict, "Movie already exists in database", conflict.Existing)
				return
			}
			utils.RespondError(c, providerStatus(err), err.Error())
			return
		}

		msg := fmt.Sprintf("Movie imported successfully from %s", strings.ToUpper(source))
		utils.RespondMessage(c, http.StatusCreated, msg, movie)
	}
}

type bulkImportRequest struct {
	SearchQuery string `json:"searchQuery"`
	Source      string `json:"source"`
	Limit       int    `json:"limit"`
}

// BulkImportMovies handles POST /external/bulk-import.
func BulkImportMovies(providers *services.Providers, importer *services.Importer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkImportRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.SearchQuery == "" {
			utils.RespondError(c, http.StatusBadRequest, "Search query is required for bulk import")
			return
		}
		if req.Source == "" {
			req.Source = "tmdb"
		}
		if req.Limit <= 0 {
			req.Limit = 10
		}

		source := strings.ToLower(req.Source)
		if source != "tmdb" && source != "omdb" {
			utils.RespondError(c, http.StatusBadRequest, "Unsupported source for bulk import. Use: tmdb, omdb")
			return
		}
		provider, _ := providers.Lookup(source)

		report, err := importer.BulkImport(c.Request.Context(), provider, req.SearchQuery, req.Limit)
		if err != nil {
			utils.RespondError(c, providerStatus(err), err.Error())
			return
		}

		msg := fmt.Sprintf("Bulk import completed. %d imported, %d skipped, %d failed",
			len(report.Successful), len(report.Skipped), len(report.Failed))
		utils.RespondMessage(c, http.StatusOK, msg, report)
	}
}

type syncRequest struct {
	Source string `json:"source"`
}

// SyncMovie handles PUT /external/sync/:id.
func SyncMovie(providers *services.Providers, importer *services.Importer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncRequest
		_ = c.ShouldBindJSON(&req)
		if req.Source == "" {
			req.Source = "tmdb"
		}

		source := strings.ToLower(req.Source)
		if source != "tmdb" && source != "omdb" {
			utils.RespondError(c, http.StatusBadRequest, "Unsupported source. Use: tmdb, omdb")
			return
		}
		provider, _ := providers.Lookup(source)

		movie, err := importer.SyncMovie(c.Request.Context(), provider, c.Param("id"))
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				utils.RespondError(c, http.StatusNotFound, "Movie not found")
			case errors.Is(err, services.ErrNoMatch):
				utils.RespondError(c, http.StatusNotFound,
					fmt.Sprintf("Movie not found in %s API", strings.ToUpper(source)))
			default:
				utils.RespondError(c, providerStatus(err), err.Error())
			}
			return
		}

		msg := fmt.Sprintf("Movie synced successfully with %s", strings.ToUpper(source))
		utils.RespondMessage(c, http.StatusOK, msg, movie)
	}
}

// providerStatus maps provider failures onto response codes: configuration
// problems are 503, a provider's own not-found is 404, anything else upstream
// is 502.
func providerStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrProviderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnsupportedSource):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
