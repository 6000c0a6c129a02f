package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
	"github.com/WebDev-Insider/movie-api-project-defence/repository"
	"github.com/WebDev-Insider/movie-api-project-defence/utils"
)

// GetMovies handles GET /movies with search, filters, sorting and pagination.
func GetMovies(repo *repository.MovieRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.MovieListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			utils.RespondValidation(c, "Invalid query parameters", []string{err.Error()})
			return
		}
		q.HasMinRating = c.Query("minRating") != ""
		q.HasMaxRating = c.Query("maxRating") != ""

		if errs := q.Validate(); len(errs) > 0 {
			utils.RespondValidation(c, "Invalid query parameters", errs)
			return
		}
		q.Normalize()

		movies, total, err := repo.List(&q)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch movies")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"count":      len(movies),
			"pagination": models.NewPagination(q.Page, q.Limit, total),
			"data":       movies,
		})
	}
}

// GetMovie handles GET /movies/:id.
func GetMovie(repo *repository.MovieRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		movie, err := repo.GetByID(c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondError(c, http.StatusNotFound, "Movie not found")
				return
			}
			utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch movie")
			return
		}
		utils.RespondData(c, http.StatusOK, movie)
	}
}

// CreateMovie handles POST /movies.
func CreateMovie(repo *repository.MovieRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateMovieRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondValidation(c, "Validation error", []string{err.Error()})
			return
		}
		if errs := req.Validate(); len(errs) > 0 {
			utils.RespondValidation(c, "Validation error", errs)
			return
		}

		movie := req.ToMovie()
		if err := repo.Create(movie); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to create movie")
			return
		}
		utils.RespondMessage(c, http.StatusCreated, "Movie created successfully", movie)
	}
}

// UpdateMovie handles PUT /movies/:id with a partial body.
func UpdateMovie(repo *repository.MovieRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateMovieRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondValidation(c, "Validation error", []string{err.Error()})
			return
		}
		if errs := req.Validate(); len(errs) > 0 {
			utils.RespondValidation(c, "Validation error", errs)
			return
		}

		movie, err := repo.GetByID(c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondError(c, http.StatusNotFound, "Movie not found")
				return
			}
			utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch movie")
			return
		}

		req.Apply(movie)
		if err := repo.Update(movie); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to update movie")
			return
		}
		utils.RespondMessage(c, http.StatusOK, "Movie updated successfully", movie)
	}
}

// DeleteMovie handles DELETE /movies/:id.
func DeleteMovie(repo *repository.MovieRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Delete(c.Param("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondError(c, http.StatusNotFound, "Movie not found")
				return
			}
			utils.RespondError(c, http.StatusInternalServerError, "Failed to delete movie")
			return
		}
		utils.RespondMessage(c, http.StatusOK, "Movie deleted successfully", gin.H{})
	}
}

// GetMovieStats handles GET /movies/stats.
func GetMovieStats(repo *repository.MovieRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, topGenres, err := repo.Stats()
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch statistics")
			return
		}
		utils.RespondData(c, http.StatusOK, gin.H{
			"overview":  overview,
			"topGenres": topGenres,
		})
	}
}
