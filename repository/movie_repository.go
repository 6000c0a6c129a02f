package repository

import (
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

// MovieRepository is the typed access layer over the movies collection.
type MovieRepository struct {
	DB *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{DB: db}
}

// sortColumns maps API sort keys onto store columns.
var sortColumns = map[string]string{
	"title":       "title",
	"releaseYear": "release_year",
	"rating":      "rating",
	"createdAt":   "created_at",
}

// List returns one page of movies plus the total match count.
func (r *MovieRepository) List(q *models.MovieListQuery) ([]models.Movie, int64, error) {
	tx := applyFilters(r.DB.Model(&models.Movie{}), q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := sortColumns[q.SortBy]
	order := "DESC"
	if q.SortOrder == "asc" {
		order = "ASC"
	}

	var movies []models.Movie
	err := tx.Order(column + " " + order).
		Offset(q.Skip()).
		Limit(q.Limit).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// applyFilters translates the query parameters into store predicates.
func applyFilters(tx *gorm.DB, q *models.MovieListQuery) *gorm.DB {
	if q.Search != "" {
		term := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if q.Genre != "" {
		// Genre is a JSON array; a substring match on its text form covers
		// case-insensitive matching against any element.
		tx = tx.Where("LOWER(CAST(genre AS TEXT)) LIKE ?", "%"+strings.ToLower(q.Genre)+"%")
	}
	if q.Director != "" {
		tx = tx.Where("LOWER(director) LIKE ?", "%"+strings.ToLower(q.Director)+"%")
	}
	if q.ReleaseYear != 0 {
		tx = tx.Where("release_year = ?", q.ReleaseYear)
	}
	if q.HasMinRating {
		tx = tx.Where("rating >= ?", q.MinRating)
	}
	if q.HasMaxRating {
		tx = tx.Where("rating <= ?", q.MaxRating)
	}
	return tx
}

func (r *MovieRepository) GetByID(id string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.DB.First(&movie, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepository) Create(movie *models.Movie) error {
	return r.DB.Create(movie).Error
}

func (r *MovieRepository) Update(movie *models.Movie) error {
	return r.DB.Save(movie).Error
}

func (r *MovieRepository) Delete(id string) error {
	res := r.DB.Delete(&models.Movie{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByTitleYear looks a movie up by case-insensitive title and exact year.
// A nil movie with a nil error means no match.
func (r *MovieRepository) FindByTitleYear(title string, year int) (*models.Movie, error) {
	var movie models.Movie
	err := r.DB.
		Where("LOWER(title) = ? AND release_year = ?", strings.ToLower(title), year).
		First(&movie).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

// FindByExternalID looks a movie up by a stored provider identifier.
func (r *MovieRepository) FindByExternalID(provider, externalID string) (*models.Movie, error) {
	var movie models.Movie
	err := r.DB.
		Where(datatypes.JSONQuery("external_ids").Equals(externalID, provider)).
		First(&movie).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

// Stats aggregates the catalog overview and the top-10 genres by frequency.
func (r *MovieRepository) Stats() (*models.StatsOverview, []models.GenreCount, error) {
	var overview models.StatsOverview
	err := r.DB.Model(&models.Movie{}).
		Select(`COUNT(*) AS total_movies,
			COALESCE(AVG(rating), 0) AS average_rating,
			COALESCE(MAX(rating), 0) AS highest_rating,
			COALESCE(MIN(rating), 0) AS lowest_rating,
			COALESCE(MAX(release_year), 0) AS newest_year,
			COALESCE(MIN(release_year), 0) AS oldest_year`).
		Scan(&overview).Error
	if err != nil {
		return nil, nil, err
	}

	// The genre column is a JSON array; unwinding it portably happens here
	// rather than in SQL.
	var rows []models.Movie
	if err := r.DB.Select("genre").Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	counts := map[string]int{}
	for _, m := range rows {
		for _, g := range m.Genre {
			counts[g]++
		}
	}
	top := make([]models.GenreCount, 0, len(counts))
	for g, n := range counts {
		top = append(top, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Genre < top[j].Genre
	})
	if len(top) > 10 {
		top = top[:10]
	}
	return &overview, top, nil
}
