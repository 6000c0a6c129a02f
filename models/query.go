package models

import "math"

// MovieListQuery carries the GET /movies query parameters.
type MovieListQuery struct {
	Page        int     `form:"page" validate:"omitempty,gte=1"`
	Limit       int     `form:"limit" validate:"omitempty,gte=1,lte=100"`
	Search      string  `form:"search"`
	Genre       string  `form:"genre"`
	Director    string  `form:"director"`
	ReleaseYear int     `form:"releaseYear" validate:"omitempty,releaseyear"`
	MinRating   float64 `form:"minRating" validate:"omitempty,gte=0,lte=10"`
	MaxRating   float64 `form:"maxRating" validate:"omitempty,gte=0,lte=10"`
	SortBy      string  `form:"sortBy" validate:"omitempty,oneof=title releaseYear rating createdAt"`
	SortOrder   string  `form:"sortOrder" validate:"omitempty,oneof=asc desc"`

	// Set when the parameter was present, so 0-valued filters stay distinguishable.
	HasMinRating bool `form:"-"`
	HasMaxRating bool `form:"-"`
}

func (q *MovieListQuery) Validate() []string {
	return translateErrors(validate.Struct(q))
}

// Normalize fills in the documented defaults.
func (q *MovieListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

func (q *MovieListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Pagination is the list-response paging block.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination derives the paging block from a page/limit pair and the total
// number of matching rows.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// StatsOverview summarises the whole catalog.
type StatsOverview struct {
	TotalMovies   int64   `json:"totalMovies"`
	AverageRating float64 `json:"averageRating"`
	HighestRating float64 `json:"highestRating"`
	LowestRating  float64 `json:"lowestRating"`
	NewestYear    int     `json:"newestYear"`
	OldestYear    int     `json:"oldestYear"`
}

// GenreCount is one row of the top-genres ranking.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}
