package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// validate backs request validation for both create and update bodies.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Upper bound moves with the clock, so it cannot live in a struct tag.
	_ = v.RegisterValidation("releaseyear", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= 1888 && year <= time.Now().Year()+5
	})
	return v
}

// CreateMovieRequest is the POST /movies body.
type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,min=1"`
	Director    string   `json:"director" validate:"required,max=100"`
	ReleaseYear int      `json:"releaseYear" validate:"required,releaseyear"`
	Rating      float64  `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Duration    int      `json:"duration" validate:"omitempty,gt=0"`
	Poster      string   `json:"poster" validate:"omitempty,url"`
	Cast        []string `json:"cast" validate:"omitempty,dive,min=1"`
	Language    string   `json:"language"`
	Country     string   `json:"country"`
	Budget      float64  `json:"budget" validate:"omitempty,gte=0"`
	BoxOffice   float64  `json:"boxOffice" validate:"omitempty,gte=0"`
}

func (r *CreateMovieRequest) Validate() []string {
	return translateErrors(validate.Struct(r))
}

// ToMovie builds the entity to persist.
func (r *CreateMovieRequest) ToMovie() *Movie {
	return &Movie{
		Title:       r.Title,
		Genre:       datatypes.NewJSONSlice(r.Genre),
		Director:    r.Director,
		ReleaseYear: r.ReleaseYear,
		Rating:      r.Rating,
		Description: r.Description,
		Duration:    r.Duration,
		Poster:      r.Poster,
		Cast:        datatypes.NewJSONSlice(r.Cast),
		Language:    r.Language,
		Country:     r.Country,
		Budget:      r.Budget,
		BoxOffice:   r.BoxOffice,
	}
}

// UpdateMovieRequest is the PUT /movies/:id body. Pointer fields distinguish
// "absent" from zero values.
type UpdateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Genre       []string `json:"genre" validate:"omitempty,min=1,dive,min=1"`
	Director    *string  `json:"director" validate:"omitempty,min=1,max=100"`
	ReleaseYear *int     `json:"releaseYear" validate:"omitempty,releaseyear"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Duration    *int     `json:"duration" validate:"omitempty,gt=0"`
	Poster      *string  `json:"poster" validate:"omitempty,url"`
	Cast        []string `json:"cast" validate:"omitempty,dive,min=1"`
	Language    *string  `json:"language"`
	Country     *string  `json:"country"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
	BoxOffice   *float64 `json:"boxOffice" validate:"omitempty,gte=0"`
}

func (r *UpdateMovieRequest) Validate() []string {
	return translateErrors(validate.Struct(r))
}

// Apply copies the provided fields onto the movie.
func (r *UpdateMovieRequest) Apply(m *Movie) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Genre != nil {
		m.Genre = datatypes.NewJSONSlice(r.Genre)
	}
	if r.Director != nil {
		m.Director = *r.Director
	}
	if r.ReleaseYear != nil {
		m.ReleaseYear = *r.ReleaseYear
	}
	if r.Rating != nil {
		m.Rating = *r.Rating
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.Duration != nil {
		m.Duration = *r.Duration
	}
	if r.Poster != nil {
		m.Poster = *r.Poster
	}
	if r.Cast != nil {
		m.Cast = datatypes.NewJSONSlice(r.Cast)
	}
	if r.Language != nil {
		m.Language = *r.Language
	}
	if r.Country != nil {
		m.Country = *r.Country
	}
	if r.Budget != nil {
		m.Budget = *r.Budget
	}
	if r.BoxOffice != nil {
		m.BoxOffice = *r.BoxOffice
	}
}

// fieldMessages mirrors the API's documented validation wording.
var fieldMessages = map[string]string{
	"Title.required":          "Movie title is required",
	"Title.min":               "Movie title is required",
	"Title.max":               "Title cannot exceed 200 characters",
	"Genre.required":          "At least one genre is required",
	"Genre.min":               "At least one genre is required",
	"Director.required":       "Director is required",
	"Director.min":            "Director is required",
	"Director.max":            "Director name cannot exceed 100 characters",
	"ReleaseYear.required":    "Release year is required",
	"ReleaseYear.releaseyear": "Release year must be between 1888 and 5 years in the future",
	"Rating.gte":              "Rating cannot be less than 0",
	"Rating.lte":              "Rating cannot be more than 10",
	"Description.max":         "Description cannot exceed 1000 characters",
	"Duration.gt":             "Duration must be at least 1 minute",
	"Poster.url":              "Poster must be a valid URL",
	"Budget.gte":              "Budget cannot be negative",
	"BoxOffice.gte":           "Box office cannot be negative",
}

func translateErrors(err error) []string {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fe.StructField() + "." + fe.Tag()
		if msg, ok := fieldMessages[key]; ok {
			msgs = append(msgs, msg)
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.StructField(), fe.Tag()))
	}
	return msgs
}
