package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
	"github.com/WebDev-Insider/movie-api-project-defence/repository"
)

// ErrNoMatch means the provider search returned nothing with the local title
// and release year.
var ErrNoMatch = errors.New("no matching movie found at provider")

// ConflictError reports an import that hit an existing record without the
// overwrite flag. The existing record rides along for the response body.
type ConflictError struct {
	Existing *models.Movie
}

func (e *ConflictError) Error() string {
	return "movie already exists in database"
}

// Importer moves normalized external records into the catalog.
type Importer struct {
	repo  *repository.MovieRepository
	delay time.Duration
	log   zerolog.Logger
}

// NewImporter builds an importer. delay is the pause between successive bulk
// creations; it exists to respect provider rate limits and must stay.
func NewImporter(repo *repository.MovieRepository, delay time.Duration, logger zerolog.Logger) *Importer {
	return &Importer{
		repo:  repo,
		delay: delay,
		log:   logger.With().Str("component", "importer").Logger(),
	}
}

// ImportMovie fetches one record by provider id and creates or updates the
// local movie. Existence is checked by title+year and by the stored provider
// id; hitting an existing record without overwrite is a conflict.
func (im *Importer) ImportMovie(ctx context.Context, provider Provider, externalID string, overwrite bool) (*models.Movie, error) {
	detail, err := provider.FetchDetail(ctx, externalID)
	if err != nil {
		return nil, err
	}

	existing, err := im.findExisting(provider.Name(), externalID, detail)
	if err != nil {
		return nil, err
	}

	if existing != nil && !overwrite {
		return nil, &ConflictError{Existing: existing}
	}

	if existing != nil {
		applyDetail(existing, detail)
		existing.SetExternalID(provider.Name(), externalID)
		if err := im.repo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	movie, err := movieFromDetail(detail)
	if err != nil {
		return nil, err
	}
	movie.SetExternalID(provider.Name(), externalID)
	if err := im.repo.Create(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// BulkImport searches the provider and imports up to limit results one at a
// time. Existing title+year matches are skipped, per-item failures recorded,
// and a delay separates successive creations.
func (im *Importer) BulkImport(ctx context.Context, provider Provider, searchQuery string, limit int) (*models.BulkImportReport, error) {
	search, err := provider.Search(ctx, searchQuery, 0, 1)
	if err != nil {
		return nil, err
	}

	summaries := search.Results
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	report := &models.BulkImportReport{
		Successful: []models.ImportedItem{},
		Skipped:    []models.SkippedItem{},
		Failed:     []models.FailedItem{},
	}

	for _, summary := range summaries {
		detail, err := provider.FetchDetail(ctx, summary.ExternalID)
		if err != nil {
			report.Failed = append(report.Failed, models.FailedItem{Title: summary.Title, Error: err.Error()})
			continue
		}

		year := 0
		if detail.ReleaseYear != nil {
			year = *detail.ReleaseYear
		}
		existing, err := im.repo.FindByTitleYear(detail.Title, year)
		if err != nil {
			report.Failed = append(report.Failed, models.FailedItem{Title: summary.Title, Error: err.Error()})
			continue
		}
		if existing != nil {
			report.Skipped = append(report.Skipped, models.SkippedItem{Title: detail.Title, Reason: "Already exists"})
			continue
		}

		movie, err := movieFromDetail(detail)
		if err != nil {
			report.Failed = append(report.Failed, models.FailedItem{Title: summary.Title, Error: err.Error()})
			continue
		}
		movie.SetExternalID(provider.Name(), summary.ExternalID)
		if err := im.repo.Create(movie); err != nil {
			report.Failed = append(report.Failed, models.FailedItem{Title: summary.Title, Error: err.Error()})
			continue
		}
		report.Successful = append(report.Successful, models.ImportedItem{Title: movie.Title, ID: movie.ID})

		// Deliberate throttle between creations; do not parallelize this loop.
		if im.delay > 0 {
			select {
			case <-time.After(im.delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}
	return report, nil
}

// SyncMovie refreshes a local record from the provider. The provider match
// must agree on case-insensitive title and exact year; the local id and
// creation timestamp survive the merge.
func (im *Importer) SyncMovie(ctx context.Context, provider Provider, id string) (*models.Movie, error) {
	movie, err := im.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	search, err := provider.Search(ctx, movie.Title, movie.ReleaseYear, 1)
	if err != nil {
		return nil, err
	}

	var match *models.ExternalMovie
	for i := range search.Results {
		r := &search.Results[i]
		if strings.EqualFold(r.Title, movie.Title) && r.ReleaseYear != nil && *r.ReleaseYear == movie.ReleaseYear {
			match = r
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s (%d)", ErrNoMatch, movie.Title, movie.ReleaseYear)
	}

	detail, err := provider.FetchDetail(ctx, match.ExternalID)
	if err != nil {
		return nil, err
	}

	applyDetail(movie, detail)
	movie.SetExternalID(provider.Name(), match.ExternalID)
	if err := im.repo.Update(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (im *Importer) findExisting(providerName, externalID string, detail *models.ExternalMovieDetail) (*models.Movie, error) {
	if detail.ReleaseYear != nil {
		movie, err := im.repo.FindByTitleYear(detail.Title, *detail.ReleaseYear)
		if err != nil || movie != nil {
			return movie, err
		}
	}
	return im.repo.FindByExternalID(providerName, externalID)
}

// movieFromDetail builds a catalog record from a normalized detail. Fields the
// catalog requires but the provider omitted fail the import, except the
// director, which falls back to "Unknown".
func movieFromDetail(detail *models.ExternalMovieDetail) (*models.Movie, error) {
	if detail.Title == "" {
		return nil, errors.New("provider record has no title")
	}
	if detail.ReleaseYear == nil {
		return nil, errors.New("provider record has no release year")
	}
	if len(detail.Genre) == 0 {
		return nil, errors.New("provider record has no genre")
	}

	movie := &models.Movie{
		Title:       detail.Title,
		Genre:       datatypes.NewJSONSlice(detail.Genre),
		Director:    detail.Director,
		ReleaseYear: *detail.ReleaseYear,
		Description: detail.Description,
		Poster:      detail.Poster,
		Cast:        datatypes.NewJSONSlice(detail.Cast),
		Language:    detail.Language,
		Country:     detail.Country,
	}
	if movie.Director == "" {
		movie.Director = "Unknown"
	}
	if detail.Rating != nil {
		movie.Rating = *detail.Rating
	}
	if detail.Duration != nil {
		movie.Duration = *detail.Duration
	}
	if detail.Budget != nil {
		movie.Budget = *detail.Budget
	}
	if detail.BoxOffice != nil {
		movie.BoxOffice = *detail.BoxOffice
	}
	return movie, nil
}

// applyDetail merges provider fields onto an existing record. Only reported
// fields overwrite; the id and timestamps are untouched.
func applyDetail(movie *models.Movie, detail *models.ExternalMovieDetail) {
	if detail.Title != "" {
		movie.Title = detail.Title
	}
	if len(detail.Genre) > 0 {
		movie.Genre = datatypes.NewJSONSlice(detail.Genre)
	}
	if detail.Director != "" {
		movie.Director = detail.Director
	}
	if detail.ReleaseYear != nil {
		movie.ReleaseYear = *detail.ReleaseYear
	}
	if detail.Rating != nil {
		movie.Rating = *detail.Rating
	}
	if detail.Description != "" {
		movie.Description = detail.Description
	}
	if detail.Duration != nil {
		movie.Duration = *detail.Duration
	}
	if detail.Poster != "" {
		movie.Poster = detail.Poster
	}
	if len(detail.Cast) > 0 {
		movie.Cast = datatypes.NewJSONSlice(detail.Cast)
	}
	if detail.Language != "" {
		movie.Language = detail.Language
	}
	if detail.Country != "" {
		movie.Country = detail.Country
	}
	if detail.Budget != nil {
		movie.Budget = *detail.Budget
	}
	if detail.BoxOffice != nil {
		movie.BoxOffice = *detail.BoxOffice
	}
}
