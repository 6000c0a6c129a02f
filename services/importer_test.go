package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
	"github.com/WebDev-Insider/movie-api-project-defence/repository"
)

func newTestRepo(t *testing.T) *repository.MovieRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Movie{}))
	return repository.NewMovieRepository(db)
}

func floatPtr(v float64) *float64 { return &v }

func fullDetail(id, title string, year int) *models.ExternalMovieDetail {
	return &models.ExternalMovieDetail{
		ExternalMovie: models.ExternalMovie{
			ExternalID:  id,
			Title:       title,
			ReleaseYear: intPtr(year),
			Description: "A mythic hero's journey on a desert planet.",
			Rating:      floatPtr(8.0),
			Poster:      "https://image.tmdb.org/t/p/w500/dune.jpg",
			Genre:       []string{"Science Fiction", "Adventure"},
			Source:      "TMDB",
		},
		Director: "Denis Villeneuve",
		Cast:     []string{"Timothee Chalamet", "Rebecca Ferguson"},
		Duration: intPtr(155),
	}
}

func detailProvider(name string, detail *models.ExternalMovieDetail) *fakeProvider {
	return &fakeProvider{
		name:     name,
		searchFn: failingSearch("search not expected"),
		detailFn: func(string) (*models.ExternalMovieDetail, error) { return detail, nil },
	}
}

func TestImportMovieCreates(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())
	provider := detailProvider("tmdb", fullDetail("438631", "dune", 2021))

	movie, err := im.ImportMovie(context.Background(), provider, "438631", false)
	require.NoError(t, err)
	assert.Equal(t, "Dune", movie.Title)
	assert.Equal(t, "Denis Villeneuve", movie.Director)
	assert.Equal(t, "438631", movie.ExternalIDs["tmdb"])

	stored, err := repo.GetByID(movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 2021, stored.ReleaseYear)
	assert.Equal(t, []string{"Science Fiction", "Adventure"}, []string(stored.Genre))
}

func TestImportMovieConflict(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())
	provider := detailProvider("tmdb", fullDetail("438631", "Dune", 2021))

	first, err := im.ImportMovie(context.Background(), provider, "438631", false)
	require.NoError(t, err)

	_, err = im.ImportMovie(context.Background(), provider, "438631", false)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.Existing.ID)
}

func TestImportMovieOverwriteMerges(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())
	provider := detailProvider("tmdb", fullDetail("438631", "Dune", 2021))

	first, err := im.ImportMovie(context.Background(), provider, "438631", false)
	require.NoError(t, err)

	refreshed := fullDetail("438631", "Dune", 2021)
	refreshed.Rating = floatPtr(8.3)
	refreshed.BoxOffice = floatPtr(402027830)
	provider.detailFn = func(string) (*models.ExternalMovieDetail, error) { return refreshed, nil }

	updated, err := im.ImportMovie(context.Background(), provider, "438631", true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, 8.3, updated.Rating)
	assert.Equal(t, 402027830.0, updated.BoxOffice)
}

func TestImportMovieRequiresCatalogFields(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())

	sparse := fullDetail("438631", "Dune", 2021)
	sparse.Genre = nil
	provider := detailProvider("tmdb", sparse)

	_, err := im.ImportMovie(context.Background(), provider, "438631", false)
	assert.ErrorContains(t, err, "no genre")
}

func TestBulkImportBucketsEveryItem(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())

	existing := fullDetail("3", "Arrival", 2016)
	seed, err := movieFromDetail(existing)
	require.NoError(t, err)
	require.NoError(t, repo.Create(seed))

	details := map[string]*models.ExternalMovieDetail{
		"1": fullDetail("1", "Dune", 2021),
		"3": existing,
	}
	provider := &fakeProvider{
		name: "tmdb",
		searchFn: staticSearch("TMDB",
			summary("1", "Dune", 2021, "TMDB"),
			summary("2", "Broken", 2020, "TMDB"),
			summary("3", "Arrival", 2016, "TMDB"),
			summary("4", "Beyond The Limit", 2019, "TMDB"),
		),
		detailFn: func(id string) (*models.ExternalMovieDetail, error) {
			d, ok := details[id]
			if !ok {
				return nil, errors.New("tmdb: movie not found")
			}
			return d, nil
		},
	}

	report, err := im.BulkImport(context.Background(), provider, "anything", 3)
	require.NoError(t, err)

	require.Len(t, report.Successful, 1)
	assert.Equal(t, "Dune", report.Successful[0].Title)
	assert.NotEmpty(t, report.Successful[0].ID)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "Already exists", report.Skipped[0].Reason)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Broken", report.Failed[0].Title)
	assert.Equal(t, "tmdb: movie not found", report.Failed[0].Error)
}

func TestSyncMovieMergesAndPreservesIdentity(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())

	seed, err := movieFromDetail(fullDetail("438631", "Dune", 2021))
	require.NoError(t, err)
	seed.Description = "stale description"
	require.NoError(t, repo.Create(seed))

	refreshed := fullDetail("438631", "DUNE", 2021)
	refreshed.Description = "fresh description"
	provider := &fakeProvider{
		name:     "tmdb",
		searchFn: staticSearch("TMDB", summary("438631", "DUNE", 2021, "TMDB")),
		detailFn: func(string) (*models.ExternalMovieDetail, error) { return refreshed, nil },
	}

	synced, err := im.SyncMovie(context.Background(), provider, seed.ID)
	require.NoError(t, err)
	assert.Equal(t, seed.ID, synced.ID)
	assert.Equal(t, seed.CreatedAt.Unix(), synced.CreatedAt.Unix())
	assert.Equal(t, "fresh description", synced.Description)
	assert.Equal(t, "438631", synced.ExternalIDs["tmdb"])
}

func TestSyncMovieNoMatch(t *testing.T) {
	repo := newTestRepo(t)
	im := NewImporter(repo, 0, zerolog.Nop())

	seed, err := movieFromDetail(fullDetail("438631", "Dune", 2021))
	require.NoError(t, err)
	require.NoError(t, repo.Create(seed))

	provider := &fakeProvider{
		name:     "tmdb",
		searchFn: staticSearch("TMDB", summary("9", "Dune", 1984, "TMDB")),
	}

	_, err = im.SyncMovie(context.Background(), provider, seed.ID)
	assert.ErrorIs(t, err, ErrNoMatch)
}
