package services

import (
	"context"
	"errors"
	"strings"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

var (
	// ErrNotConfigured marks a missing or placeholder API key. It is a
	// configuration problem, not a network one.
	ErrNotConfigured = errors.New("api key not configured")

	// ErrProviderNotFound is the provider's own "no such movie" answer.
	ErrProviderNotFound = errors.New("movie not found")

	// ErrUnsupportedSource marks a source name no client implements.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// Provider is the capability every external movie source implements. The
// aggregator and the importer depend on this, never on a concrete client.
type Provider interface {
	// Name is the lower-case source tag (tmdb, omdb, rapidapi).
	Name() string

	// Search finds movies by title. Year is ignored by providers that do not
	// accept it; page by providers that do not paginate.
	Search(ctx context.Context, query string, year, page int) (*models.SearchResult, error)

	// FetchDetail loads the full record for one provider identifier.
	FetchDetail(ctx context.Context, externalID string) (*models.ExternalMovieDetail, error)
}

// Providers is the set of configured clients, looked up by source name. The
// fields are the capability interface so tests can substitute fakes.
type Providers struct {
	TMDB     Provider
	OMDB     Provider
	RapidAPI Provider
}

// Lookup resolves a source name, accepting the imdb alias for rapidapi.
func (p *Providers) Lookup(source string) (Provider, error) {
	switch strings.ToLower(source) {
	case "tmdb":
		return p.TMDB, nil
	case "omdb":
		return p.OMDB, nil
	case "rapidapi", "imdb":
		return p.RapidAPI, nil
	default:
		return nil, ErrUnsupportedSource
	}
}

// All returns every provider in a fixed order.
func (p *Providers) All() []Provider {
	return []Provider{p.TMDB, p.OMDB, p.RapidAPI}
}

// isPlaceholder reports keys left at their .env.example value.
func isPlaceholder(key string) bool {
	return key == "" || strings.HasPrefix(key, "your_")
}
