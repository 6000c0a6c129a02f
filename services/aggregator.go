package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

// SearchOptions narrows a multi-source search.
type SearchOptions struct {
	Year            int
	Page            int
	ExcludeTMDB     bool
	ExcludeOMDB     bool
	ExcludeRapidAPI bool
}

// Aggregator fans a search out to every non-excluded provider and merges the
// outcomes. A provider failure lands in its per-source slot and never touches
// the siblings.
type Aggregator struct {
	providers *Providers
	log       zerolog.Logger
}

func NewAggregator(providers *Providers, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		providers: providers,
		log:       logger.With().Str("component", "aggregator").Logger(),
	}
}

// SearchAllSources runs the fan-out with all-settled semantics: every branch
// completes and reports either its result or its error.
func (a *Aggregator) SearchAllSources(ctx context.Context, query string, opts SearchOptions) *models.AggregatedSearch {
	type branch struct {
		provider Provider
		year     int
	}

	var branches []branch
	if !opts.ExcludeTMDB {
		branches = append(branches, branch{provider: a.providers.TMDB})
	}
	if !opts.ExcludeOMDB {
		branches = append(branches, branch{provider: a.providers.OMDB, year: opts.Year})
	}
	if !opts.ExcludeRapidAPI {
		branches = append(branches, branch{provider: a.providers.RapidAPI})
	}

	outcomes := make([]models.SourceOutcome, len(branches))

	var wg sync.WaitGroup
	for i, b := range branches {
		wg.Add(1)
		go func(i int, b branch) {
			defer wg.Done()
			result, err := b.provider.Search(ctx, query, b.year, opts.Page)
			if err != nil {
				a.log.Warn().Str("source", b.provider.Name()).Err(err).Msg("provider search failed")
				outcomes[i] = models.SourceOutcome{Error: err.Error()}
				return
			}
			outcomes[i] = models.SourceOutcome{SearchResult: result}
		}(i, b)
	}
	wg.Wait()

	out := &models.AggregatedSearch{
		Query:    query,
		Sources:  make(map[string]models.SourceOutcome, len(branches)),
		Combined: []models.ExternalMovie{},
	}
	for i, b := range branches {
		out.Sources[b.provider.Name()] = outcomes[i]
		if outcomes[i].SearchResult != nil {
			out.Combined = append(out.Combined, outcomes[i].Results...)
		}
	}
	out.Combined = DedupeMovies(out.Combined)
	return out
}

// DedupeMovies drops entries whose case-normalized title and release year were
// already seen. First occurrence wins; order is otherwise preserved.
func DedupeMovies(movies []models.ExternalMovie) []models.ExternalMovie {
	seen := make(map[string]struct{}, len(movies))
	unique := make([]models.ExternalMovie, 0, len(movies))
	for _, m := range movies {
		year := ""
		if m.ReleaseYear != nil {
			year = fmt.Sprintf("%d", *m.ReleaseYear)
		}
		key := strings.ToLower(m.Title) + "_" + year
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}
