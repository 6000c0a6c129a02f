package models

// ExternalMovie is the canonical summary shape every provider response is
// normalized into. Pointer fields distinguish "not reported" from zero.
type ExternalMovie struct {
	ExternalID  string   `json:"externalId"`
	Title       string   `json:"title"`
	ReleaseYear *int     `json:"releaseYear"`
	Description string   `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Poster      string   `json:"poster,omitempty"`
	Genre       []string `json:"genre,omitempty"`
	Source      string   `json:"source"`
}

// ExternalMovieDetail is the canonical detail shape.
type ExternalMovieDetail struct {
	ExternalMovie
	Director  string   `json:"director,omitempty"`
	Cast      []string `json:"cast,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
	Budget    *float64 `json:"budget,omitempty"`
	BoxOffice *float64 `json:"boxOffice,omitempty"`
	Language  string   `json:"language,omitempty"`
	Country   string   `json:"country,omitempty"`
}

// SearchResult is one provider's normalized search response.
type SearchResult struct {
	Source       string          `json:"source"`
	Results      []ExternalMovie `json:"results"`
	TotalResults int             `json:"totalResults,omitempty"`
	TotalPages   int             `json:"totalPages,omitempty"`
	Page         int             `json:"page,omitempty"`
}

// SourceOutcome is the per-provider slot of an aggregated search: either the
// provider's result or its error message, never both.
type SourceOutcome struct {
	*SearchResult
	Error string `json:"error,omitempty"`
}

// AggregatedSearch is the multi-source search envelope.
type AggregatedSearch struct {
	Query    string                   `json:"query"`
	Sources  map[string]SourceOutcome `json:"sources"`
	Combined []ExternalMovie          `json:"combined"`
}

// ImportedItem / SkippedItem / FailedItem are the three bulk-import buckets.
type ImportedItem struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

type SkippedItem struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type FailedItem struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// BulkImportReport accounts for every attempted item.
type BulkImportReport struct {
	Successful []ImportedItem `json:"successful"`
	Skipped    []SkippedItem  `json:"skipped"`
	Failed     []FailedItem   `json:"failed"`
}
