package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Movie is the catalog entity. Genre and cast are stored as JSON arrays,
// externalIds as a JSON object keyed by provider name (tmdb, omdb, ...).
type Movie struct {
	ID          string                      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                      `gorm:"size:200;not null;index" json:"title"`
	Genre       datatypes.JSONSlice[string] `gorm:"not null" json:"genre"`
	Director    string                      `gorm:"size:100;not null;index" json:"director"`
	ReleaseYear int                         `gorm:"not null;index" json:"releaseYear"`
	Rating      float64                     `gorm:"default:0;index" json:"rating"`
	Description string                      `gorm:"size:1000" json:"description,omitempty"`
	Duration    int                         `json:"duration,omitempty"`
	Poster      string                      `json:"poster,omitempty"`
	Cast        datatypes.JSONSlice[string] `json:"cast,omitempty"`
	Language    string                      `gorm:"size:100" json:"language,omitempty"`
	Country     string                      `gorm:"size:100" json:"country,omitempty"`
	Budget      float64                     `json:"budget,omitempty"`
	BoxOffice   float64                     `json:"boxOffice,omitempty"`
	ExternalIDs datatypes.JSONMap           `gorm:"column:external_ids" json:"externalIds,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`

	// Age is derived from the release year and never stored.
	Age int `gorm:"-" json:"age"`
}

func (Movie) TableName() string { return "movies" }

// BeforeCreate assigns the identifier and the language default.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Language == "" {
		m.Language = "English"
	}
	return nil
}

// BeforeSave upper-cases the first character of the title, whatever the input
// casing was.
func (m *Movie) BeforeSave(tx *gorm.DB) error {
	m.Title = capitalize(strings.TrimSpace(m.Title))
	return nil
}

func (m *Movie) AfterFind(tx *gorm.DB) error {
	m.computeAge()
	return nil
}

func (m *Movie) AfterSave(tx *gorm.DB) error {
	m.computeAge()
	return nil
}

func (m *Movie) computeAge() {
	m.Age = time.Now().Year() - m.ReleaseYear
}

// SetExternalID records the provider's identifier for this record.
func (m *Movie) SetExternalID(provider, externalID string) {
	if m.ExternalIDs == nil {
		m.ExternalIDs = datatypes.JSONMap{}
	}
	m.ExternalIDs[provider] = externalID
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
