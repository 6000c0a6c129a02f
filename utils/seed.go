package utils

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/WebDev-Insider/movie-api-project-defence/models"
)

// SeedSampleMovies inserts a starter catalog. It is a no-op when the movies
// table already has rows.
func SeedSampleMovies(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Movie{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []models.Movie{
		{
			Title:       "The Shawshank Redemption",
			Genre:       datatypes.NewJSONSlice([]string{"Drama"}),
			Director:    "Frank Darabont",
			ReleaseYear: 1994,
			Rating:      9.3,
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			Duration:    142,
			Language:    "English",
			Country:     "United States",
		},
		{
			Title:       "Inception",
			Genre:       datatypes.NewJSONSlice([]string{"Action", "Sci-Fi", "Thriller"}),
			Director:    "Christopher Nolan",
			ReleaseYear: 2010,
			Rating:      8.8,
			Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
			Duration:    148,
			Language:    "English",
			Country:     "United States",
		},
		{
			Title:       "Parasite",
			Genre:       datatypes.NewJSONSlice([]string{"Drama", "Thriller"}),
			Director:    "Bong Joon-ho",
			ReleaseYear: 2019,
			Rating:      8.5,
			Description: "Greed and class discrimination threaten the newly formed symbiotic relationship between the wealthy Park family and the destitute Kim clan.",
			Duration:    132,
			Language:    "Korean",
			Country:     "South Korea",
		},
		{
			Title:       "Spirited Away",
			Genre:       datatypes.NewJSONSlice([]string{"Animation", "Adventure", "Family"}),
			Director:    "Hayao Miyazaki",
			ReleaseYear: 2001,
			Rating:      8.6,
			Description: "During her family's move to the suburbs, a sullen 10-year-old girl wanders into a world ruled by gods, witches, and spirits.",
			Duration:    125,
			Language:    "Japanese",
			Country:     "Japan",
		},
		{
			Title:       "The Godfather",
			Genre:       datatypes.NewJSONSlice([]string{"Crime", "Drama"}),
			Director:    "Francis Ford Coppola",
			ReleaseYear: 1972,
			Rating:      9.2,
			Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
			Duration:    175,
			Language:    "English",
			Country:     "United States",
		},
	}

	return db.Create(&samples).Error
}
