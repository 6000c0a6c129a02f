package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeCreateAssignsDefaults(t *testing.T) {
	m := &Movie{Title: "Dune", ReleaseYear: 2021}
	require.NoError(t, m.BeforeCreate(nil))
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "English", m.Language)

	m2 := &Movie{ID: "fixed", Language: "French"}
	require.NoError(t, m2.BeforeCreate(nil))
	assert.Equal(t, "fixed", m2.ID)
	assert.Equal(t, "French", m2.Language)
}

func TestBeforeSaveCapitalizesTitle(t *testing.T) {
	cases := map[string]string{
		"dune":        "Dune",
		"  dune  ":    "Dune",
		"the matrix":  "The matrix",
		"DUNE":        "DUNE",
		"élite squad": "Élite squad",
		"":            "",
	}
	for in, want := range cases {
		m := &Movie{Title: in}
		require.NoError(t, m.BeforeSave(nil))
		assert.Equal(t, want, m.Title)
	}
}

func TestAfterFindComputesAge(t *testing.T) {
	m := &Movie{ReleaseYear: 2010}
	require.NoError(t, m.AfterFind(nil))
	assert.Equal(t, time.Now().Year()-2010, m.Age)
}

func TestSetExternalID(t *testing.T) {
	m := &Movie{}
	m.SetExternalID("tmdb", "438631")
	m.SetExternalID("omdb", "tt1160419")
	assert.Equal(t, "438631", m.ExternalIDs["tmdb"])
	assert.Equal(t, "tt1160419", m.ExternalIDs["omdb"])
}
