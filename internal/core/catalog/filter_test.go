package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xcalota/panel/internal/core/domain"
)

var sampleList = []domain.Restaurant{
	{ID: "1", Name: "Maria Açaí", Slug: "maria-acai"},
	{ID: "2", Name: "Pizza Joe", Slug: "pizza-joe"},
	{ID: "3", Name: "Cantina", Slug: "cantina-da-mama"},
}

func TestFilter_BlankQuery(t *testing.T) {
	assert.Equal(t, sampleList, Filter(sampleList, "   "))
}

func TestFilter_ByName(t *testing.T) {
	got := Filter(sampleList, "PIZZA")
	assert.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilter_BySlug(t *testing.T) {
	got := Filter(sampleList, "mama")
	assert.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestFilter_NoMatch(t *testing.T) {
	assert.Empty(t, Filter(sampleList, "sushi"))
}

func TestSummarize(t *testing.T) {
	shown := Filter(sampleList, "a")
	stats := Summarize(sampleList, shown)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, len(shown), stats.Showing)
}
