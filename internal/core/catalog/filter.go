package catalog

import (
	"strings"

	"github.com/xcalota/panel/internal/core/domain"
)

// Stats summarizes a filtered list.
type Stats struct {
	Total   int `json:"total"`
	Showing int `json:"showing"`
}

// Filter returns the restaurants whose name or slug contains query,
// case-insensitively. A blank query returns the list as-is.
func Filter(list []domain.Restaurant, query string) []domain.Restaurant {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}

	out := make([]domain.Restaurant, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Slug), q) {
			out = append(out, r)
		}
	}
	return out
}

// Summarize counts the full list and the filtered subset.
func Summarize(all, shown []domain.Restaurant) Stats {
	return Stats{Total: len(all), Showing: len(shown)}
}
