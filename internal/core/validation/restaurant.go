package validation

import (
	"strings"

	"github.com/xcalota/panel/internal/core/domain"
)

// =============================================================================
// Restaurant Validation Functions
// =============================================================================

// ValidateCreateRestaurantFields validates required fields for restaurant
// creation. Both fields are checked after trimming, and the slug must already
// be in normalized form.
// Returns the field name and error message if validation fails.
// Returns empty strings if all fields are valid.
func ValidateCreateRestaurantFields(name, slug string) (field, message string) {
	if strings.TrimSpace(name) == "" {
		return "name", "name is required"
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "slug", "slug is required"
	}
	if !domain.IsSlug(slug) {
		return "slug", "slug must be lowercase letters and digits separated by single dashes"
	}
	return "", ""
}

// RestaurantName returns the trimmed name from a create payload that may
// carry it as "nome" or "name". A non-blank nome wins.
func RestaurantName(nome, name string) string {
	if n := strings.TrimSpace(nome); n != "" {
		return n
	}
	return strings.TrimSpace(name)
}
