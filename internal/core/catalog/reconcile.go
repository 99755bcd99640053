package catalog

import "github.com/xcalota/panel/internal/core/domain"

// AfterCreate returns the list to display after a successful create.
//
// The re-listed records are authoritative. When the read side returns
// nothing (a backend without a working list endpoint), the just-created
// record is shown on its own so the user sees the result of the submit.
func AfterCreate(listed []domain.Restaurant, created domain.Restaurant) []domain.Restaurant {
	if len(listed) > 0 {
		return listed
	}
	return []domain.Restaurant{created}
}
