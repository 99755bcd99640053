// Package validation provides pure validation functions for API handlers.
//
// All functions are pure (no I/O, no side effects). Handlers map a failed
// check to a 400 response naming the offending field.
//
// # Functions
//
//   - ValidateCreateRestaurantFields: Validate required fields for restaurant creation
//   - RestaurantName: Pick the name from the "nome"/"name" pair
//
// # Usage
//
//	if field, msg := validation.ValidateCreateRestaurantFields(name, slug); field != "" {
//	    // Return 400 Bad Request with msg
//	}
package validation
