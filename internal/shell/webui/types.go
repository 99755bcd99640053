package webui

import "strings"

// CreateRequest is the JSON body accepted by POST /restaurants.
// Both "name" and "nome" are accepted for the name.
type CreateRequest struct {
	Name string `json:"name"`
	Nome string `json:"nome"`
	Slug string `json:"slug"`
}

func (r CreateRequest) name() string {
	if strings.TrimSpace(r.Nome) != "" {
		return r.Nome
	}
	return r.Name
}

// FormUpdate is the JSON body accepted by POST /form. Only the fields that
// are present are applied, name before slug.
type FormUpdate struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// RestaurantResponse is the JSON form of a created restaurant.
type RestaurantResponse struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PublicPath string `json:"public_path"`
}

// SlugResponse is returned by GET /slug.
type SlugResponse struct {
	Slug string `json:"slug"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
