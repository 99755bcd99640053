package stub

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// =============================================================================
// OpenAPI Document
// =============================================================================

var (
	docOnce sync.Once
	doc     *openapi3.T
)

// Document returns the OpenAPI 3.0 description of the stub API.
func Document() *openapi3.T {
	docOnce.Do(func() {
		doc = buildDocument()
	})
	return doc
}

func buildDocument() *openapi3.T {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Xcalota Restaurant API",
			Version:     "1.0.0",
			Description: "Restaurant list and create endpoints consumed by the panel",
		},
		Servers: openapi3.Servers{&openapi3.Server{URL: "/api"}},
		Paths:   &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	str := func() *openapi3.SchemaRef {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
	}

	spec.Components.Schemas["Restaurant"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"id":   str(),
				"name": str(),
				"nome": str(),
				"slug": str(),
			},
		},
	}

	spec.Components.Schemas["CreateRestaurant"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"name": str(),
				"nome": str(),
				"slug": str(),
			},
			Required: []string{"slug"},
		},
	}

	spec.Components.Schemas["Error"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": str(),
			},
		},
	}

	restaurantRef := &openapi3.SchemaRef{Ref: "#/components/schemas/Restaurant"}
	errorRef := &openapi3.SchemaRef{Ref: "#/components/schemas/Error"}

	listResponses := &openapi3.Responses{}
	listResponses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Restaurants, as a bare array or wrapped in items/data").
			WithJSONSchemaRef(&openapi3.SchemaRef{
				Value: &openapi3.Schema{
					Type:  &openapi3.Types{"array"},
					Items: restaurantRef,
				},
			}),
	})
	listResponses.Set("404", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Listing is disabled").WithJSONSchemaRef(errorRef),
	})

	createResponses := &openapi3.Responses{}
	createResponses.Set("201", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Created restaurant").WithJSONSchemaRef(restaurantRef),
	})
	createResponses.Set("400", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Missing name, missing slug or slug not normalized").WithJSONSchemaRef(errorRef),
	})
	createResponses.Set("500", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Create failed").WithJSONSchemaRef(errorRef),
	})

	spec.Paths.Set("/restaurants", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listRestaurants",
			Summary:     "List restaurants",
			Tags:        []string{"Restaurants"},
			Responses:   listResponses,
		},
		Post: &openapi3.Operation{
			OperationID: "createRestaurant",
			Summary:     "Create a restaurant",
			Tags:        []string{"Restaurants"},
			RequestBody: &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().
					WithRequired(true).
					WithJSONSchemaRef(&openapi3.SchemaRef{Ref: "#/components/schemas/CreateRestaurant"}),
			},
			Responses: createResponses,
		},
	})

	getResponses := &openapi3.Responses{}
	getResponses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("The restaurant").WithJSONSchemaRef(restaurantRef),
	})
	getResponses.Set("404", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Restaurant not found or reading disabled").WithJSONSchemaRef(errorRef),
	})

	spec.Paths.Set("/restaurants/{id}", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getRestaurant",
			Summary:     "Get a restaurant by ID",
			Tags:        []string{"Restaurants"},
			Parameters: openapi3.Parameters{
				&openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").WithSchema(str().Value)},
			},
			Responses: getResponses,
		},
	})

	return spec
}

// openapiHandler serves the OpenAPI document.
func openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if err := json.NewEncoder(w).Encode(Document()); err != nil {
		http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
	}
}
