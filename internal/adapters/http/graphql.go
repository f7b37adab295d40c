package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geostory/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the pipeline.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	documentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Document",
		Fields: graphql.Fields{
			"cid":        &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"mime_type":  &graphql.Field{Type: graphql.String},
			"size_bytes": &graphql.Field{Type: graphql.Int},
		},
	})

	analyzedDocType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AnalyzedDocument",
		Fields: graphql.Fields{
			"cid":            &graphql.Field{Type: graphql.String},
			"mime_type":      &graphql.Field{Type: graphql.String},
			"analysis":       &graphql.Field{Type: graphql.String},
			"analysis_error": &graphql.Field{Type: graphql.String},
			"fetch_error":    &graphql.Field{Type: graphql.String},
		},
	})

	articleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Article",
		Fields: graphql.Fields{
			"article":      &graphql.Field{Type: graphql.String},
			"generated_at": &graphql.Field{Type: graphql.String},
			"documents":    &graphql.Field{Type: graphql.NewList(analyzedDocType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"documentsNearby": &graphql.Field{
				Type:        graphql.NewList(documentType),
				Description: "Pinned documents geo-tagged near a location",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius_km"].(float64)
					return deps.Pipeline.DiscoverNearby(p.Context, domain.GeoPoint{Lat: lat, Lon: lon}, radius)
				},
			},
			"article": &graphql.Field{
				Type:        articleType,
				Description: "Generate an article from documents near a location",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius_km"].(float64)
					return deps.Pipeline.DiscoverAndSynthesize(p.Context, domain.GeoPoint{Lat: lat, Lon: lon}, radius)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
