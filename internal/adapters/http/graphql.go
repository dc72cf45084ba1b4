package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

// buildSchema creates the GraphQL read schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Feature",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"feature_id":    &graphql.Field{Type: graphql.String},
			"type":          &graphql.Field{Type: graphql.String},
			"specific_type": &graphql.Field{Type: graphql.String},
			"state":         &graphql.Field{Type: graphql.String},
			"status":        &graphql.Field{Type: graphql.String},
			"maintenance":   &graphql.Field{Type: graphql.Boolean},
			"team_id":       &graphql.Field{Type: graphql.String},
			"remarks":       &graphql.Field{Type: graphql.String},
			"distance":      &graphql.Field{Type: graphql.Float},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"priority":    &graphql.Field{Type: graphql.String},
			"team_id":     &graphql.Field{Type: graphql.String},
			"assignee_id": &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
		},
	})

	teamType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Team",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"city":         &graphql.Field{Type: graphql.String},
			"approval":     &graphql.Field{Type: graphql.String},
			"member_count": &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"feature": &graphql.Field{
				Type:        featureType,
				Description: "Get a feature by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Features.GetByID(p.Context, id)
				},
			},
			"features": &graphql.Field{
				Type:        graphql.NewList(featureType),
				Description: "List features, optionally filtered by type and status",
				Args: graphql.FieldConfigArgument{
					"type":   &graphql.ArgumentConfig{Type: graphql.String},
					"status": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := ports.FeatureFilter{Limit: p.Args["limit"].(int)}
					if t, ok := p.Args["type"].(string); ok {
						filter.Type = domain.FeatureType(t)
					}
					if s, ok := p.Args["status"].(string); ok {
						filter.Status = domain.FeatureStatus(s)
					}
					features, _, err := deps.Features.List(p.Context, filter)
					return features, err
				},
			},
			"featuresNearby": &graphql.Field{
				Type:        graphql.NewList(featureType),
				Description: "Find features near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Features.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"tasks": &graphql.Field{
				Type:        graphql.NewList(taskType),
				Description: "List tasks, optionally filtered by status and team",
				Args: graphql.FieldConfigArgument{
					"status":  &graphql.ArgumentConfig{Type: graphql.String},
					"team_id": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := ports.TaskFilter{Limit: p.Args["limit"].(int)}
					if s, ok := p.Args["status"].(string); ok {
						filter.Status = domain.TaskStatus(s)
					}
					if t, ok := p.Args["team_id"].(string); ok {
						filter.TeamID = t
					}
					tasks, _, err := deps.Tasks.List(p.Context, filter)
					return tasks, err
				},
			},
			"teams": &graphql.Field{
				Type:        graphql.NewList(teamType),
				Description: "List all field teams",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Teams.List(p.Context)
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
