// Package graph exposes the same operations as the REST surface through a
// single GraphQL endpoint. Geometry arguments and results travel as
// JSON-encoded strings.
package graph

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/geodesk/spatial-api/internal/auth"
	"github.com/geodesk/spatial-api/internal/models"
	"github.com/geodesk/spatial-api/internal/services"
)

// errUnauthenticated surfaces as a field error; the transport never leaks
// whether a token was absent, expired, or forged.
var errUnauthenticated = errors.New("authentication required")

// Resolver holds the services backing every query and mutation field.
type Resolver struct {
	users    services.UserServiceProvider
	points   services.PointServiceProvider
	polygons services.PolygonServiceProvider
	tokens   *auth.TokenService
}

// NewResolver creates a Resolver over the shared service layer.
func NewResolver(users services.UserServiceProvider, points services.PointServiceProvider, polygons services.PolygonServiceProvider, tokens *auth.TokenService) *Resolver {
	return &Resolver{users: users, points: points, polygons: polygons, tokens: tokens}
}

// requireAuth gates a field on the request identity placed in the context by
// the transport handler. Every field except register and login goes through
// this check.
func requireAuth(ctx context.Context) error {
	if _, ok := auth.FromContext(ctx); !ok {
		return errUnauthenticated
	}
	return nil
}

// NewSchema builds the executable schema.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"points": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(pointType)),
				Args: pageArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.points.List(p.Context, intArg(p, "skip"), intArg(p, "limit"))
				},
			},
			"polygons": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(polygonType)),
				Args: pageArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.polygons.List(p.Context, intArg(p, "skip"), intArg(p, "limit"))
				},
			},
			"point": &graphql.Field{
				Type: pointType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					point, err := r.points.GetByID(p.Context, int64(intArg(p, "id")))
					if errors.Is(err, models.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return point, nil
				},
			},
			"polygon": &graphql.Field{
				Type: polygonType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					polygon, err := r.polygons.GetByID(p.Context, int64(intArg(p, "id")))
					if errors.Is(err, models.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return polygon, nil
				},
			},
			"pointsWithinPolygon": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(pointType)),
				Args: graphql.FieldConfigArgument{
					"polygon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.points.WithinPolygon(p.Context, geometryArg(p, "polygon"))
				},
			},
			"polygonsContainingPoint": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(polygonType)),
				Args: graphql.FieldConfigArgument{
					"point": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.polygons.ContainingPoint(p.Context, geometryArg(p, "point"))
				},
			},
			"pointsNearby": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(pointType)),
				Args: graphql.FieldConfigArgument{
					"point":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"radius": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					radius, _ := p.Args["radius"].(float64)
					return r.points.Nearby(p.Context, geometryArg(p, "point"), radius)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: userType,
				Args: credentialArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.users.Register(p.Context, stringArg(p, "username"), stringArg(p, "password"))
				},
			},
			"login": &graphql.Field{
				Type: tokenType,
				Args: credentialArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := r.users.Authenticate(p.Context, stringArg(p, "username"), stringArg(p, "password"))
					if errors.Is(err, models.ErrInvalidCredentials) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					token, err := r.tokens.Generate(user.Username)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{"accessToken": token, "tokenType": "bearer"}, nil
				},
			},
			"createPoint": &graphql.Field{
				Type: pointType,
				Args: featureArgs("location"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.points.Create(p.Context, stringArg(p, "name"), stringArg(p, "description"), geometryArg(p, "location"))
				},
			},
			"updatePoint": &graphql.Field{
				Type: pointType,
				Args: withIDArg(featureArgs("location")),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					point, err := r.points.Update(p.Context, int64(intArg(p, "id")),
						stringArg(p, "name"), stringArg(p, "description"), geometryArg(p, "location"))
					if errors.Is(err, models.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return point, nil
				},
			},
			"deletePoint": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.points.Delete(p.Context, int64(intArg(p, "id")))
					if errors.Is(err, models.ErrNotFound) {
						return false, nil
					}
					if err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"createPolygon": &graphql.Field{
				Type: polygonType,
				Args: featureArgs("area"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					return r.polygons.Create(p.Context, stringArg(p, "name"), stringArg(p, "description"), geometryArg(p, "area"))
				},
			},
			"updatePolygon": &graphql.Field{
				Type: polygonType,
				Args: withIDArg(featureArgs("area")),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					polygon, err := r.polygons.Update(p.Context, int64(intArg(p, "id")),
						stringArg(p, "name"), stringArg(p, "description"), geometryArg(p, "area"))
					if errors.Is(err, models.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return polygon, nil
				},
			},
			"deletePolygon": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireAuth(p.Context); err != nil {
						return nil, err
					}
					err := r.polygons.Delete(p.Context, int64(intArg(p, "id")))
					if errors.Is(err, models.ErrNotFound) {
						return false, nil
					}
					if err != nil {
						return nil, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func pageArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"skip":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
	}
}

func credentialArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
}

// featureArgs builds the shared name/description arguments plus the geometry
// argument, which differs in name between points and polygons.
func featureArgs(geometry string) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
	}
	args[geometry] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	return args
}

func withIDArg(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
	return args
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

func geometryArg(p graphql.ResolveParams, name string) json.RawMessage {
	return json.RawMessage(stringArg(p, name))
}
