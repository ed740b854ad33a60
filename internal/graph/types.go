package graph

import (
	"encoding/json"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// jsonScalar carries geometry in and out of the graph surface as JSON-encoded
// strings, matching the wire contract (geometry arguments are strings, not
// structured input).
var jsonScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "Arbitrary JSON data encoded as a string.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case json.RawMessage:
			return string(v)
		case string:
			return v
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil
			}
			return string(encoded)
		}
	},
	ParseValue: func(value interface{}) interface{} {
		return value
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if sv, ok := valueAST.(*ast.StringValue); ok {
			return sv.Value
		}
		return nil
	},
})

var pointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Point",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"location":    &graphql.Field{Type: graphql.NewNonNull(jsonScalar)},
	},
})

var polygonType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Polygon",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"area":        &graphql.Field{Type: graphql.NewNonNull(jsonScalar)},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var tokenType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Token",
	Fields: graphql.Fields{
		"accessToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"tokenType":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})
