package models

import (
	_ "embed"

	"go.hackfix.me/purr/schema"
)

//go:embed schemas/cat_query.schema.json
var catQueryDocument string

// CatQuery holds the query parameters of a cat listing. The limit is decoded
// separately, since it must be converted to an integer.
type CatQuery struct {
	Name string `json:"name"`
}

// NewCatQuerySchema compiles the JSON Schema of the cat listing query
// parameters. Unknown and repeated parameters are rejected.
func NewCatQuerySchema() (schema.Schema[CatQuery], error) {
	return schema.JSON[CatQuery]("CatQuery", catQueryDocument)
}
