package models

import (
	"strings"

	"go.hackfix.me/purr/schema"
)

// Cat is a cat known to the service.
type Cat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record returns the cat as the generic values it's decoded from.
func (c *Cat) Record() map[string]any {
	return map[string]any{"id": c.ID, "name": c.Name}
}

// NewCat holds the fields of a cat that is about to be created.
type NewCat struct {
	Name string `json:"name"`
}

// CatRef identifies a cat.
type CatRef struct {
	ID string `json:"id"`
}

// CatFilter restricts the cats returned by a listing.
type CatFilter struct {
	// Name matches cats whose name contains it, ignoring case.
	Name string
	// Limit is the maximum number of cats to return. 0 means no limit.
	Limit int
}

// Matches returns true if c passes the name filter.
func (f CatFilter) Matches(c *Cat) bool {
	return f.Name == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name))
}

var (
	// IDSchema describes the ID of a stored cat: a positive decimal number
	// without leading zeros.
	IDSchema = schema.Refine(schema.String(), "a numeric ID", isNumericID)

	// CatSchema describes a stored cat.
	CatSchema = schema.Struct[Cat](
		schema.Field("id", IDSchema),
		schema.Field("name", schema.String()),
	)

	// NewCatSchema describes the request body for creating a cat. Empty names
	// are allowed.
	NewCatSchema = schema.Struct[NewCat](
		schema.Field("name", schema.String()),
	)

	// LimitSchema describes the limit query parameter of listings.
	LimitSchema = schema.Refine(schema.IntFromString(), "a positive integer", func(n int) bool {
		return n >= 1
	})
)

func isNumericID(id string) bool {
	if id == "" || id[0] == '0' {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
