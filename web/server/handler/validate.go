package handler

import (
	"errors"

	"go.hackfix.me/purr/schema"
	"go.hackfix.me/purr/web/server/types"
)

// Validate decodes a raw request argument with the schema of p. Without a
// schema, raw is returned unchanged. Input that doesn't match the schema
// results in a *types.ValidationError naming the argument; other decoding
// errors, such as a *schema.ConfigError, are returned unchanged.
func Validate(raw any, p Param) (any, error) {
	if p.Schema == nil {
		return raw, nil
	}

	v, err := p.Schema.DecodeUnknown(raw)
	if err == nil {
		return v, nil
	}

	var perr *schema.ParseError
	if !errors.As(err, &perr) {
		return nil, err
	}

	return nil, types.NewValidationError(perr, p.Label(), p.Kind)
}
