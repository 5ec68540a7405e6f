// Package handler assembles HTTP handlers from plain Go functions.
//
// A handler receives a typed request value, whose fields are filled in from
// the HTTP request by Bindings declared on a Pipeline, and returns either a
// final value or an effect.Effect. The pipeline decodes every binding with
// its schema before the handler runs, executes a returned Effect, and maps
// the result or failure to a JSON response using types.MapFailure. This
// keeps endpoint implementations limited to business logic.
package handler
