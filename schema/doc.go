// Package schema decodes untyped values, such as those produced by
// encoding/json, into typed Go values.
//
// A Schema is built once from combinators (String, Struct, Array, Union,
// Refine, Transform, ...) or compiled from a JSON Schema document with JSON,
// and is safe for concurrent use afterwards. Decoding never mutates its
// input. Input that doesn't match produces a *ParseError holding a tree of
// Issues, which can be rendered with Format or flattened into a list of
// path/message pairs with Flatten.
package schema
