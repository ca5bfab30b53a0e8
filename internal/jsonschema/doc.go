// Package jsonschema derives JSON Schema documents from Go types by
// reflection and compiles them into validators.
//
// Struct fields are named by their json tags. A field is required unless it
// is a pointer or tagged omitempty. The jsonschema tag adds constraints:
//
//	Title string `json:"title" jsonschema:"description=story title,minLength=1"`
//
// Supported keys are description, enum (repeatable), minLength, minItems and
// required. Nested structs are inlined; recursive types are rejected.
package jsonschema
