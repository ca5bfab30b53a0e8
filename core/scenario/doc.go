// Package scenario defines the typed payloads produced by each generation
// stage (stories, character profiles, detail options) and converts decoded
// JSON mappings into them. Conversions validate against a JSON Schema derived
// from the Go types, so a decoded value that lacks required text is reported
// as [ErrInvalidPayload] instead of yielding empty fields.
//
// The Placeholder functions build clearly labeled stand-ins used when a stage
// produced nothing usable.
package scenario
