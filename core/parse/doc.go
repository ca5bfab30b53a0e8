// Package parse turns raw model output into structured data. Language models
// wrap JSON in prose and code fences, leave trailing commas and comments, and
// put unescaped quotes or raw newlines inside string values. The decoder in
// this package works through that in three ordered phases: it extracts the
// most plausible JSON span, normalizes it with a context-aware scanner, and
// parses it. When parsing still fails it can run a generic JSON repair and
// finally salvages story entries by pattern.
//
// [Decode] is the zero-configuration entry point. [New] builds a [Decoder]
// that reports which stage produced the value, so callers can tell a trusted
// parse from a degraded recovery.
//
// [ParseStringAs] converts text into a concrete Go type and shares the same
// extraction and normalization steps for complex types.
package parse
