// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics, and structured logging throughout scenario.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. The decoder reports parse
// diagnostics through it, and the stage runner wraps each stage in a [Span].
// [Nop] discards everything and is the zero-cost default for tests.
//
// The semconv.go file holds the attribute keys and span names shared by all
// components so that log output stays greppable.
package observability
