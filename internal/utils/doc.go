// Package utils holds small helpers shared by the pipeline, the generator
// backends and the CLI: JSON rendering that keeps non-ASCII and HTML
// characters readable, rune-safe truncation, and a stopwatch.
package utils
