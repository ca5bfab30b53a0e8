// Package slogobs provides an observability.Provider backed by log/slog.
// Spans become start/end log records, counters and histograms are kept in
// memory and logged at debug level, and log calls map onto slog levels
// (Trace is slog.LevelDebug-4).
//
// The main entry point is [New]; output can be tuned with [WithFormat],
// [WithLevel], [WithOutput], and [WithLogger]. Without options the format and
// level come from SCENARIO_LOG_FORMAT / SCENARIO_LOG_LEVEL.
package slogobs
