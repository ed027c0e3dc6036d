// Package slogobs implements observability.Provider on top of log/slog.
// Spans and metric updates are written as structured log records; counter
// totals are also kept in memory so they can be read back with
// [Observer.CounterValue].
//
// [New] builds an Observer whose [Handler] writes compact, pretty or JSON
// lines. Format and level default to JSONMEND_LOG_FORMAT / LOG_FORMAT and
// JSONMEND_LOG_LEVEL / LOG_LEVEL and can be overridden with [WithFormat],
// [WithLevel], [WithOutput], [WithColors] and [WithLogger].
package slogobs
