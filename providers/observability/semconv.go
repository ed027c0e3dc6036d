package observability

// Attribute keys, span names, event names and metric names shared by every
// component that records observations.

// --- Repair Attributes ---

const (
	// AttrRepairStrategy is the strategy that produced the accepted candidate
	// ("none" when the run failed).
	AttrRepairStrategy = "repair.strategy"

	// AttrRepairInputLength is the raw input length in bytes
	AttrRepairInputLength = "repair.input.length"

	// AttrRepairOutputLength is the length of the text handed back to the caller
	AttrRepairOutputLength = "repair.output.length"

	// AttrRepairAttempts is the number of strategies evaluated
	AttrRepairAttempts = "repair.attempts"

	// AttrRepairCandidate is a (truncated) candidate or best-attempt text
	AttrRepairCandidate = "repair.candidate"

	// AttrRepairParsed reports whether a candidate parsed
	AttrRepairParsed = "repair.parsed"
)

// --- Editor Attributes ---

const (
	// AttrEditorCommand is the editor command name (fix-json, encode-base64, decode-base64)
	AttrEditorCommand = "editor.command"

	// AttrEditorSelection reports whether the command worked on a selection
	AttrEditorSelection = "editor.selection"
)

// --- Input Attributes ---

const (
	// AttrInputSource is the file name, "-" for stdin, or the HTTP route
	AttrInputSource = "input.source"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method
	AttrHTTPMethod = "http.method"

	// AttrHTTPRoute is the matched route pattern
	AttrHTTPRoute = "http.route"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanRepair covers one pipeline run
	SpanRepair = "repair.run"

	// SpanEditorCommand covers one editor command
	SpanEditorCommand = "editor.command"
)

// --- Event Names ---

const (
	// EventStrategyAttempt is added to SpanRepair once per strategy evaluated
	EventStrategyAttempt = "repair.strategy.attempt"
)

// --- Metric Names ---

const (
	// MetricRepairCount counts pipeline runs by status and strategy
	MetricRepairCount = "jsonmend.repair.count"

	// MetricRepairDuration is the histogram of pipeline run durations in seconds
	MetricRepairDuration = "jsonmend.repair.duration"
)
