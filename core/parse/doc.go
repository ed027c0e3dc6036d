// Package parse decodes possibly damaged JSON text straight into Go values.
//
// [ParseStringAs] converts scalars with strconv and sends everything else
// through the repair pipeline (with the general-purpose fallback enabled)
// before unmarshalling. Values wrapped as {"type": ..., "value": ...} are
// unwrapped as a last step.
package parse
