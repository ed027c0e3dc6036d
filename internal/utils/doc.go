// Package utils holds small helpers shared by the repair pipeline, the
// editor commands and the CLI: a wall-clock [Timer] and string truncation
// for log attributes.
package utils
