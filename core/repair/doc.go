// Package repair turns JSON text mangled by export tools back into a document
// a standard JSON parser accepts. Typical damage comes in layers: the whole
// document wrapped in an extra string literal, backslash escaping applied two
// to four times over, string boundaries fenced with slash runs such as
// `///"value///"`, and nested objects stored as unescaped string values.
//
// The entry point is [Pipeline.Repair] (or the package-level [Repair]). It
// evaluates an ordered list of [Strategy] values against the original input
// and returns the first candidate that parses. Each strategy is a pure
// function; none of them sees the output of another. When nothing parses, the
// [Result] still carries the last candidate produced so callers can show the
// user what is left to fix by hand.
//
// The building blocks ([Unwrap], [DecodeEscaped], [StripSlashDelimiters],
// [StripTrailingSlashes], [UnquoteNestedJSON] and [DeepClean]) are exported
// so they can be combined into custom strategies with [WithStrategies].
package repair
