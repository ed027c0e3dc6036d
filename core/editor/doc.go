// Package editor implements the text-editor commands built on the repair
// pipeline: Fix JSON, Encode Base64 and Decode Base64.
//
// A command receives a [Document] (text plus optional selection) and returns
// an [Outcome]: at most one [Edit] for the host to apply and one
// [Notification] to show. Commands never modify the document themselves.
package editor
