// Package diag defines the diagnostic model shared by the tokenizer, the
// resolver, the rule dispatcher and the output layers.
//
// # Data model
//
// Diagnostic is the central record: file, 1-based line and column, a dotted
// Code ("Generic.Arrays.DisallowLongArraySyntax.Found"), message, severity
// (error or warning), a fixable flag and the id of the rule that produced
// it. Engine diagnostics live under the "Internal" namespace and are never
// suppressed.
//
// # Emitting diagnostics
//
// Rules talk to a Reporter and anchor findings at a token index; they never
// compute positions. ReportError / ReportWarning return a ReportBuilder:
//
//	diag.ReportError(r, i, "Found", "short array syntax must not be used").Fixable().Emit()
//
// # Collecting
//
// FileReporter is the per-file sink. It resolves indexes to positions,
// consults the file's suppression markers, caps storage and keeps entries
// ordered by (line, column, rule order, arrival) in a red-black tree, so
// Drain is deterministic regardless of rule scheduling. Counts keeps the
// tallies, including suppressed and dropped diagnostics.
//
// Bag collects the part of a drained list a report shows (hidden warnings
// skipped, capped by a limit); Tally and Diff compare
// results against per-line expectation tables.
package diag
