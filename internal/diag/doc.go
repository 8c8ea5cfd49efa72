// Package diag defines the diagnostic model shared by the descriptor parser,
// the code generator and the driver.
//
// A Diagnostic carries a Severity, a stable Code (GEN1xxx format strings,
// GEN2xxx descriptor structure, GEN3xxx generation, IO4xxx input/output), a
// short Message, the Primary span inside the descriptor file, optional Notes
// pointing at related spans and optional Fix suggestions.
//
// Producers emit through a Reporter, usually via ReportError/ReportWarning
// and the chained ReportBuilder. BagReporter stores diagnostics in a Bag,
// which the driver sorts, deduplicates and hands to internal/diagfmt.
//
// Package diag performs no formatting beyond the single-line golden form used
// by tests and the short CLI output.
package diag
