// Package diag defines the diagnostic model shared by the lexer and parser.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form (LEX1001, SYN2002, ...), a short Message, the Primary
// span and optional Notes pointing at related locations.
//
// Phases emit through a Reporter so they do not depend on storage. BagReporter
// collects into a Bag, which supports limits, sorting and deduplication.
// Rendering lives in internal/diagfmt; FormatShortDiagnostics here gives a
// stable one-line-per-entry form used by tests and the --format=short output.
package diag
