// Package diag defines the diagnostic model shared by all preprocessing phases.
//
// Diagnostic is the central record: severity, a numeric Code with a stable
// string form (LEX/DIR/MAC/INC/IO ranges), a short message, the primary span and
// optional notes. Notes carry secondary locations such as "macro `X` first
// defined here"; they are rendered right after their parent.
//
// Phases emit through a Reporter (usually BagReporter over a per-unit Bag) using
// ReportError/ReportWarning and Emit. A Bag keeps emission order; it is never
// sorted, because the order in which the preprocessor reports problems is part
// of its observable behavior.
//
// Package diag does no formatting beyond the one-line form produced by Lines;
// pretty and JSON rendering live in internal/diagfmt.
package diag
