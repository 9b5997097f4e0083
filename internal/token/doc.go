// Package token defines preprocessing tokens.
// Invariants:
//   - Token.Text is the exact spelling; for physical tokens it matches the
//     characters covered by Span after phases 1 and 2.
//   - Whitespace and newline tokens are real tokens: directive parsing is line
//     oriented and stringification needs to know where spaces were.
//   - HideSet values are never mutated after being attached to a token.
package token
