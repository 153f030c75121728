// Package token defines lexical token kinds and trivia for the C subset accepted by cfa.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span, except for
//     identifiers, whose Text is NFC-normalized.
//   - Comments and whitespace never appear in the token stream; they are
//     attached to the following token as Leading trivia.
package token
