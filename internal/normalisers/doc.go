// Package normalisers extracts plain text from uploaded files.
// Each normaliser handles a set of MIME types; the Registry picks the
// highest-priority match and always has a catch-all fallback.
package normalisers
