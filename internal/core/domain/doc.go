// Package domain holds the types every other layer talks in: uploaded
// documents and their embedded passages, company profiles, industry
// insights, generated website content and the records a VectorStore
// persists.
//
// It imports nothing outside the standard library, and nothing else in
// internal/ is allowed to be imported from here.
package domain
