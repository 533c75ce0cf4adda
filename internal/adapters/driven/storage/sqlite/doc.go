// Package sqlite stores every collection in one records table of a pure-Go
// (modernc.org/sqlite) database, by default ~/.contentrag/data/contentrag.db.
//
// Embeddings are little-endian float32 blobs, attributes a JSON object
// matched with json_extract, and timestamps UTC Unix nanoseconds. The schema
// comes from the numbered scripts in migrations/.
package sqlite
