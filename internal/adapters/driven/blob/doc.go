// Package blob holds driven.BlobStore implementations that archive raw uploads.
//
// Keys are slash-separated relative paths such as "documents/<id>_<name>".
package blob
