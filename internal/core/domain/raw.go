package domain

// RawFile represents an uploaded byte blob before text extraction.
type RawFile struct {
	// Name is the original file name.
	Name string

	// MIMEType is the declared content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	// DocumentID is the id of the stored document.
	DocumentID string `json:"documentId"`

	// BlobLocation is where the raw bytes were archived, if anywhere.
	BlobLocation string `json:"downloadURL,omitempty"`

	// ChunkCount is the number of embedded chunks stored.
	ChunkCount int `json:"chunkCount"`

	// TextLength is the character length of the extracted text.
	TextLength int `json:"textLength"`
}
