package domain

import (
	"fmt"
	"time"
)

// Document represents a raw ingested text artifact.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// SourceName is the file name or caller-supplied name.
	SourceName string `json:"fileName"`

	// MIMEType is the declared content type.
	MIMEType string `json:"fileType,omitempty"`

	// Size is the byte size of the ingested content.
	Size int64 `json:"fileSize"`

	// Text is the extracted text content.
	Text string `json:"textContent"`

	// ChunkCount is the number of embedded chunks written for the document.
	ChunkCount int `json:"chunkCount"`

	// BlobLocation is where the raw bytes were archived, if anywhere.
	BlobLocation string `json:"downloadURL,omitempty"`

	// BlobKey is the blob store key for the raw bytes.
	BlobKey string `json:"storagePath,omitempty"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"createdAt"`
}

// ToRecord converts the document to a store record.
func (d Document) ToRecord() (Record, error) {
	payload, err := encodePayload(d)
	if err != nil {
		return Record{}, fmt.Errorf("encode document: %w", err)
	}
	return Record{
		ID: d.ID,
		Attributes: map[string]string{
			AttrSourceName: d.SourceName,
			AttrMIMEType:   d.MIMEType,
		},
		Text:      d.Text,
		Payload:   payload,
		CreatedAt: d.CreatedAt,
	}, nil
}

// DocumentFromRecord converts a store record back to a document.
func DocumentFromRecord(r Record) (*Document, error) {
	var d Document
	if err := decodePayload(r.Payload, &d); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", r.ID, err)
	}
	d.ID = r.ID
	d.Text = r.Text
	d.CreatedAt = r.CreatedAt
	return &d, nil
}

// Chunk is a passage produced by the chunker before embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the 0-based ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// EmbeddingRecord is an embedded passage of a document.
type EmbeddingRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// DocumentID links to the parent document. Empty for standalone embeddings.
	DocumentID string `json:"documentId,omitempty"`

	// ChunkID is the stable chunk name, "{documentID}_chunk_{index}".
	ChunkID string `json:"chunkId,omitempty"`

	// ChunkIndex is the 0-based position within the document.
	ChunkIndex int `json:"chunkIndex"`

	// Text is the passage content.
	Text string `json:"text"`

	// Embedding is the vector for Text.
	Embedding []float32 `json:"embedding,omitempty"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is when the record was written.
	CreatedAt time.Time `json:"createdAt"`
}

// ChunkID builds the stable chunk name for a document position.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// ToRecord converts the embedding record to a store record.
// The vector travels in Record.Embedding only.
func (e EmbeddingRecord) ToRecord() (Record, error) {
	body := e
	body.Embedding = nil
	payload, err := encodePayload(body)
	if err != nil {
		return Record{}, fmt.Errorf("encode embedding: %w", err)
	}
	return Record{
		ID:         e.ID,
		ParentID:   e.DocumentID,
		Position:   e.ChunkIndex,
		Attributes: map[string]string{AttrChunkID: e.ChunkID},
		Text:       e.Text,
		Embedding:  e.Embedding,
		Payload:    payload,
		CreatedAt:  e.CreatedAt,
	}, nil
}

// EmbeddingFromRecord converts a store record back to an embedding record.
func EmbeddingFromRecord(r Record) (*EmbeddingRecord, error) {
	var e EmbeddingRecord
	if err := decodePayload(r.Payload, &e); err != nil {
		return nil, fmt.Errorf("decode embedding %s: %w", r.ID, err)
	}
	e.ID = r.ID
	e.DocumentID = r.ParentID
	e.ChunkIndex = r.Position
	e.Text = r.Text
	e.Embedding = r.Embedding
	e.CreatedAt = r.CreatedAt
	return &e, nil
}

// DocumentDetail is a document together with its embedded chunks.
type DocumentDetail struct {
	Document
	Embeddings []EmbeddingRecord `json:"embeddings"`
}
