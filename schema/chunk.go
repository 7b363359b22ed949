package schema

import (
	"fmt"
	"strconv"
)

// ChunkType classifies the structural role of a chunk's text.
type ChunkType string

const (
	ChunkTypeContent   ChunkType = "content"
	ChunkTypeHeader    ChunkType = "header"
	ChunkTypeSection   ChunkType = "section"
	ChunkTypeList      ChunkType = "list"
	ChunkTypeTable     ChunkType = "table"
	ChunkTypeParagraph ChunkType = "paragraph"
)

// Chunk is a bounded-size, ordered segment of document text produced by the
// chunking engine. Index and Size are stamped by the assembler and are only
// meaningful on the final returned list.
type Chunk struct {
	Text   string    `json:"chunk_text"`
	Index  int       `json:"chunk_index"`
	Method string    `json:"chunk_method"`
	Type   ChunkType `json:"chunk_type"`

	// StartPosition and EndPosition are offsets into the normalized input.
	// They are best-effort: when exact bookkeeping is lost during a merge,
	// the position is recovered by a linear search for the chunk text and
	// may point at an earlier duplicate occurrence.
	StartPosition int `json:"start_position"`
	EndPosition   int `json:"end_position"`

	// Size is the character count of Text, recomputed by the assembler.
	Size int `json:"chunk_size"`

	// OverlapWithPrevious is reserved for sliding-window overlap. No
	// strategy populates it today.
	OverlapWithPrevious int `json:"overlap_with_previous"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk[%d] %s/%s (%d chars)", c.Index, c.Method, c.Type, c.Size)
}

// Annotate sets a metadata key, allocating the map on first use.
func (c *Chunk) Annotate(key, value string) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]string)
	}
	c.Metadata[key] = value
}

// ChunkRecord is the flat key/value form of a Chunk used for persistence.
// DocumentContentID and FileMetadataID are foreign references supplied by
// the caller, never by the engine.
type ChunkRecord struct {
	DocumentContentID int64             `json:"document_content_id"`
	FileMetadataID    int64             `json:"file_metadata_id"`
	ChunkIndex        int               `json:"chunk_index"`
	ChunkText         string            `json:"chunk_text"`
	ChunkSize         int               `json:"chunk_size"`
	ChunkMethod       string            `json:"chunk_method"`
	ChunkType         string            `json:"chunk_type"`
	ChunkOverlap      int               `json:"chunk_overlap"`
	StartPosition     int               `json:"start_position"`
	EndPosition       int               `json:"end_position"`
	Metadata          map[string]string `json:"metadata"`
}

// NewChunkRecord flattens a Chunk into its persistence form.
func NewChunkRecord(c Chunk, documentContentID, fileMetadataID int64) ChunkRecord {
	meta := c.Metadata
	if meta == nil {
		meta = make(map[string]string)
	}
	return ChunkRecord{
		DocumentContentID: documentContentID,
		FileMetadataID:    fileMetadataID,
		ChunkIndex:        c.Index,
		ChunkText:         c.Text,
		ChunkSize:         c.Size,
		ChunkMethod:       c.Method,
		ChunkType:         string(c.Type),
		ChunkOverlap:      c.OverlapWithPrevious,
		StartPosition:     c.StartPosition,
		EndPosition:       c.EndPosition,
		Metadata:          meta,
	}
}

// ChunkingOptions holds the size bounds for one chunking invocation. The
// options are immutable for the duration of a ChunkDocument call.
type ChunkingOptions struct {
	TargetChunkSize int
	MaxChunkSize    int
	MinChunkSize    int
	OverlapSize     int
}

// DefaultChunkingOptions mirrors the sizes the batch runner ships with:
// smaller targets keep career documents semantically coherent.
func DefaultChunkingOptions() ChunkingOptions {
	return ChunkingOptions{
		TargetChunkSize: 800,
		MaxChunkSize:    1500,
		MinChunkSize:    100,
		OverlapSize:     150,
	}
}

// Validate checks the ordering invariant min < target <= max. Violations are
// caller errors and fail fast.
func (o ChunkingOptions) Validate() error {
	if o.TargetChunkSize <= 0 || o.MaxChunkSize <= 0 || o.MinChunkSize <= 0 {
		return fmt.Errorf("chunk sizes must be positive: target=%d max=%d min=%d",
			o.TargetChunkSize, o.MaxChunkSize, o.MinChunkSize)
	}
	if o.TargetChunkSize > o.MaxChunkSize {
		return fmt.Errorf("target chunk size (%d) must not exceed max chunk size (%d)",
			o.TargetChunkSize, o.MaxChunkSize)
	}
	if o.MinChunkSize >= o.TargetChunkSize {
		return fmt.Errorf("min chunk size (%d) must be smaller than target chunk size (%d)",
			o.MinChunkSize, o.TargetChunkSize)
	}
	if o.OverlapSize < 0 {
		return fmt.Errorf("overlap size cannot be negative: %d", o.OverlapSize)
	}
	return nil
}

func (o ChunkingOptions) String() string {
	return "target=" + strconv.Itoa(o.TargetChunkSize) +
		" max=" + strconv.Itoa(o.MaxChunkSize) +
		" min=" + strconv.Itoa(o.MinChunkSize) +
		" overlap=" + strconv.Itoa(o.OverlapSize)
}
