package schema

import "time"

// FileMetadata describes one filesystem entry discovered by the scanner.
type FileMetadata struct {
	FilePath        string    `json:"file_path"`
	FileName        string    `json:"file_name"`
	ParentDirectory string    `json:"parent_directory"`
	Extension       string    `json:"extension"`
	SizeBytes       int64     `json:"size_bytes"`
	ModifiedAt      time.Time `json:"modified_at"`
	IsDirectory     bool      `json:"is_directory"`

	// FileHash is the hex SHA-256 of the file content; empty when hashing
	// was skipped or the file exceeded the hashing size cap.
	FileHash string `json:"file_hash,omitempty"`
}

// ContentData is the output of a content extractor: decoded UTF-8 text plus
// extraction provenance, ready to hand to the chunking engine.
type ContentData struct {
	ContentText      string            `json:"content_text"`
	ContentType      string            `json:"content_type"`
	ExtractionMethod string            `json:"extraction_method"`
	ContentLength    int               `json:"content_length"`
	Language         string            `json:"language"`
	Title            string            `json:"title,omitempty"`
	DocumentType     Archetype         `json:"document_type,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
}
