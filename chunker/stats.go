package chunker

import (
	"sync"

	"github.com/erathia/careerdoc/schema"
)

// Stats accumulates observational chunking statistics across documents.
// It starts zeroed, is safe for concurrent use, and never affects chunking
// results. Share one instance across Chunkers via WithStats to aggregate a
// whole batch run.
type Stats struct {
	mu                 sync.Mutex
	documentsProcessed int
	totalChunksCreated int
	totalChunkChars    int
	chunkTypes         map[string]int
}

// StatsSnapshot is a point-in-time copy of the accumulator.
type StatsSnapshot struct {
	DocumentsProcessed int            `json:"documents_processed"`
	TotalChunksCreated int            `json:"total_chunks_created"`
	AvgChunkSize       float64        `json:"avg_chunk_size"`
	ChunkTypes         map[string]int `json:"chunk_types"`
}

// NewStats returns a zeroed accumulator.
func NewStats() *Stats {
	return &Stats{chunkTypes: make(map[string]int)}
}

// Record folds one document's chunks into the running totals.
func (s *Stats) Record(chunks []schema.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documentsProcessed++
	s.totalChunksCreated += len(chunks)
	for _, chunk := range chunks {
		s.totalChunkChars += chunk.Size
		s.chunkTypes[string(chunk.Type)]++
	}
}

// Snapshot returns a copy of the current totals.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make(map[string]int, len(s.chunkTypes))
	for k, v := range s.chunkTypes {
		types[k] = v
	}

	snap := StatsSnapshot{
		DocumentsProcessed: s.documentsProcessed,
		TotalChunksCreated: s.totalChunksCreated,
		ChunkTypes:         types,
	}
	if s.totalChunksCreated > 0 {
		snap.AvgChunkSize = float64(s.totalChunkChars) / float64(s.totalChunksCreated)
	}
	return snap
}

// Reset zeroes the accumulator.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documentsProcessed = 0
	s.totalChunksCreated = 0
	s.totalChunkChars = 0
	s.chunkTypes = make(map[string]int)
}
