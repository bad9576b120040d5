// Package corpus loads the precomputed entity corpus from a JSON file.
//
// The file is an array of {"id", "name", "content", "vector"} objects, the
// same shape the embedding pipeline writes. It is read once and cached; the
// corpus is immutable for the life of the process.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// Ensure FileSource implements the interface.
var _ driven.CorpusSource = (*FileSource)(nil)

// FileSource is a driven.CorpusSource backed by a JSON file.
type FileSource struct {
	path string

	mu     sync.Mutex
	corpus *domain.Corpus
}

// NewFileSource creates a source for the file at path. Nothing is read
// until the first Load.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the corpus file path.
func (s *FileSource) Path() string {
	return s.path
}

// Load returns the cached corpus, reading and validating the file on first
// use. A failed load is not cached.
func (s *FileSource) Load(_ context.Context) (*domain.Corpus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.corpus != nil {
		return s.corpus, nil
	}

	corpus, err := ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.corpus = corpus
	logger.Debug("loaded corpus from %s: %d entities, dimension %d", s.path, corpus.Len(), corpus.Dimension())
	return corpus, nil
}

// ReadFile reads and validates a corpus file.
func ReadFile(path string) (*domain.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates corpus JSON.
func Parse(data []byte) (*domain.Corpus, error) {
	var entities []domain.Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCorpus, err)
	}
	return domain.NewCorpus(entities)
}
