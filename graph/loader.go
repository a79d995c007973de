package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	apperrors "vocab-graph/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Load reads and indexes the snapshot at path. A missing or malformed file
// yields an error wrapping ErrDatasetUnavailable.
func Load(path string) (*Index, error) {
	return loadWith(os.ReadFile, path)
}

func loadWith(readFile func(string) ([]byte, error), path string) (*Index, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrDatasetUnavailable, path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrDatasetUnavailable, path, err)
	}

	return NewIndex(&snap), nil
}

// Source loads the snapshot lazily on first use and keeps the first
// successful index for the life of the process. Failed loads are not cached,
// so the next query retries; concurrent first callers share a single read.
type Source struct {
	path     string
	logger   *zap.Logger
	readFile func(string) ([]byte, error)

	group singleflight.Group
	index atomic.Pointer[Index]
}

// NewSource creates a lazy loader for the snapshot at path.
func NewSource(path string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		path:     path,
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// NewStaticSource wraps an already built index; it never touches the filesystem.
func NewStaticSource(ix *Index, logger *zap.Logger) *Source {
	s := NewSource("", logger)
	s.index.Store(ix)
	return s
}

// Path returns the snapshot location this source reads from.
func (s *Source) Path() string {
	return s.path
}

// Index returns the loaded index, loading it first if needed.
func (s *Source) Index() (*Index, error) {
	if ix := s.index.Load(); ix != nil {
		return ix, nil
	}

	v, err, _ := s.group.Do("load", func() (interface{}, error) {
		// Another caller may have finished between the fast path and here
		if ix := s.index.Load(); ix != nil {
			return ix, nil
		}

		s.logger.Info("Loading vocabulary graph", zap.String("path", s.path))
		ix, err := loadWith(s.readFile, s.path)
		if err != nil {
			indexLoadsTotal.WithLabelValues("failure").Inc()
			s.logger.Error("Failed to load vocabulary graph", zap.String("path", s.path), zap.Error(err))
			return nil, err
		}

		s.index.Store(ix)
		indexLoadsTotal.WithLabelValues("success").Inc()
		s.logger.Info("Loaded vocabulary graph",
			zap.Int("nodes", len(ix.nodes)),
			zap.Int("words", len(ix.words)))
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// GraphForWord resolves word and returns its neighborhood.
func (s *Source) GraphForWord(word string) (Visualization, error) {
	ix, err := s.Index()
	if err != nil {
		return Visualization{}, err
	}
	vis, ok := ix.GraphForWord(word)
	if !ok {
		return Visualization{}, apperrors.WrapErrorf(apperrors.ErrNotFound, "word %q", word)
	}
	return vis, nil
}

// Synonyms lists up to limit synonyms; empty when the word or dataset is missing.
func (s *Source) Synonyms(word string, limit int) []string {
	return s.related(word, RelSynonymOf, limit)
}

// Antonyms lists up to limit antonyms; empty when the word or dataset is missing.
func (s *Source) Antonyms(word string, limit int) []string {
	return s.related(word, RelAntonymOf, limit)
}

func (s *Source) related(word, relation string, limit int) []string {
	ix, err := s.Index()
	if err != nil {
		return []string{}
	}
	return ix.Related(word, relation, limit)
}

// WordProperties returns the stored properties of a word by canonical id.
func (s *Source) WordProperties(word string) (Properties, error) {
	ix, err := s.Index()
	if err != nil {
		return Properties{}, err
	}
	props, ok := ix.WordProperties(word)
	if !ok {
		return Properties{}, apperrors.WrapErrorf(apperrors.ErrNotFound, "word %q", word)
	}
	return props, nil
}

// Stats returns the snapshot's aggregate counts.
func (s *Source) Stats() (Stats, error) {
	ix, err := s.Index()
	if err != nil {
		return Stats{}, err
	}
	return ix.Stats(), nil
}
