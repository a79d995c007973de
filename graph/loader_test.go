package graph

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "vocab-graph/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countingSource(path string) (*Source, *atomic.Int32) {
	var reads atomic.Int32
	s := NewSource(path, zap.NewNop())
	s.readFile = func(p string) ([]byte, error) {
		reads.Add(1)
		return os.ReadFile(p)
	}
	return s, &reads
}

func TestLoad(t *testing.T) {
	path := writeSnapshot(t, appleSnapshot())

	ix, err := Load(path)
	require.NoError(t, err)
	_, ok := ix.Node("sense:s1")
	assert.True(t, ok)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsDatasetUnavailable(err))
}

func TestSource_ReadsOnceAfterSuccess(t *testing.T) {
	s, reads := countingSource(writeSnapshot(t, appleSnapshot()))

	first, err := s.GraphForWord("apple")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.GraphForWord("apple")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	_, _ = s.Stats()
	_ = s.Synonyms("apple", 5)

	assert.Equal(t, int32(1), reads.Load())
}

func TestSource_ConcurrentFirstLoad(t *testing.T) {
	s, reads := countingSource(writeSnapshot(t, appleSnapshot()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Index()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// singleflight collapses overlapping loads; late arrivals hit the cache
	assert.LessOrEqual(t, reads.Load(), int32(16))
	_, err := s.Index()
	require.NoError(t, err)
	before := reads.Load()
	_, _ = s.Index()
	assert.Equal(t, before, reads.Load())
}

func TestSource_RetriesAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary_graph.json")
	s, reads := countingSource(path)

	_, err := s.Index()
	require.Error(t, err)
	_, err = s.Index()
	require.Error(t, err)
	assert.Equal(t, int32(2), reads.Load())

	data, err := os.ReadFile(writeSnapshot(t, appleSnapshot()))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = s.Index()
	require.NoError(t, err)
	_, err = s.Index()
	require.NoError(t, err)
	assert.Equal(t, int32(3), reads.Load())
}

func TestSource_MissingDataset(t *testing.T) {
	s := NewSource(filepath.Join(t.TempDir(), "nope.json"), nil)

	_, err := s.GraphForWord("apple")
	assert.True(t, apperrors.IsDatasetUnavailable(err))
	assert.False(t, apperrors.IsNotFound(err))

	assert.Empty(t, s.Synonyms("apple", 5))
	assert.Empty(t, s.Antonyms("apple", 5))

	_, err = s.WordProperties("apple")
	assert.True(t, apperrors.IsDatasetUnavailable(err))

	_, err = s.Stats()
	assert.True(t, apperrors.IsDatasetUnavailable(err))
}

func TestSource_NotFound(t *testing.T) {
	snap := appleSnapshot()
	s := NewStaticSource(NewIndex(&snap), nil)

	_, err := s.GraphForWord("zebra")
	assert.True(t, apperrors.IsNotFound(err))
	assert.False(t, apperrors.IsDatasetUnavailable(err))

	_, err = s.WordProperties("zebra")
	assert.True(t, apperrors.IsNotFound(err))

	props, err := s.WordProperties("apple")
	require.NoError(t, err)
	assert.Equal(t, "apple", props.Display)
}
