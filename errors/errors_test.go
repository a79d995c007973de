package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "loading snapshot"))

	err := WrapError(ErrDatasetUnavailable, "loading snapshot")
	assert.EqualError(t, err, "loading snapshot: graph dataset unavailable")
	assert.True(t, IsDatasetUnavailable(err))
	assert.False(t, IsNotFound(err))
}

func TestWrapErrorf(t *testing.T) {
	assert.Nil(t, WrapErrorf(nil, "word %q", "apple"))

	err := WrapErrorf(ErrNotFound, "word %q", "apple")
	assert.EqualError(t, err, `word "apple": resource not found`)
	assert.True(t, IsNotFound(err))
}

func TestCategoryHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", ErrNotFound, IsNotFound, true},
		{"invalid input", WrapError(ErrInvalidInput, "limit"), IsInvalidInput, true},
		{"service unavailable", WrapError(ErrServiceUnavailable, "neo4j"), IsServiceUnavailable, true},
		{"unrelated error", errors.New("boom"), IsServiceUnavailable, false},
		{"dataset vs not found", ErrDatasetUnavailable, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
