package blobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_Basics(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "/a", []byte("one"), nil))
	assert.True(t, s.Has("/a"))
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, "/a", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	// Returned slice is a copy; mutating it must not affect the store.
	got[0] = 'X'
	again, err := s.Get(ctx, "/a", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), again)

	require.NoError(t, s.Delete(ctx, "/a"))
	require.NoError(t, s.Delete(ctx, "/a")) // absent is success

	_, err = s.Get(ctx, "/a", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemStore_CancelledContext(t *testing.T) {
	s := NewMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Put(ctx, "/a", []byte("x"), nil)
	assert.True(t, errors.Is(err, ErrNetwork))
}
