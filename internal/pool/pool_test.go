package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.B = append(bb.B, 1, 2, 3)

	bb.Grow(1)
	require.Equal(t, 4, cap(bb.B))

	bb.Grow(10)
	require.GreaterOrEqual(t, cap(bb.B), 13)
	require.Equal(t, []byte{1, 2, 3}, bb.B)

	bb.Reset()
	require.Empty(t, bb.B)
	require.GreaterOrEqual(t, cap(bb.B), 13)
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Empty(t, bb.B)
	require.Equal(t, 16, cap(bb.B))

	bb.B = append(bb.B, "payload"...)
	p.Put(bb)

	again := p.Get()
	require.Empty(t, again.B, "buffers come back reset")

	// oversized and nil buffers are not retained and must not panic
	p.Put(NewByteBuffer(128))
	p.Put(nil)
}

func TestRecordBuffer(t *testing.T) {
	bb := GetRecordBuffer()
	require.GreaterOrEqual(t, cap(bb.B), RecordBufferDefaultSize)
	PutRecordBuffer(bb)
}

func TestGetFloat64Slice(t *testing.T) {
	t.Run("returns slice with correct size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(100)
		defer cleanup()

		require.Len(t, slice, 100)
	})

	t.Run("shrinks and grows", func(t *testing.T) {
		big, cleanup := GetFloat64Slice(500)
		require.Len(t, big, 500)
		cleanup()

		small, cleanup := GetFloat64Slice(3)
		require.Len(t, small, 3)
		cleanup()

		again, cleanup := GetFloat64Slice(1000)
		defer cleanup()
		require.Len(t, again, 1000)
	})

	t.Run("zero size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(0)
		defer cleanup()

		require.Empty(t, slice)
	})
}
