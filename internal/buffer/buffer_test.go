package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pushSegment(t *testing.T, buff *Buffer, text string) {
	ok := buff.Append([]byte(text))
	require.True(t, ok)
	segment := buff.Finish()
	require.Equal(t, text, string(segment))
}

func BenchmarkBuffer(b *testing.B) {
	buff := New(1024, 4096)
	smallString := []byte(strings.Repeat("a", 1023))

	b.ReportAllocs()
	b.SetBytes(int64(len(smallString)))
	b.ResetTimer()

	for range b.N {
		_ = buff.Append(smallString)
		buff.Clear()
	}
}

func TestBuffer(t *testing.T) {
	t.Run("no overflow", func(t *testing.T) {
		buff := New(10, 20)
		pushSegment(t, buff, "Hello")
		pushSegment(t, buff, "Here")
		require.Equal(t, 9, buff.Len())
	})

	t.Run("with overflow", func(t *testing.T) {
		buff := New(10, 20)
		// "Hello, World!" is 13 characters length, so it will force the Buffer
		// to grow an underlying slice
		pushSegment(t, buff, "Hello, ")
		pushSegment(t, buff, "World!")
	})

	t.Run("overflow over the limit", func(t *testing.T) {
		buff := New(10, 20)
		pushSegment(t, buff, "Hello, ")
		pushSegment(t, buff, "World!")
		pushSegment(t, buff, "Lorem ")
		// at this point, we have reached 19 elements in underlying slice
		require.False(t, buff.Append([]byte("overflow")))
		require.Equal(t, 19, buff.Len())
	})

	t.Run("segment length", func(t *testing.T) {
		buff := New(10, 20)
		require.True(t, buff.Append([]byte("Hello, ")))
		require.True(t, buff.Append([]byte("World!")))
		require.Equal(t, 13, buff.SegmentLength())
	})

	t.Run("previous segments survive growth", func(t *testing.T) {
		buff := New(4, 64)
		require.True(t, buff.Append([]byte("GET")))
		method := buff.Finish()
		require.True(t, buff.Append([]byte(strings.Repeat("/", 32))))
		require.Equal(t, "GET", string(method))
	})

	t.Run("clear", func(t *testing.T) {
		buff := New(10, 20)
		pushSegment(t, buff, "Hello")
		buff.Clear()
		require.Zero(t, buff.Len())
		require.Zero(t, buff.SegmentLength())
		pushSegment(t, buff, strings.Repeat("a", 20))
	})
}
