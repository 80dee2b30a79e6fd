package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	assert.Equal(t, []string{"lz4", "none", "s2", "zstd"}, Names())

	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("brotli")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("columnar block data "), 512)

	for _, c := range []Codec{LZ4{}, Zstd{}, S2{}} {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(data)
			require.NoError(t, err)
			require.NotNil(t, compressed)
			assert.Less(t, len(compressed), len(data))

			out, err := c.Decompress(compressed, len(data))
			require.NoError(t, err)
			assert.Equal(t, data, out)

			_, err = c.Decompress(compressed, len(data)+1)
			assert.Error(t, err)
		})
	}
}

func TestNone(t *testing.T) {
	compressed, err := None{}.Compress([]byte("abc"))
	require.NoError(t, err)
	assert.Nil(t, compressed)

	out, err := None{}.Decompress([]byte("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	_, err = None{}.Decompress([]byte("abc"), 4)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestEmptyInputIsNotCompressed(t *testing.T) {
	for _, c := range []Codec{LZ4{}, Zstd{}, S2{}} {
		compressed, err := c.Compress(nil)
		require.NoError(t, err)
		assert.Nil(t, compressed, c.Name())
	}
}
