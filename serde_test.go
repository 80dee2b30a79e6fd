package colblock

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/codec"
	"github.com/hupe1980/colblock/internal/hash"
	"github.com/hupe1980/colblock/page"
	"github.com/hupe1980/colblock/resource"
	"github.com/hupe1980/colblock/testutil"
	"github.com/hupe1980/colblock/types"
)

func testPage(t *testing.T, rows int) *page.Page {
	t.Helper()
	rng := testutil.NewRNG(4711)

	categories := []string{"alpha", "beta", "gamma"}
	ids := make([]any, rows)
	names := make([]any, rows)
	for i := range ids {
		ids[i] = int64(i)
		names[i] = categories[i%len(categories)]
	}

	value := testutil.MustBuild(t, types.Varchar, "constant")
	rle, err := block.NewRunLengthBlock(value, rows)
	require.NoError(t, err)

	p, err := page.New(
		testutil.MustBuild(t, types.Bigint, ids...),
		testutil.MustBuild(t, types.Varchar, names...),
		testutil.MustBuild(t, types.Double, rng.Doubles(rows, 0.3)...),
		rle,
	)
	require.NoError(t, err)
	return p
}

func assertSamePage(t *testing.T, want, got *page.Page) {
	t.Helper()
	require.Equal(t, want.PositionCount(), got.PositionCount())
	require.Equal(t, want.ChannelCount(), got.ChannelCount())
	for ch := 0; ch < want.ChannelCount(); ch++ {
		wb, err := want.Block(ch)
		require.NoError(t, err)
		gb, err := got.Block(ch)
		require.NoError(t, err)
		for p := 0; p < want.PositionCount(); p++ {
			eq, err := wb.EqualTo(p, gb, p)
			require.NoError(t, err)
			require.True(t, eq, "channel %d position %d", ch, p)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	p := testPage(t, 2000)

	for _, name := range codec.Names() {
		t.Run(name, func(t *testing.T) {
			c, ok := codec.ByName(name)
			require.True(t, ok)

			serde := NewPagesSerde(WithCodec(c), WithParallelism(2))
			sp, err := serde.Serialize(t.Context(), p)
			require.NoError(t, err)
			assert.Equal(t, name, sp.Codec)
			assert.Equal(t, p.PositionCount(), sp.PositionCount)
			assert.Equal(t, 4, sp.ChannelCount)
			if name != "none" {
				assert.Less(t, len(sp.Payload), sp.UncompressedSize)
			}

			got, err := serde.Deserialize(t.Context(), sp)
			require.NoError(t, err)
			assertSamePage(t, p, got)
		})
	}
}

func TestSerializeStoresIncompressiblePayloadRaw(t *testing.T) {
	rng := testutil.NewRNG(1)
	values := make([]any, 64)
	for i := range values {
		values[i] = rng.Int63()
	}
	p, err := page.New(testutil.MustBuild(t, types.Bigint, values...))
	require.NoError(t, err)

	sp, err := NewPagesSerde(WithCodec(codec.LZ4{})).Serialize(t.Context(), p)
	require.NoError(t, err)
	assert.Equal(t, "none", sp.Codec)
	assert.Equal(t, sp.UncompressedSize, len(sp.Payload))
}

func TestSerializeEmptyPage(t *testing.T) {
	p, err := page.NewWithPositionCount(3)
	require.NoError(t, err)

	serde := NewPagesSerde()
	sp, err := serde.Serialize(t.Context(), p)
	require.NoError(t, err)
	assert.Zero(t, sp.UncompressedSize)

	got, err := serde.Deserialize(t.Context(), sp)
	require.NoError(t, err)
	assert.Equal(t, 3, got.PositionCount())
	assert.Zero(t, got.ChannelCount())
}

func TestDeserializeDetectsCorruption(t *testing.T) {
	mc := &BasicMetricsCollector{}
	serde := NewPagesSerde(WithMetricsCollector(mc))
	sp, err := serde.Serialize(t.Context(), testPage(t, 100))
	require.NoError(t, err)

	corrupt := *sp
	corrupt.Payload = bytes.Clone(sp.Payload)
	corrupt.Payload[len(corrupt.Payload)/2] ^= 0xff

	_, err = serde.Deserialize(t.Context(), &corrupt)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.ChecksumFailures)
	assert.Equal(t, int64(1), stats.DeserializeErrors)
	assert.Equal(t, int64(1), stats.SerializeCount)
	assert.Equal(t, int64(100), stats.PositionsSerialized)
}

func TestDeserializeRejectsUnknownCodec(t *testing.T) {
	serde := NewPagesSerde()
	sp, err := serde.Serialize(t.Context(), testPage(t, 10))
	require.NoError(t, err)

	sp.Codec = "brotli"
	_, err = serde.Deserialize(t.Context(), sp)
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestDeserializeRejectsPositionMismatch(t *testing.T) {
	serde := NewPagesSerde()
	sp, err := serde.Serialize(t.Context(), testPage(t, 10))
	require.NoError(t, err)

	sp.PositionCount = 11
	_, err = serde.Deserialize(t.Context(), sp)
	require.ErrorIs(t, err, ErrInvalidPage)

	var chErr *ChannelError
	require.True(t, errors.As(err, &chErr))
	assert.Equal(t, 0, chErr.Channel)
}

func TestSerializeReportsChannel(t *testing.T) {
	p, err := page.New(testutil.MustBuild(t, types.Bigint, int64(1)))
	require.NoError(t, err)

	serde := NewPagesSerde(WithRegistry(block.NewRegistry()))
	_, err = serde.Serialize(t.Context(), p)
	require.ErrorIs(t, err, block.ErrUnknownEncoding)

	var chErr *ChannelError
	require.True(t, errors.As(err, &chErr))
	assert.Equal(t, 0, chErr.Channel)
}

func TestSerializeHonorsCanceledContext(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewPagesSerde(WithResourceController(rc)).Serialize(ctx, testPage(t, 10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageStream(t *testing.T) {
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64 << 20})
	serde := NewPagesSerde(WithCodec(codec.Zstd{}), WithResourceController(rc))

	pages := []*page.Page{testPage(t, 10), testPage(t, 500), testPage(t, 1)}

	var buf bytes.Buffer
	w := serde.NewPageWriter(&buf)
	for _, p := range pages {
		require.NoError(t, w.Write(t.Context(), p))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, 3, w.Pages())

	r := serde.NewPageReader(&buf)
	for _, want := range pages {
		got, err := r.Next(t.Context())
		require.NoError(t, err)
		assertSamePage(t, want, got)
	}
	_, err := r.Next(t.Context())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 3, r.Pages())
	require.NoError(t, r.Close())
}

func TestPageReaderEnforcesMemoryLimit(t *testing.T) {
	p := testPage(t, 1000)
	serde := NewPagesSerde(WithCodec(codec.None{}))
	sp, err := serde.Serialize(t.Context(), p)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, sp))
	require.NoError(t, WritePage(&buf, sp))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: int64(sp.UncompressedSize) + 1})
	limited := NewPagesSerde(WithResourceController(rc))

	r := limited.NewPageReader(bytes.NewReader(buf.Bytes()))
	_, err = r.Next(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(sp.UncompressedSize), rc.MemoryUsage())

	// The previous reservation is released before the next page is read.
	_, err = r.Next(t.Context())
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Zero(t, rc.MemoryUsage())

	tight := resource.NewController(resource.Config{MemoryLimitBytes: int64(sp.UncompressedSize) - 1})
	r = NewPagesSerde(WithResourceController(tight)).NewPageReader(bytes.NewReader(buf.Bytes()))
	_, err = r.Next(t.Context())
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Zero(t, tight.MemoryUsage())
}

func TestReadPageRejectsTruncatedFrame(t *testing.T) {
	sp, err := NewPagesSerde().Serialize(t.Context(), testPage(t, 10))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, sp))
	frame := buf.Bytes()

	_, err = ReadPage(bytes.NewReader(frame[:len(frame)-1]))
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = ReadPage(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)

	got, err := ReadPage(bytes.NewReader(frame))
	require.NoError(t, err)
	assert.Equal(t, sp, got)
}

func TestLoggerRecordsSerialization(t *testing.T) {
	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := NewPagesSerde(WithLogger(logger)).Serialize(t.Context(), testPage(t, 5))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"msg":"page serialized"`)
	assert.Contains(t, logs.String(), `"positions":5`)
	assert.Contains(t, logs.String(), `"codec":"lz4"`)
	assert.Contains(t, logs.String(), `"payload_codec":`)
}

func TestNilPagesAreRejected(t *testing.T) {
	serde := NewPagesSerde()

	_, err := serde.Serialize(t.Context(), nil)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = serde.Deserialize(t.Context(), nil)
	assert.ErrorIs(t, err, ErrInvalidPage)

	assert.ErrorIs(t, WritePage(io.Discard, nil), ErrInvalidPage)
}

func TestDeserializeBoundsPageSize(t *testing.T) {
	sp, err := NewPagesSerde(WithCodec(codec.None{})).Serialize(t.Context(), testPage(t, 1000))
	require.NoError(t, err)

	_, err = NewPagesSerde(WithMaxPageSize(1024)).Deserialize(t.Context(), sp)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = NewPagesSerde(WithMaxPageSize(sp.UncompressedSize)).Deserialize(t.Context(), sp)
	require.NoError(t, err)

	// A tiny payload claiming a huge page is rejected before decompression.
	forged := &SerializedPage{
		PositionCount:    1,
		ChannelCount:     1,
		Codec:            codec.LZ4{}.Name(),
		UncompressedSize: 1 << 30,
		Payload:          []byte{0x10},
	}
	forged.Checksum = hash.CRC32C(forged.Payload)
	_, err = NewPagesSerde().Deserialize(t.Context(), forged)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestWritePageRejectsOutOfRangeFields(t *testing.T) {
	sp, err := NewPagesSerde().Serialize(t.Context(), testPage(t, 10))
	require.NoError(t, err)

	bad := *sp
	bad.PositionCount = -1
	assert.ErrorIs(t, WritePage(io.Discard, &bad), ErrInvalidPage)

	bad = *sp
	bad.ChannelCount = maxChannels + 1
	assert.ErrorIs(t, WritePage(io.Discard, &bad), ErrInvalidPage)
}

func TestPageReaderStopsAfterMemoryLimit(t *testing.T) {
	serde := NewPagesSerde(WithCodec(codec.None{}))
	big, err := serde.Serialize(t.Context(), testPage(t, 1000))
	require.NoError(t, err)
	small, err := serde.Serialize(t.Context(), testPage(t, 10))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, big))
	require.NoError(t, WritePage(&buf, small))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: int64(small.UncompressedSize) + 1})
	r := NewPagesSerde(WithResourceController(rc)).NewPageReader(&buf)

	_, err = r.Next(t.Context())
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	// The oversized frame was consumed, so the stream must not resume with
	// the following page.
	p, err := r.Next(t.Context())
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Nil(t, p)
	assert.Zero(t, r.Pages())
	require.NoError(t, r.Close())
	assert.Zero(t, rc.MemoryUsage())
}

func TestPageStreamUsesCallContextForIO(t *testing.T) {
	p := testPage(t, 100)
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64})
	serde := NewPagesSerde(WithCodec(codec.None{}), WithResourceController(rc))

	var buf bytes.Buffer
	w := serde.NewPageWriter(&buf)
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	err := w.Write(ctx, p)
	require.Error(t, err)
	assert.Zero(t, w.Pages())
	assert.Equal(t, err, w.Write(t.Context(), p), "failed writer stays failed")

	sp, err := NewPagesSerde(WithCodec(codec.None{})).Serialize(t.Context(), p)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WritePage(&buf, sp))

	r := serde.NewPageReader(&buf)
	ctx, cancel = context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = r.Next(ctx)
	require.Error(t, err)
	assert.Zero(t, r.Pages())
}
