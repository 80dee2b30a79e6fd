package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	r1, err := c.Reserve(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	r2, err := c.Reserve(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	_, err = c.Reserve(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	r1.Release()
	r1.Release()
	assert.Equal(t, int64(40), c.MemoryUsage())

	r3, err := c.Reserve(20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), r3.Bytes())
	assert.Equal(t, int64(60), c.MemoryUsage())

	r2.Release()
	r3.Release()
	assert.Zero(t, c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())

	_, err = c.Reserve(-1)
	assert.Error(t, err)
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	r, err := c.Reserve(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	r.Release()
	assert.Zero(t, c.MemoryUsage())
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller

	r, err := c.Reserve(10)
	require.NoError(t, err)
	r.Release()

	assert.Zero(t, c.MemoryUsage())
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(t.Context()))
	require.NoError(t, c.AcquireIO(t.Context(), 1<<30))
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(t.Context()))
	require.NoError(t, c.AcquireWorker(t.Context()))
	assert.False(t, c.TryAcquireWorker())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireWorker(ctx))

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
}

func TestRateLimitedStreams(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := t.Context()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	payload := bytes.Repeat([]byte{7}, 4096)
	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	r := NewRateLimitedReader(ctx, &buf, c)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestAcquireIOHonorsContext(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.Error(t, c.AcquireIO(ctx, 100))
}

func TestRateLimitedReaderSetContext(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})
	canceled, cancel := context.WithCancel(t.Context())
	cancel()

	r := NewRateLimitedReader(t.Context(), bytes.NewReader([]byte("abc")), c)
	r.SetContext(canceled)
	n, err := r.Read(make([]byte, 3))
	assert.Error(t, err)
	assert.Zero(t, n)

	r = NewRateLimitedReader(canceled, bytes.NewReader([]byte("abc")), c)
	r.SetContext(t.Context())
	n, err = r.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
