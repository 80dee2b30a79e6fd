package block

import (
	"bytes"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWirePrimitives(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)
	out.WriteUvarint(300)
	out.WriteUint32(0xdeadbeef)
	out.WriteUint64(1 << 40)
	out.WriteBool(true)
	out.WriteString("block")
	out.WriteInt32s([]int32{-1, 7})
	require.NoError(t, out.Err())
	assert.Equal(t, int64(buf.Len()), out.Written())

	// A reader without ReadByte is buffered internally.
	in := NewInput(iotest.OneByteReader(&buf))
	assert.Equal(t, uint64(300), in.ReadUvarint())
	assert.Equal(t, uint32(0xdeadbeef), in.ReadUint32())
	assert.Equal(t, uint64(1<<40), in.ReadUint64())
	assert.True(t, in.ReadBool())
	assert.Equal(t, "block", in.ReadString(16))
	assert.Equal(t, []int32{-1, 7}, in.ReadInt32s(2))
	require.NoError(t, in.Err())

	in.ReadUint32()
	assert.ErrorIs(t, in.Err(), ErrCorrupt)
}

func TestInputRejectsMalformedValues(t *testing.T) {
	in := NewInput(bytes.NewReader([]byte{2}))
	in.ReadBool()
	assert.ErrorIs(t, in.Err(), ErrCorrupt)

	var buf bytes.Buffer
	out := NewOutput(&buf)
	out.WriteString("too long")
	in = NewInput(&buf)
	assert.Empty(t, in.ReadString(4))
	assert.ErrorIs(t, in.Err(), ErrCorrupt)
}

func TestReadRawLargeLengthFailsWithoutData(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)
	out.WriteUvarint(1 << 30)
	out.WriteRaw([]byte("short"))

	in := NewInput(&buf)
	assert.Nil(t, in.ReadBytes())
	assert.ErrorIs(t, in.Err(), ErrCorrupt)
}
