package block

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxChunk bounds how much a single read allocates ahead of the data
// actually arriving, so a corrupt length cannot force a huge allocation.
const maxChunk = 64 * 1024

// Output writes the primitives of the block wire format. The first error
// is sticky: later writes are no-ops and Err reports it.
type Output struct {
	w       io.Writer
	written int64
	err     error
	scratch [binary.MaxVarintLen64]byte
}

// NewOutput returns an Output writing to w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Err returns the first write error.
func (o *Output) Err() error { return o.err }

// Written returns the number of bytes written.
func (o *Output) Written() int64 { return o.written }

func (o *Output) write(p []byte) {
	if o.err != nil || len(p) == 0 {
		return
	}
	n, err := o.w.Write(p)
	o.written += int64(n)
	o.err = err
}

// WriteUvarint writes v as an unsigned varint.
func (o *Output) WriteUvarint(v uint64) {
	n := binary.PutUvarint(o.scratch[:], v)
	o.write(o.scratch[:n])
}

// WriteUint32 writes v as 4 little-endian bytes.
func (o *Output) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(o.scratch[:4], v)
	o.write(o.scratch[:4])
}

// WriteUint64 writes v as 8 little-endian bytes.
func (o *Output) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(o.scratch[:8], v)
	o.write(o.scratch[:8])
}

// WriteBool writes v as a single byte.
func (o *Output) WriteBool(v bool) {
	o.scratch[0] = 0
	if v {
		o.scratch[0] = 1
	}
	o.write(o.scratch[:1])
}

// WriteBytes writes a length-prefixed byte string.
func (o *Output) WriteBytes(p []byte) {
	o.WriteUvarint(uint64(len(p)))
	o.write(p)
}

// WriteRaw writes p without a length prefix.
func (o *Output) WriteRaw(p []byte) {
	o.write(p)
}

// WriteString writes a length-prefixed string.
func (o *Output) WriteString(s string) {
	o.WriteBytes([]byte(s))
}

// WriteInt32s writes len(vs) values of 4 little-endian bytes each. The
// count is not written.
func (o *Output) WriteInt32s(vs []int32) {
	for _, v := range vs {
		o.WriteUint32(uint32(v))
	}
}

// Input reads the primitives written by Output. The first error is sticky;
// unexpected EOF and malformed values are reported as ErrCorrupt.
type Input struct {
	r     io.ByteReader
	rr    io.Reader
	err   error
	buf   [8]byte
	depth int // blocks currently being read
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// NewInput returns an Input reading from r. Readers that do not implement
// io.ByteReader are buffered.
func NewInput(r io.Reader) *Input {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Input{r: br, rr: br}
}

// Err returns the first read error.
func (in *Input) Err() error { return in.err }

func (in *Input) fail(err error) {
	if in.err != nil {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = fmt.Errorf("%w: %w", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	in.err = err
}

func (in *Input) readFull(p []byte) bool {
	if in.err != nil {
		return false
	}
	if _, err := io.ReadFull(in.rr, p); err != nil {
		in.fail(err)
		return false
	}
	return true
}

// ReadUvarint reads an unsigned varint.
func (in *Input) ReadUvarint() uint64 {
	if in.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(in.r)
	if err != nil {
		in.fail(err)
		return 0
	}
	return v
}

// ReadCount reads a uvarint and checks that it is at most limit.
func (in *Input) ReadCount(limit int) int {
	v := in.ReadUvarint()
	if in.err != nil {
		return 0
	}
	if v > uint64(limit) {
		in.fail(corruptf("count %d exceeds %d", v, limit))
		return 0
	}
	return int(v)
}

// ReadUint32 reads 4 little-endian bytes.
func (in *Input) ReadUint32() uint32 {
	if !in.readFull(in.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(in.buf[:4])
}

// ReadUint64 reads 8 little-endian bytes.
func (in *Input) ReadUint64() uint64 {
	if !in.readFull(in.buf[:8]) {
		return 0
	}
	return binary.LittleEndian.Uint64(in.buf[:8])
}

// ReadBool reads a single byte written by WriteBool.
func (in *Input) ReadBool() bool {
	if !in.readFull(in.buf[:1]) {
		return false
	}
	switch in.buf[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		in.fail(corruptf("invalid bool byte %#x", in.buf[0]))
		return false
	}
}

// ReadRaw reads exactly n bytes. The buffer grows in bounded chunks as the
// data arrives.
func (in *Input) ReadRaw(n int) []byte {
	if in.err != nil {
		return nil
	}
	if n < 0 {
		in.fail(corruptf("negative length %d", n))
		return nil
	}
	out := make([]byte, 0, min(n, maxChunk))
	for len(out) < n {
		chunk := min(n-len(out), maxChunk)
		start := len(out)
		out = append(out, make([]byte, chunk)...)
		if !in.readFull(out[start:]) {
			return nil
		}
	}
	return out
}

// ReadBytes reads a length-prefixed byte string.
func (in *Input) ReadBytes() []byte {
	n := in.ReadUvarint()
	if in.err != nil {
		return nil
	}
	if n > uint64(maxInt32) {
		in.fail(corruptf("byte string of %d bytes", n))
		return nil
	}
	return in.ReadRaw(int(n))
}

// ReadString reads a length-prefixed string of at most limit bytes.
func (in *Input) ReadString(limit int) string {
	n := in.ReadCount(limit)
	if in.err != nil {
		return ""
	}
	return string(in.ReadRaw(n))
}

// ReadInt32s reads n values of 4 little-endian bytes each.
func (in *Input) ReadInt32s(n int) []int32 {
	raw := in.ReadRaw(n * 4)
	if in.err != nil {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}

const maxInt32 = 1<<31 - 1
