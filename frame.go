package colblock

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/internal/conv"
)

const (
	maxPageBytes    = 1<<31 - 1
	maxChannels     = 1 << 16
	maxCodecNameLen = 64
)

// WritePage writes sp as one frame.
func WritePage(w io.Writer, sp *SerializedPage) error {
	if sp == nil {
		return fmt.Errorf("%w: nil page", ErrInvalidPage)
	}
	positions, err := frameField("position count", sp.PositionCount)
	if err != nil {
		return err
	}
	if sp.ChannelCount < 0 || sp.ChannelCount > maxChannels {
		return fmt.Errorf("%w: channel count %d out of range", ErrInvalidPage, sp.ChannelCount)
	}
	uncompressed, err := frameField("uncompressed size", sp.UncompressedSize)
	if err != nil {
		return err
	}
	stored, err := frameField("payload size", len(sp.Payload))
	if err != nil {
		return err
	}

	out := block.NewOutput(w)
	out.WriteUvarint(positions)
	out.WriteUvarint(uint64(sp.ChannelCount))
	out.WriteString(sp.Codec)
	out.WriteUvarint(uncompressed)
	out.WriteUvarint(stored)
	out.WriteUint32(sp.Checksum)
	out.WriteRaw(sp.Payload)
	return out.Err()
}

// frameField checks that v fits the non-negative 32-bit range of a frame
// field.
func frameField(name string, v int) (uint64, error) {
	n, err := conv.IntToInt32(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %d out of range", ErrInvalidPage, name, v)
	}
	return uint64(n), nil
}

type byteScanReader interface {
	io.Reader
	io.ByteScanner
}

// ReadPage reads one frame written by WritePage. It returns io.EOF if r is
// exhausted before the frame starts. Readers that do not implement
// io.ByteScanner are buffered and may be read past the frame; use a
// PageReader for streams of frames.
func ReadPage(r io.Reader) (*SerializedPage, error) {
	br, ok := r.(byteScanReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return readPage(br)
}

func readPage(br byteScanReader) (*SerializedPage, error) {
	if _, err := br.ReadByte(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if err := br.UnreadByte(); err != nil {
		return nil, err
	}

	in := block.NewInput(br)
	sp := &SerializedPage{
		PositionCount: in.ReadCount(maxPageBytes),
		ChannelCount:  in.ReadCount(maxChannels),
		Codec:         in.ReadString(maxCodecNameLen),
	}
	sp.UncompressedSize = in.ReadCount(maxPageBytes)
	stored := in.ReadCount(maxPageBytes)
	sp.Checksum = in.ReadUint32()
	sp.Payload = in.ReadRaw(stored)
	if err := in.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}
	return sp, nil
}
