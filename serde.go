package colblock

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/codec"
	"github.com/hupe1980/colblock/internal/conv"
	"github.com/hupe1980/colblock/internal/hash"
	"github.com/hupe1980/colblock/page"
)

// SerializedPage is a page encoded for exchange.
type SerializedPage struct {
	PositionCount    int
	ChannelCount     int
	Codec            string // codec that produced Payload
	UncompressedSize int
	Checksum         uint32 // CRC32C of Payload
	Payload          []byte
}

// PagesSerde serializes pages. It is safe for concurrent use.
type PagesSerde struct {
	opts   options
	blocks *block.Serde
}

// NewPagesSerde returns a PagesSerde configured by optFns.
func NewPagesSerde(optFns ...Option) *PagesSerde {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.logger = opts.logger.WithCodec(opts.codec.Name())
	return &PagesSerde{
		opts:   opts,
		blocks: block.NewSerde(opts.types, opts.registry),
	}
}

// Serialize encodes every channel of p, compresses the result and
// checksums it. Channels are encoded concurrently.
func (s *PagesSerde) Serialize(ctx context.Context, p *page.Page) (sp *SerializedPage, err error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil page", ErrInvalidPage)
	}
	start := time.Now()
	defer func() {
		if err != nil {
			s.opts.metricsCollector.RecordSerialize(p.PositionCount(), 0, 0, time.Since(start), err)
		} else {
			s.opts.metricsCollector.RecordSerialize(sp.PositionCount, sp.UncompressedSize, len(sp.Payload), time.Since(start), nil)
		}
		s.opts.logger.LogSerialize(ctx, sp, err)
	}()

	channels, err := s.encodeChannels(ctx, p)
	if err != nil {
		return nil, err
	}

	size := 0
	for _, c := range channels {
		size += len(c)
	}
	if _, err := conv.IntToInt32(size); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	payload := make([]byte, 0, size)
	for _, c := range channels {
		payload = append(payload, c...)
	}

	stored, codecName, err := s.compress(payload)
	if err != nil {
		return nil, err
	}

	return &SerializedPage{
		PositionCount:    p.PositionCount(),
		ChannelCount:     p.ChannelCount(),
		Codec:            codecName,
		UncompressedSize: len(payload),
		Checksum:         hash.CRC32C(stored),
		Payload:          stored,
	}, nil
}

func (s *PagesSerde) encodeChannels(ctx context.Context, p *page.Page) ([][]byte, error) {
	out := make([][]byte, p.ChannelCount())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.parallelism)

	for ch, b := range p.Blocks() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.opts.resources.AcquireWorker(gctx); err != nil {
				return err
			}
			defer s.opts.resources.ReleaseWorker()

			data, err := s.blocks.Marshal(b)
			if err != nil {
				return &ChannelError{Channel: ch, cause: err}
			}
			out[ch] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// compress returns the payload to store and the codec that produced it.
// If compression saves less than 10%, the payload is stored uncompressed.
func (s *PagesSerde) compress(payload []byte) ([]byte, string, error) {
	none := codec.None{}.Name()
	if len(payload) == 0 || s.opts.codec.Name() == none {
		return payload, none, nil
	}

	compressed, err := s.opts.codec.Compress(payload)
	if err != nil {
		return nil, "", fmt.Errorf("compress with %s: %w", s.opts.codec.Name(), err)
	}
	if compressed == nil || float64(len(compressed)) > float64(len(payload))*0.9 {
		return payload, none, nil
	}
	return compressed, s.opts.codec.Name(), nil
}

// Deserialize verifies, decompresses and decodes sp. Either every channel
// decodes or an error is returned. Pages whose uncompressed size exceeds
// the configured maximum are rejected before anything is allocated.
func (s *PagesSerde) Deserialize(ctx context.Context, sp *SerializedPage) (p *page.Page, err error) {
	if sp == nil {
		return nil, fmt.Errorf("%w: nil page", ErrInvalidPage)
	}
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordDeserialize(sp.PositionCount, len(sp.Payload), time.Since(start), err)
		s.opts.logger.LogDeserialize(ctx, sp, err)
	}()

	if !hash.VerifyCRC32C(sp.Payload, sp.Checksum) {
		s.opts.metricsCollector.RecordChecksumFailure()
		return nil, ErrChecksumMismatch
	}

	if sp.UncompressedSize < 0 || sp.UncompressedSize > s.opts.maxPageSize {
		return nil, fmt.Errorf("%w: uncompressed size %d not in [0, %d]", ErrInvalidPage, sp.UncompressedSize, s.opts.maxPageSize)
	}

	c, ok := codec.ByName(sp.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, sp.Codec)
	}
	payload, err := c.Decompress(sp.Payload, sp.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}

	r := bytes.NewReader(payload)
	in := block.NewInput(r)
	blocks := make([]block.Block, sp.ChannelCount)
	for ch := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := s.blocks.ReadBlock(in)
		if err != nil {
			return nil, &ChannelError{Channel: ch, cause: err}
		}
		if b.PositionCount() != sp.PositionCount {
			return nil, &ChannelError{Channel: ch, cause: fmt.Errorf("%w: %d positions, want %d", ErrInvalidPage, b.PositionCount(), sp.PositionCount)}
		}
		blocks[ch] = b
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrInvalidPage, r.Len())
	}

	return page.NewWithPositionCount(sp.PositionCount, blocks...)
}
