package colblock

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/hupe1980/colblock/page"
	"github.com/hupe1980/colblock/resource"
)

// PageWriter writes framed pages to a stream, subject to the IO limit of
// the serde's resource controller. Each page is written with a single call
// to the underlying writer. After a failed write every later Write returns
// the same error.
type PageWriter struct {
	serde *PagesSerde
	w     io.Writer
	frame bytes.Buffer
	pages int
	err   error
}

// NewPageWriter returns a writer of pages to w.
func (s *PagesSerde) NewPageWriter(w io.Writer) *PageWriter {
	return &PageWriter{serde: s, w: w}
}

// Write serializes p and writes it as one frame. ctx bounds serialization
// and the time spent waiting for IO tokens.
func (w *PageWriter) Write(ctx context.Context, p *page.Page) error {
	if w.err != nil {
		return w.err
	}
	sp, err := w.serde.Serialize(ctx, p)
	if err != nil {
		return err
	}

	w.frame.Reset()
	if err := WritePage(&w.frame, sp); err != nil {
		return err
	}
	out := resource.NewRateLimitedWriter(ctx, w.w, w.serde.opts.resources)
	if _, err := out.Write(w.frame.Bytes()); err != nil {
		w.err = err
		return err
	}
	w.pages++
	return nil
}

// Flush flushes the underlying writer if it buffers.
func (w *PageWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	if f, ok := w.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Pages returns the number of pages written.
func (w *PageWriter) Pages() int { return w.pages }

// PageReader reads framed pages from a stream, subject to the IO limit of
// the serde's resource controller. Memory for the most recently returned
// page is reserved until the next call to Next or Close. Once a frame
// fails to read, reserve or decode, the stream is broken and every later
// Next returns the same error.
type PageReader struct {
	serde   *PagesSerde
	src     *resource.RateLimitedReader
	br      *bufio.Reader
	current *resource.Reservation
	pages   int
	err     error
}

// NewPageReader returns a reader of the pages framed in r.
func (s *PagesSerde) NewPageReader(r io.Reader) *PageReader {
	src := resource.NewRateLimitedReader(context.Background(), r, s.opts.resources)
	return &PageReader{serde: s, src: src, br: bufio.NewReader(src)}
}

// Next returns the next page, or io.EOF at the end of the stream. The
// previous page's memory reservation is released first. ctx bounds
// decoding and the time spent waiting for IO tokens.
func (r *PageReader) Next(ctx context.Context) (*page.Page, error) {
	r.current.Release()
	r.current = nil

	if r.err != nil {
		return nil, r.err
	}

	r.src.SetContext(ctx)
	sp, err := readPage(r.br)
	if err != nil {
		r.err = err
		return nil, err
	}

	res, err := r.serde.opts.resources.Reserve(int64(sp.UncompressedSize))
	if err != nil {
		r.err = err
		return nil, err
	}

	p, err := r.serde.Deserialize(ctx, sp)
	if err != nil {
		res.Release()
		r.err = err
		return nil, err
	}

	r.current = res
	r.pages++
	return p, nil
}

// Pages returns the number of pages read.
func (r *PageReader) Pages() int { return r.pages }

// Close releases the reservation of the last page.
func (r *PageReader) Close() error {
	r.current.Release()
	r.current = nil

	var err error
	if r.err != nil && !errors.Is(r.err, io.EOF) {
		err = r.err
	}
	r.serde.opts.logger.LogStreamClosed(context.Background(), r.pages, err)
	return nil
}
