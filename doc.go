// Package colblock moves pages of columnar blocks across process
// boundaries.
//
// The block package defines the in-memory container: a Block holds a run of
// values of one type in one of several physical layouts and is serialized
// through a registry of named encodings. This package frames whole pages
// (one block per channel) for exchange: it encodes the channels, compresses
// the result with a named codec and protects it with a CRC32C checksum.
//
// # Quick Start
//
//	serde := colblock.NewPagesSerde(
//	    colblock.WithCodec(codec.Zstd{}),
//	    colblock.WithParallelism(4),
//	)
//
//	sp, err := serde.Serialize(ctx, p)
//	...
//	p, err = serde.Deserialize(ctx, sp)
//
// # Streams
//
// PageWriter and PageReader carry framed pages over an io.Writer and an
// io.Reader. Both honor the IO limit of a resource controller and the
// reader reserves memory for every decoded page:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 256 << 20})
//	serde := colblock.NewPagesSerde(colblock.WithResourceController(rc))
//
//	w := serde.NewPageWriter(conn)
//	_ = w.Write(ctx, p)
//	_ = w.Flush()
//
//	r := serde.NewPageReader(conn)
//	defer r.Close()
//	for {
//	    p, err := r.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
//
// # Frame Format
//
//	positionCount  uvarint
//	channelCount   uvarint
//	codec          uvarint length + name
//	uncompressed   uvarint
//	stored         uvarint
//	checksum       uint32 little-endian, CRC32C of the stored payload
//	payload        stored bytes
//
// The uncompressed payload is the concatenation of the channel blocks as
// written by block.Serde. When compression saves less than 10% the payload
// is stored as is and the frame names the "none" codec.
//
// # Observability
//
// Serialization reports to a MetricsCollector (see the promstats package
// for Prometheus) and logs through a slog-based Logger.
package colblock
