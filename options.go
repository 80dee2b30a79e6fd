package colblock

import (
	"runtime"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/codec"
	"github.com/hupe1980/colblock/resource"
	"github.com/hupe1980/colblock/types"
)

type options struct {
	codec            codec.Codec
	parallelism      int
	metricsCollector MetricsCollector
	logger           *Logger
	registry         *block.Registry
	types            block.TypeResolver
	resources        *resource.Controller
	maxPageSize      int
}

// DefaultMaxPageSize is the largest uncompressed page Deserialize accepts
// unless WithMaxPageSize says otherwise.
const DefaultMaxPageSize = 256 << 20

func defaultOptions() options {
	return options{
		codec:            codec.Default,
		parallelism:      runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		registry:         block.DefaultRegistry(),
		types:            types.Default(),
		maxPageSize:      DefaultMaxPageSize,
	}
}

// Option configures a PagesSerde.
type Option func(*options)

// WithCodec configures the codec used to compress page payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithParallelism bounds how many channels of one page are encoded
// concurrently. Values below 1 encode sequentially.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = max(n, 1)
	}
}

// WithMetricsCollector configures the metrics sink.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures the logger.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithRegistry configures the block encoding registry.
//
// If nil is passed, block.DefaultRegistry is used.
func WithRegistry(r *block.Registry) Option {
	return func(o *options) {
		if r == nil {
			r = block.DefaultRegistry()
		}
		o.registry = r
	}
}

// WithTypes configures how serialized type signatures are resolved.
//
// If nil is passed, types.Default is used.
func WithTypes(tr block.TypeResolver) Option {
	return func(o *options) {
		if tr == nil {
			tr = types.Default()
		}
		o.types = tr
	}
}

// WithResourceController configures the memory, worker and IO limits.
// A nil controller imposes no limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMaxPageSize bounds the uncompressed size of pages accepted by
// Deserialize. Values below 1 select DefaultMaxPageSize.
func WithMaxPageSize(bytes int) Option {
	return func(o *options) {
		if bytes < 1 {
			bytes = DefaultMaxPageSize
		}
		o.maxPageSize = bytes
	}
}
