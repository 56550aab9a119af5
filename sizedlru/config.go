package sizedlru

import (
	"errors"
	"math"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/bpowers/sized-lru/codec"
	"github.com/bpowers/sized-lru/digest"
)

// DefaultCapacity is used when no capacity option is given.
const DefaultCapacity = 32 << 20

// DigestOverhead, passed to WithOverhead, charges every entry twice the
// digest's token size. It is the default.
const DigestOverhead = -1

// EvictCallback is called for every entry leaving the cache.
type EvictCallback func(token digest.Token, cost int)

// Config is the validated, read-only configuration of an LRU.
type Config struct {
	Capacity int
	// Overhead is added to every payload length to get an entry's cost.
	Overhead int
	Digester digest.Digester
	Codec    codec.Codec
	Logger   *zap.Logger
	OnEvict  EvictCallback
	Inspect  bool
}

// Option customizes a Config before validation.
type Option func(*Config)

// WithCapacity sets the byte budget.
func WithCapacity(bytes int) Option {
	return func(c *Config) { c.Capacity = bytes }
}

// WithDigester sets the key hash. The default overhead follows it.
func WithDigester(d digest.Digester) Option {
	return func(c *Config) { c.Digester = d }
}

// WithCodec sets the value codec.
func WithCodec(cd codec.Codec) Option {
	return func(c *Config) { c.Codec = cd }
}

// WithOverhead overrides the per-entry accounting overhead. Negative values
// other than DigestOverhead are rejected by New.
func WithOverhead(bytes int) Option {
	return func(c *Config) { c.Overhead = bytes }
}

// WithLogger sets the logger for rejections and evictions. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithEvictCallback registers fn for entries removed by eviction, Remove or
// Purge.
func WithEvictCallback(fn EvictCallback) Option {
	return func(c *Config) { c.OnEvict = fn }
}

// WithInspect enables or disables Inspect, InspectKey and Order. They are
// enabled by default.
func WithInspect(enabled bool) Option {
	return func(c *Config) { c.Inspect = enabled }
}

// NewConfig applies opts to the defaults and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{
		Capacity: DefaultCapacity,
		Overhead: DigestOverhead,
		Inspect:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Capacity <= 0 {
		return Config{}, &ConfigurationError{Field: "capacity", Value: cfg.Capacity, Err: ErrInvalidCapacity}
	}
	if cfg.Overhead < DigestOverhead {
		return Config{}, &ConfigurationError{Field: "overhead", Value: cfg.Overhead, Err: ErrInvalidOverhead}
	}
	if cfg.Digester == nil {
		cfg.Digester = digest.Default()
	}
	if cfg.Codec == nil {
		cfg.Codec = codec.MsgPack{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Overhead == DigestOverhead {
		cfg.Overhead = 2 * cfg.Digester.Size()
	}
	return cfg, nil
}

// ParseCapacity parses human readable sizes such as "32MiB" or "100 B".
func ParseCapacity(s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, &ConfigurationError{Field: "capacity", Value: s, Err: err}
	}
	if n == 0 {
		return 0, &ConfigurationError{Field: "capacity", Value: s, Err: ErrInvalidCapacity}
	}
	if n > math.MaxInt32 {
		return 0, &ConfigurationError{Field: "capacity", Value: s, Err: errors.New("larger than 2GiB")}
	}
	return int(n), nil
}
