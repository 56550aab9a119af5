package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	lru "github.com/bpowers/sized-lru"
	"github.com/bpowers/sized-lru/codec"
	"github.com/bpowers/sized-lru/digest"
	"github.com/bpowers/sized-lru/sizedlru"
)

type options struct {
	capacity    string
	digest      string
	codec       string
	overhead    int
	dev         bool
	metricsAddr string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("lrudemo", flag.ContinueOnError)
	fs.StringVar(&o.capacity, "capacity", "32MiB", "cache byte budget, e.g. 100B or 32MiB")
	fs.StringVar(&o.digest, "digest", "sha1", "key digest: sha1, sha256 or xxh3")
	fs.StringVar(&o.codec, "codec", "raw", "value codec: raw, msgpack, json, gob, msgpack+s2, msgpack+zstd, msgpack+lz4")
	fs.IntVar(&o.overhead, "overhead", sizedlru.DigestOverhead, "per-entry overhead in bytes; -1 uses twice the digest length")
	fs.BoolVar(&o.dev, "dev", false, "development logging and cache inspection")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve /metrics on this address until interrupted")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger, err := newLogger(opts.dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	c, err := newCache(opts.capacity, opts.digest, opts.codec, opts.overhead, opts.dev, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create cache: %v\n", err)
		os.Exit(2)
	}

	if err := runScenario(c, logger); err != nil {
		logger.Error("scenario failed", zap.Error(err))
		os.Exit(1)
	}

	if opts.metricsAddr == "" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serveMetrics(ctx, opts.metricsAddr, c, logger); err != nil {
		logger.Error("metrics server", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newCache(capacity, digestName, codecName string, overhead int, dev bool, logger *zap.Logger) (*lru.Cache[string], error) {
	size, err := sizedlru.ParseCapacity(capacity)
	if err != nil {
		return nil, err
	}
	d, err := digest.ByName(digestName)
	if err != nil {
		return nil, err
	}
	cd, err := codec.ByName(codecName)
	if err != nil {
		return nil, err
	}
	return lru.New[string](
		sizedlru.WithCapacity(size),
		sizedlru.WithDigester(d),
		sizedlru.WithCodec(cd),
		sizedlru.WithOverhead(overhead),
		sizedlru.WithInspect(dev),
		sizedlru.WithLogger(logger),
		sizedlru.WithEvictCallback(func(tok digest.Token, cost int) {
			logger.Info("evicted", zap.String("digest", string(tok)), zap.Int("cost", cost))
		}),
	)
}

// runScenario fills the cache with three values sized at 40%, 40% and 30% of
// its capacity, so the first is evicted.
func runScenario(c *lru.Cache[string], logger *zap.Logger) error {
	capacity := c.Stats().Capacity
	values := []struct {
		key     string
		percent int
	}{
		{"a", 40},
		{"b", 40},
		{"c", 30},
	}
	for _, v := range values {
		size := capacity * v.percent / 100
		if _, err := c.Set(v.key, strings.Repeat(v.key, size)); err != nil {
			return fmt.Errorf("set %s: %w", v.key, err)
		}
		logger.Info("set", zap.String("key", v.key), zap.Int("size", size), zap.Int("remaining", c.Remaining()))
	}

	for _, key := range []string{"a", "b"} {
		_, ok, err := c.Get(key)
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		logger.Info("get", zap.String("key", key), zap.Bool("present", ok))
	}

	snap, err := c.Inspect()
	if errors.Is(err, sizedlru.ErrInspectDisabled) {
		return c.Validate()
	}
	if err != nil {
		return err
	}
	order, err := c.Order()
	if err != nil {
		return err
	}
	logger.Info("inspect",
		zap.Int("remaining", snap.Remaining),
		zap.Int("len", snap.Len),
		zap.String("head", string(snap.Head)),
		zap.String("tail", string(snap.Tail)),
		zap.Any("order", order))
	return c.Validate()
}

func serveMetrics(ctx context.Context, addr string, c *lru.Cache[string], logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(lru.NewCollector("lrudemo", "demo", c)); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
