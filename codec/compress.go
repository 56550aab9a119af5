package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm selects the compression applied by Compressed.
type Algorithm int

const (
	S2 Algorithm = iota
	Zstd
	LZ4
)

func (a Algorithm) String() string {
	switch a {
	case S2:
		return "s2"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Compressed wraps another codec and compresses its output. The cache
// accounts for the compressed size.
type Compressed struct {
	Inner     Codec
	Algorithm Algorithm
}

func (c Compressed) Name() string {
	return c.Inner.Name() + "+" + c.Algorithm.String()
}

func (c Compressed) Marshal(v interface{}) ([]byte, error) {
	raw, err := c.Inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	switch c.Algorithm {
	case S2:
		return s2.Encode(nil, raw), nil
	case Zstd:
		z, err := zstdCoders()
		if err != nil {
			return nil, err
		}
		return z.encoder.EncodeAll(raw, nil), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("codec: unknown compression %v", c.Algorithm)
}

func (c Compressed) Unmarshal(data []byte, v interface{}) error {
	var raw []byte
	var err error
	switch c.Algorithm {
	case S2:
		raw, err = s2.Decode(nil, data)
	case Zstd:
		var z *zstdPair
		if z, err = zstdCoders(); err == nil {
			raw, err = z.decoder.DecodeAll(data, nil)
		}
	case LZ4:
		raw, err = io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		err = fmt.Errorf("codec: unknown compression %v", c.Algorithm)
	}
	if err != nil {
		return err
	}
	return c.Inner.Unmarshal(raw, v)
}

// zstd encoders and decoders are safe for concurrent EncodeAll/DecodeAll
// and expensive to build, so one pair is shared.
type zstdPair struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var (
	zstdOnce   sync.Once
	zstdShared *zstdPair
	zstdErr    error
)

func zstdCoders() (*zstdPair, error) {
	zstdOnce.Do(func() {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			zstdErr = err
			return
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			zstdErr = err
			return
		}
		zstdShared = &zstdPair{encoder: enc, decoder: dec}
	})
	return zstdShared, zstdErr
}
