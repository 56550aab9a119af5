// Package codec converts cache values to and from the byte blobs the cache
// stores and accounts for.
package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes values into payloads and decodes them back. Unmarshal
// always receives a pointer.
type Codec interface {
	Name() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// MsgPack is the default codec.
type MsgPack struct{}

func (MsgPack) Name() string { return "msgpack" }

func (MsgPack) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgPack) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// JSON encodes values as JSON.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// Gob encodes values with encoding/gob. Interface-typed values must be
// registered with gob.Register.
type Gob struct{}

func (Gob) Name() string { return "gob" }

func (Gob) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Unmarshal(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Raw stores []byte and string values as-is, so a payload's size is exactly
// the value's length.
type Raw struct{}

func (Raw) Name() string { return "raw" }

func (Raw) Marshal(v interface{}) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return cloneBytes(v), nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("codec: raw cannot encode %T", v)
}

func (Raw) Unmarshal(data []byte, v interface{}) error {
	switch p := v.(type) {
	case *[]byte:
		*p = cloneBytes(data)
		return nil
	case *string:
		*p = string(data)
		return nil
	}
	return fmt.Errorf("codec: raw cannot decode into %T", v)
}

// ByName returns one of the uncompressed codecs, or a compressed msgpack
// codec for "msgpack+s2", "msgpack+zstd" and "msgpack+lz4".
func ByName(name string) (Codec, error) {
	switch name {
	case "msgpack", "":
		return MsgPack{}, nil
	case "json":
		return JSON{}, nil
	case "gob":
		return Gob{}, nil
	case "raw":
		return Raw{}, nil
	case "msgpack+s2":
		return Compressed{Inner: MsgPack{}, Algorithm: S2}, nil
	case "msgpack+zstd":
		return Compressed{Inner: MsgPack{}, Algorithm: Zstd}, nil
	case "msgpack+lz4":
		return Compressed{Inner: MsgPack{}, Algorithm: LZ4}, nil
	}
	return nil, fmt.Errorf("codec: unknown codec %q", name)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
