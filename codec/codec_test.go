package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type record struct {
	Name  string
	Tags  []string
	Score int
}

func TestCodecsRoundTrip(t *testing.T) {
	in := record{Name: "derp", Tags: []string{"herp", "attention please"}, Score: 42}
	codecs := []Codec{
		MsgPack{},
		JSON{},
		Gob{},
		Compressed{Inner: MsgPack{}, Algorithm: S2},
		Compressed{Inner: JSON{}, Algorithm: Zstd},
		Compressed{Inner: Gob{}, Algorithm: LZ4},
	}
	for _, c := range codecs {
		data, err := c.Marshal(in)
		if err != nil {
			t.Fatalf("%s: Marshal err: %v", c.Name(), err)
		}
		var out record
		if err := c.Unmarshal(data, &out); err != nil {
			t.Fatalf("%s: Unmarshal err: %v", c.Name(), err)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("%s: round trip mismatch (-want +got):\n%s", c.Name(), diff)
		}
	}
}

func TestRawExactLength(t *testing.T) {
	value := bytes.Repeat([]byte{'x'}, 40)
	data, err := Raw{}.Marshal(value)
	if err != nil {
		t.Fatalf("Marshal err: %v", err)
	}
	if len(data) != 40 {
		t.Fatalf("len = %v, want 40", len(data))
	}
	value[0] = 'y'
	if data[0] != 'x' {
		t.Fatalf("Marshal must copy its input")
	}

	var s string
	if err := (Raw{}).Unmarshal([]byte("hello"), &s); err != nil || s != "hello" {
		t.Fatalf("Unmarshal into string = %q, %v", s, err)
	}
	if _, err := (Raw{}).Marshal(12); err == nil {
		t.Fatalf("expected error encoding int with raw codec")
	}
	var n int
	if err := (Raw{}).Unmarshal([]byte("1"), &n); err == nil {
		t.Fatalf("expected error decoding into *int with raw codec")
	}
}

func TestCompressionShrinksRepetitiveValues(t *testing.T) {
	value := strings.Repeat("abcdefgh", 512)
	plain, err := MsgPack{}.Marshal(value)
	if err != nil {
		t.Fatalf("Marshal err: %v", err)
	}
	for _, algo := range []Algorithm{S2, Zstd, LZ4} {
		c := Compressed{Inner: MsgPack{}, Algorithm: algo}
		data, err := c.Marshal(value)
		if err != nil {
			t.Fatalf("%s: Marshal err: %v", c.Name(), err)
		}
		if len(data) >= len(plain) {
			t.Errorf("%s: compressed %d bytes, plain %d", c.Name(), len(data), len(plain))
		}
	}
}

func TestCorruptPayload(t *testing.T) {
	garbage := []byte("this-is-not-valid-data")
	for _, c := range []Codec{Gob{}, JSON{}, Compressed{Inner: MsgPack{}, Algorithm: S2}, Compressed{Inner: MsgPack{}, Algorithm: Zstd}} {
		var out record
		if err := c.Unmarshal(garbage, &out); err == nil {
			t.Errorf("%s: expected error decoding garbage", c.Name())
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"msgpack", "json", "gob", "raw", "msgpack+s2", "msgpack+zstd", "msgpack+lz4"} {
		c, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) err: %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("ByName(%q).Name() = %v", name, c.Name())
		}
	}
	if _, err := ByName("xml"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}
