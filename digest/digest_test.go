package digest

import (
	"testing"
)

func TestDigesterSizes(t *testing.T) {
	tests := []struct {
		d    Digester
		size int
	}{
		{SHA1(), 28},
		{SHA256(), 44},
		{XXH3(), 24},
	}
	for _, tt := range tests {
		if got := tt.d.Size(); got != tt.size {
			t.Errorf("%s: Size() = %v, want %v", tt.d.Name(), got, tt.size)
		}
		for _, key := range []string{"", "a", "a much longer key than the hash itself"} {
			if got := len(tt.d.Sum([]byte(key))); got != tt.size {
				t.Errorf("%s: len(Sum(%q)) = %v, want %v", tt.d.Name(), key, got, tt.size)
			}
		}
	}
}

func TestDigesterDeterministic(t *testing.T) {
	for _, d := range []Digester{SHA1(), SHA256(), XXH3()} {
		a := d.Sum([]byte("test"))
		b := d.Sum([]byte("test"))
		if a != b {
			t.Errorf("%s: Sum not deterministic: %q != %q", d.Name(), a, b)
		}
		if c := d.Sum([]byte("newTest")); c == a {
			t.Errorf("%s: distinct keys share token %q", d.Name(), c)
		}
	}
}

func TestSHA1KnownValue(t *testing.T) {
	// echo -n test | openssl sha1 -binary | base64
	const want = Token("qUqP5cyxm6YcTAhz05Hph5gvu9M=")
	if got := SHA1().Sum([]byte("test")); got != want {
		t.Fatalf("SHA1().Sum(test) = %v, want %v", got, want)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"sha1", "sha256", "xxh3"} {
		d, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) err: %v", name, err)
		}
		if d.Name() != name {
			t.Errorf("ByName(%q).Name() = %v", name, d.Name())
		}
	}
	if d, err := ByName(""); err != nil || d.Name() != "sha1" {
		t.Errorf("ByName(\"\") = %v, %v; want sha1", d, err)
	}
	if _, err := ByName("md5"); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
}
