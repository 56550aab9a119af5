// Package digest turns arbitrary cache keys into fixed-length tokens used to
// index cache entries.
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Token is the base64 encoding of a key's hash. Every token produced by one
// Digester has the same length.
type Token string

// Digester hashes keys into Tokens.
type Digester interface {
	// Sum returns the token for key.
	Sum(key []byte) Token

	// Size is the encoded length of every token returned by Sum.
	Size() int

	// Name identifies the algorithm, e.g. "sha1".
	Name() string
}

type hashDigester struct {
	name string
	raw  int
	sum  func([]byte) []byte
}

func (d hashDigester) Sum(key []byte) Token {
	return Token(base64.StdEncoding.EncodeToString(d.sum(key)))
}

func (d hashDigester) Size() int {
	return base64.StdEncoding.EncodedLen(d.raw)
}

func (d hashDigester) Name() string {
	return d.name
}

// SHA1 returns a Digester producing 28-byte tokens.
func SHA1() Digester {
	return hashDigester{
		name: "sha1",
		raw:  sha1.Size,
		sum: func(b []byte) []byte {
			s := sha1.Sum(b)
			return s[:]
		},
	}
}

// SHA256 returns a Digester producing 44-byte tokens.
func SHA256() Digester {
	return hashDigester{
		name: "sha256",
		raw:  sha256.Size,
		sum: func(b []byte) []byte {
			s := sha256.Sum256(b)
			return s[:]
		},
	}
}

// XXH3 returns a non-cryptographic 128-bit Digester producing 24-byte
// tokens. It is much faster than SHA1 and safe against accidental
// collisions, but not against adversarially chosen keys.
func XXH3() Digester {
	return hashDigester{
		name: "xxh3",
		raw:  16,
		sum: func(b []byte) []byte {
			s := xxh3.Hash128(b).Bytes()
			return s[:]
		},
	}
}

// Default returns the SHA1 digester.
func Default() Digester {
	return SHA1()
}

// ByName looks up one of the digesters in this package.
func ByName(name string) (Digester, error) {
	switch name {
	case "sha1", "":
		return SHA1(), nil
	case "sha256":
		return SHA256(), nil
	case "xxh3":
		return XXH3(), nil
	}
	return nil, fmt.Errorf("digest: unknown algorithm %q", name)
}
