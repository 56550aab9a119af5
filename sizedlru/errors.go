package sizedlru

import (
	"errors"
	"fmt"

	"github.com/bpowers/sized-lru/digest"
)

var (
	// ErrOversize is matched by every *OversizeEntryError.
	ErrOversize        = errors.New("sizedlru: entry larger than cache capacity")
	// ErrInvalidCapacity is wrapped by the *ConfigurationError for a non-positive capacity.
	ErrInvalidCapacity = errors.New("sizedlru: capacity must be positive")
	// ErrInvalidOverhead is wrapped by the *ConfigurationError for a negative overhead.
	ErrInvalidOverhead = errors.New("sizedlru: overhead must not be negative")
	// ErrSerialization is matched by every *SerializationError.
	ErrSerialization   = errors.New("sizedlru: cannot encode value")
	// ErrCorruption is matched by every *CorruptionError.
	ErrCorruption      = errors.New("sizedlru: cannot decode payload")
	// ErrInvariant is matched by every *InvariantViolation.
	ErrInvariant       = errors.New("sizedlru: invariant violated")
	// ErrInspectDisabled is returned by Inspect, InspectKey and Order on a
	// cache built with WithInspect(false).
	ErrInspectDisabled = errors.New("sizedlru: inspection disabled")
)

// OversizeEntryError reports a value whose cost exceeds the whole capacity.
// The cache is left unchanged.
type OversizeEntryError struct {
	Digest   digest.Token
	Cost     int
	Capacity int
}

func (e *OversizeEntryError) Error() string {
	return fmt.Sprintf("sizedlru: entry %s costs %d bytes, capacity is %d", e.Digest, e.Cost, e.Capacity)
}

func (e *OversizeEntryError) Is(target error) bool { return target == ErrOversize }

// ConfigurationError is returned by New and ParseCapacity.
type ConfigurationError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sizedlru: invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SerializationError wraps a codec failure while encoding a value in Set.
type SerializationError struct {
	Codec string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("sizedlru: %s encode: %v", e.Codec, e.Err)
}

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
func (e *SerializationError) Unwrap() error        { return e.Err }

// CorruptionError wraps a codec failure while decoding a stored payload.
type CorruptionError struct {
	Digest digest.Token
	Codec  string
	Err    error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("sizedlru: %s decode of %s: %v", e.Codec, e.Digest, e.Err)
}

func (e *CorruptionError) Is(target error) bool { return target == ErrCorruption }
func (e *CorruptionError) Unwrap() error        { return e.Err }

// InvariantViolation is returned by Validate when the recency list or the
// size ledger has drifted. It indicates a bug in this package.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "sizedlru: invariant violated: " + e.Reason
}

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariant }

func violation(format string, args ...interface{}) error {
	return &InvariantViolation{Reason: fmt.Sprintf(format, args...)}
}
