// Package hashing provides content digests for values that can feed a hash.Hash,
// plus seed derivation for reproducible random sources.
package hashing

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"github.com/OneOfOne/xxhash"
	"github.com/zeebo/xxh3"
)

// HashFunc is a function that takes a Hashable object
// and returns a string representation of its hashing.
// As an example, the Sha256 function is a HashFunc.
// This lets us talk about hashing functions in a generic way.
type HashFunc func(hashable Hashable) (string, error)

// Hashable is an interface that allows an object to update
// a hash.Hash with its contents.
type Hashable interface {
	UpdateHash(h hash.Hash) error
}

// Sha256 returns the hex-encoded SHA-256 digest of the given Hashable.
func Sha256(hashable Hashable) (string, error) {
	return digest(sha256.New(), hashable)
}

// XXH3 returns the hex-encoded 64-bit XXH3 digest of the given Hashable.
// It is much faster than Sha256 and is meant for change detection, not security.
func XXH3(hashable Hashable) (string, error) {
	return digest(xxh3.New(), hashable)
}

// XXHash64 returns the hex-encoded 64-bit xxHash digest of the given Hashable.
func XXHash64(hashable Hashable) (string, error) {
	return digest(xxhash.New64(), hashable)
}

func digest(h hash.Hash, hashable Hashable) (string, error) {
	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Seed derives a pair of 64-bit seeds from a string, suitable for rand.NewPCG.
// The same phrase always yields the same pair.
func Seed(phrase string) (uint64, uint64) {
	sum := xxh3.HashString128(phrase)

	return sum.Hi, sum.Lo
}

// HashableString is a string that can be hashed.
type HashableString string

func (s HashableString) String() string {
	return string(s)
}

func (s HashableString) UpdateHash(h hash.Hash) error {
	_, err := h.Write([]byte(s))

	return err
}

func (s HashableString) Equals(other HashableString) bool {
	return s == other
}

// HashableBytes is a byte slice that can be hashed.
type HashableBytes []byte

func (b HashableBytes) UpdateHash(h hash.Hash) error {
	_, err := h.Write(b)

	return err
}

// HashableInt64 hashes its big-endian encoding.
type HashableInt64 int64

func (i HashableInt64) UpdateHash(h hash.Hash) error {
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], uint64(i))

	_, err := h.Write(buf[:])

	return err
}
