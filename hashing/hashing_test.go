package hashing

import (
	"errors"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBrokenHashable = errors.New("broken hashable")

type brokenHashable struct{}

func (brokenHashable) UpdateHash(hash.Hash) error {
	return errBrokenHashable
}

func TestSha256(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    Hashable
		expected string
	}{
		{
			name:     "empty string",
			input:    HashableString(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple string",
			input:    HashableString("hello"),
			expected: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name:     "simple bytes",
			input:    HashableBytes([]byte("hello")),
			expected: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := Sha256(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFastHashes(t *testing.T) {
	t.Parallel()

	for name, fn := range map[string]HashFunc{"xxh3": XXH3, "xxhash64": XXHash64} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first, err := fn(HashableString("hello"))
			require.NoError(t, err)
			assert.Len(t, first, 16)

			again, err := fn(HashableString("hello"))
			require.NoError(t, err)
			assert.Equal(t, first, again)

			other, err := fn(HashableString("world"))
			require.NoError(t, err)
			assert.NotEqual(t, first, other)

			_, err = fn(brokenHashable{})
			require.ErrorIs(t, err, errBrokenHashable)
		})
	}
}

func TestHashableInt64(t *testing.T) {
	t.Parallel()

	a, err := Sha256(HashableInt64(1))
	require.NoError(t, err)

	b, err := Sha256(HashableInt64(256))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSeed(t *testing.T) {
	t.Parallel()

	hi1, lo1 := Seed("deck")
	hi2, lo2 := Seed("deck")
	hi3, lo3 := Seed("other deck")

	assert.Equal(t, hi1, hi2)
	assert.Equal(t, lo1, lo2)
	assert.False(t, hi1 == hi3 && lo1 == lo3)
}

func TestHashableStringEquals(t *testing.T) {
	t.Parallel()

	assert.True(t, HashableString("a").Equals("a"))
	assert.False(t, HashableString("a").Equals("b"))
	assert.Equal(t, "a", HashableString("a").String())
}
