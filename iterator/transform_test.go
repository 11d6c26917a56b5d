package iterator_test

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) *iterator.OrderedMap[string, int] {
	m := iterator.WithCapacity[string, int](n)
	for i := range n {
		m.Set(fmt.Sprintf("k%02d", i), i)
	}

	return m
}

func TestOrderedMap_Slice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset int
		length int
		want   []string
	}{
		{name: "middle", offset: 1, length: 2, want: []string{"b", "c"}},
		{name: "from start", offset: 0, length: 1, want: []string{"a"}},
		{name: "length past the end is clipped", offset: 2, length: 10, want: []string{"c", "d"}},
		{name: "offset past the end", offset: 10, length: 1, want: []string{}},
		{name: "offset at the end", offset: 4, length: 1, want: []string{}},
		{name: "zero length", offset: 2, length: 0, want: []string{}},
		{name: "negative offset counts from the end", offset: -2, length: 1, want: []string{"c"}},
		{name: "negative offset before the start", offset: -10, length: 2, want: []string{"a", "b"}},
		{name: "negative length stops before the end", offset: 1, length: -1, want: []string{"b", "c"}},
		{name: "negative length swallowing the range", offset: 2, length: -3, want: []string{}},
		{name: "both negative", offset: -3, length: -1, want: []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := abcd().Slice(tt.offset, tt.length)

			assert.Equal(t, tt.want, m.Keys())
			assert.Len(t, m.ToMap(), len(tt.want))
		})
	}

	t.Run("values travel with their keys", func(t *testing.T) {
		t.Parallel()

		m := abcd().Slice(1, 2)

		assert.Equal(t, []iterator.KeyValuePair[string, int]{
			{Key: "b", Value: 2},
			{Key: "c", Value: 3},
		}, m.Entries())
		assert.False(t, m.Has("a"))
		assert.False(t, m.Has("d"))
	})

	t.Run("integer keys are preserved", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(iterator.Pair(10, "x"), iterator.Pair(20, "y"), iterator.Pair(30, "z"))
		m.Slice(1, 2)

		assert.Equal(t, []int{20, 30}, m.Keys())
	})
}

func TestOrderedMap_SliceFrom(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"c", "d"}, abcd().SliceFrom(2).Keys())
	assert.Equal(t, []string{"d"}, abcd().SliceFrom(-1).Keys())
	assert.Equal(t, []string{"a", "b", "c", "d"}, abcd().SliceFrom(-10).Keys())
	assert.Empty(t, abcd().SliceFrom(4).Keys())
}

func TestOrderedMap_Shuffle(t *testing.T) {
	t.Parallel()

	t.Run("is a permutation", func(t *testing.T) {
		t.Parallel()

		original := numbered(20)
		m := original.Clone().Shuffle()

		assert.Equal(t, original.Count(), m.Count())
		assert.ElementsMatch(t, original.Keys(), m.Keys())
		assert.Equal(t, original.ToMap(), m.ToMap())
	})

	t.Run("changes the order", func(t *testing.T) {
		t.Parallel()

		original := numbered(10).Keys()
		m := numbered(10).SetRandSource(rand.NewPCG(1, 2))

		changed := false

		for range 20 {
			if !slices.Equal(original, m.Shuffle().Keys()) {
				changed = true

				break
			}
		}

		assert.True(t, changed)
	})

	t.Run("same phrase same order", func(t *testing.T) {
		t.Parallel()

		first := numbered(30).SeedFromPhrase("deck").Shuffle()
		second := numbered(30).SeedFromPhrase("deck").Shuffle()

		assert.Equal(t, first.Keys(), second.Keys())
	})

	t.Run("empty and single entry", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0, iterator.New[string, int]().Shuffle().Count())
		assert.Equal(t, []string{"only"}, iterator.New(iterator.Pair("only", 1)).Shuffle().Keys())
	})
}

func TestOrderedMap_Random(t *testing.T) {
	t.Parallel()

	t.Run("keeps n entries in their original order", func(t *testing.T) {
		t.Parallel()

		original := numbered(10)

		for seed := range uint64(25) {
			m := original.Clone().SetRandSource(rand.NewPCG(seed, seed+1))

			out, err := m.Random(4)
			require.NoError(t, err)
			require.Same(t, m, out)

			keys := m.Keys()
			require.Len(t, keys, 4)
			assert.True(t, slices.IsSorted(keys), "survivors out of order: %v", keys)

			for key, value := range m.Seq() {
				assert.Equal(t, original.GetOrElse(key, -1), value)
			}
		}
	})

	t.Run("n equal to count keeps everything", func(t *testing.T) {
		t.Parallel()

		m, err := abcd().Random(4)
		require.NoError(t, err)
		assert.Equal(t, abcd().Entries(), m.Entries())
	})

	t.Run("one entry", func(t *testing.T) {
		t.Parallel()

		m, err := abcd().SeedFromPhrase("pick").Random(1)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Count())
		assert.True(t, abcd().Has(m.Keys()[0]))
	})

	for _, n := range []int{-1, 0, 5, 100} {
		t.Run(fmt.Sprintf("invalid size %d", n), func(t *testing.T) {
			t.Parallel()

			m := abcd()

			_, err := m.Random(n)
			require.ErrorIs(t, err, iterator.ErrInvalidSampleSize)
			assert.Equal(t, abcd().Entries(), m.Entries())
		})
	}

	t.Run("empty container", func(t *testing.T) {
		t.Parallel()

		_, err := iterator.New[string, int]().Random(1)
		require.ErrorIs(t, err, iterator.ErrInvalidSampleSize)
	})
}

func TestOrderedMap_Append(t *testing.T) {
	t.Parallel()

	t.Run("follows the set rule", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(iterator.Pair("a", 1), iterator.Pair("b", 2))
		m.Append(iterator.New(iterator.Pair("b", 3), iterator.Pair("c", 4)))

		assert.Equal(t, []iterator.KeyValuePair[string, int]{
			{Key: "a", Value: 1},
			{Key: "b", Value: 3},
			{Key: "c", Value: 4},
		}, m.Entries())
	})

	t.Run("integer keys are not renumbered", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(iterator.Pair(0, "x"), iterator.Pair(1, "y"))
		m.Append(iterator.New(iterator.Pair(1, "z"), iterator.Pair(5, "w")))

		assert.Equal(t, []int{0, 1, 5}, m.Keys())
		assert.Equal(t, []string{"x", "z", "w"}, m.Values())
	})

	t.Run("appending to itself", func(t *testing.T) {
		t.Parallel()

		m := abcd()
		m.Append(m)

		assert.Equal(t, abcd().Entries(), m.Entries())
	})

	t.Run("go map in natural order", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(iterator.Pair("z", 0))
		m.AppendMap(map[string]int{"p10": 10, "p9": 9, "z": 26})

		assert.Equal(t, []string{"z", "p9", "p10"}, m.Keys())
		assert.Equal(t, 26, m.GetOrElse("z", 0))
	})

	t.Run("sequence", func(t *testing.T) {
		t.Parallel()

		m := iterator.New[string, int]()
		m.AppendSeq(abcd().Seq())

		assert.Equal(t, abcd().Entries(), m.Entries())
	})

	t.Run("nil source panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			abcd().Append(nil)
		})
	})
}

func TestOrderedMap_ReorderAndFilter(t *testing.T) {
	t.Parallel()

	t.Run("reverse", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"d", "c", "b", "a"}, abcd().Reverse().Keys())
	})

	t.Run("filter", func(t *testing.T) {
		t.Parallel()

		m := abcd().Filter(func(_ string, value int) bool { return value%2 == 0 })

		assert.Equal(t, []string{"b", "d"}, m.Keys())
		assert.False(t, m.Has("a"))
	})

	t.Run("sort by value is stable", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(
			iterator.Pair("x", 2),
			iterator.Pair("y", 1),
			iterator.Pair("z", 2),
			iterator.Pair("w", 1),
		)

		m.Sort(func(a, b iterator.KeyValuePair[string, int]) int {
			return cmp.Compare(a.Value, b.Value)
		})

		assert.Equal(t, []string{"y", "w", "x", "z"}, m.Keys())
	})

	t.Run("sort keys naturally", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(iterator.Pair("page10", 1), iterator.Pair("page2", 2), iterator.Pair("page1", 3))

		assert.Equal(t, []string{"page1", "page2", "page10"}, m.SortKeys().Keys())
	})

	t.Run("sort integer keys", func(t *testing.T) {
		t.Parallel()

		m := iterator.New(iterator.Pair(3, "c"), iterator.Pair(-1, "a"), iterator.Pair(2, "b"))

		assert.Equal(t, "a,b,c", m.SortKeys().String())
	})

	t.Run("chaining", func(t *testing.T) {
		t.Parallel()

		m := numbered(10).SeedFromPhrase("chain").Shuffle().SortKeys().Slice(2, 3)

		assert.Equal(t, "2,3,4", m.String())
		assert.True(t, strings.HasPrefix(m.Keys()[0], "k02"))
	})
}
