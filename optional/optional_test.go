package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSome(t *testing.T) {
	t.Parallel()

	opt := Some(42)
	assert.True(t, opt.NonEmpty())
	assert.False(t, opt.Empty())

	val, ok := opt.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, val)
}

func TestNone(t *testing.T) {
	t.Parallel()

	opt := None[int]()
	assert.False(t, opt.NonEmpty())
	assert.True(t, opt.Empty())

	val, ok := opt.Get()
	assert.False(t, ok)
	assert.Equal(t, 0, val)

	var zeroValue Value[string]
	assert.True(t, zeroValue.Empty())
}

func TestFromPair(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Some("a"), FromPair("a", true))
	assert.Equal(t, None[string](), FromPair("a", false))
}

func TestGetOrPanic(t *testing.T) {
	t.Parallel()

	t.Run("Some", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 42, Some(42).GetOrPanic())
	})

	t.Run("None", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			None[int]().GetOrPanic()
		})
	})
}

func TestGetOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, Some(42).GetOrElse(99))
	assert.Equal(t, 99, None[int]().GetOrElse(99))
}

func TestOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Some(1), Some(1).OrElse(Some(2)))
	assert.Equal(t, Some(2), None[int]().OrElse(Some(2)))
}

func TestAll(t *testing.T) {
	t.Parallel()

	var seen []int

	for v := range Some(7).All() {
		seen = append(seen, v)
	}

	for v := range None[int]().All() {
		seen = append(seen, v)
	}

	assert.Equal(t, []int{7}, seen)
}

func TestEquals(t *testing.T) {
	t.Parallel()

	eq := func(a, b int) bool { return a == b }

	assert.True(t, Some(1).Equals(Some(1), eq))
	assert.False(t, Some(1).Equals(Some(2), eq))
	assert.False(t, Some(1).Equals(None[int](), eq))
	assert.True(t, None[int]().Equals(None[int](), eq))
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Some(hi)", Some("hi").String())
	assert.Equal(t, "None", None[string]().String())
}

func TestMap(t *testing.T) {
	t.Parallel()

	double := func(v int) int { return v * 2 }

	assert.Equal(t, Some(4), Map(Some(2), double))
	assert.True(t, Map(None[int](), double).Empty())
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Some("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `"x"`, string(out))

	out, err = json.Marshal(None[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(map[string]Value[int]{"a": Some(1), "b": None[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":null}`, string(out))
}
