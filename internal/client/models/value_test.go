package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_RoundTrip(t *testing.T) {
	raw := []byte(`{"a": 1, "b": [true, null, "x"]}`)

	var v Value
	require.NoError(t, json.Unmarshal(raw, &v))

	obj, ok := v.Object()
	require.True(t, ok)

	a, ok := obj["a"].Int()
	require.True(t, ok)
	assert.Equal(t, int64(1), a)

	arr, ok := obj["b"].Array()
	require.True(t, ok)
	require.Len(t, arr, 3)

	b0, ok := arr[0].Bool()
	require.True(t, ok)
	assert.True(t, b0)
	assert.Equal(t, KindNull, arr[1].Kind())
	s, ok := arr[2].Text()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	// encode then decode again: same keys, same scalar values at each path
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	var again Value
	require.NoError(t, json.Unmarshal(encoded, &again))
	obj2, ok := again.Object()
	require.True(t, ok)
	a2, _ := obj2["a"].Int()
	assert.Equal(t, int64(1), a2)
	arr2, _ := obj2["b"].Array()
	require.Len(t, arr2, 3)
}

func TestValue_NumberKinds(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`42`), &v))
	assert.Equal(t, KindInt, v.Kind())

	require.NoError(t, json.Unmarshal([]byte(`0.5`), &v))
	assert.Equal(t, KindFloat, v.Kind())

	require.NoError(t, json.Unmarshal([]byte(`1e3`), &v))
	assert.Equal(t, KindFloat, v.Kind())
}

func TestValue_ShallowEquality(t *testing.T) {
	// arrays compare by length, not contents
	a1 := ArrayValue([]Value{IntValue(1), IntValue(2)})
	a2 := ArrayValue([]Value{StringValue("x"), BoolValue(false)})
	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(ArrayValue([]Value{IntValue(1)})))

	// objects compare by key set, not values
	o1 := ObjectValue(map[string]Value{"a": IntValue(1), "b": NullValue()})
	o2 := ObjectValue(map[string]Value{"a": StringValue("?"), "b": FloatValue(2)})
	assert.True(t, o1.Equal(o2))
	assert.False(t, o1.Equal(ObjectValue(map[string]Value{"a": IntValue(1), "c": NullValue()})))

	// scalars compare by value, and kinds never cross
	assert.True(t, IntValue(3).Equal(IntValue(3)))
	assert.False(t, IntValue(3).Equal(FloatValue(3)))
	assert.False(t, NullValue().Equal(BoolValue(false)))
}
