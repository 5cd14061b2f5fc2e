package trustpilot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueUnmarshal(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"a": [1, "two", {"b": true}], "c": null}`), &v)
	require.NoError(t, err)

	require.NotNil(t, v.Object)
	require.Len(t, v.Object["a"].Array, 3)
	require.Equal(t, float64(1), v.Object["a"].Array[0].Scalar)
	require.Equal(t, "two", v.Object["a"].Array[1].Scalar)
	require.Equal(t, true, v.Object["a"].Array[2].Object["b"].Scalar)
	require.Nil(t, v.Object["c"].Scalar)
}

func TestFindKeyNested(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{
		"@graph": [
			{"@type": "Organization", "name": "Acme"},
			{"@type": "AggregateRating", "aggregateRating": {"ratingValue": "4.6", "reviewCount": 16726}}
		]
	}`), &v)
	require.NoError(t, err)

	found, ok := v.FindKey("ratingValue")
	require.True(t, ok)
	require.Equal(t, "4.6", found.Scalar)

	_, ok = v.FindKey("doesNotExist")
	require.False(t, ok)
}

func TestFindKeyTopLevel(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"ratingValue": 4.2}`), &v)
	require.NoError(t, err)

	found, ok := v.FindKey("ratingValue")
	require.True(t, ok)
	require.Equal(t, 4.2, found.Scalar)
}
