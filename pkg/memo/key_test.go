package memo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/memocache/pkg/memo"
)

// TestDefaultKeyDeterministic verifies structurally equal arguments always
// derive the same key.
func TestDefaultKeyDeterministic(t *testing.T) {
	type query struct {
		Region string
		IDs    []int
		Tags   map[string]string
	}

	args := query{
		Region: "us-east-1",
		IDs:    []int{3, 1, 2},
		Tags:   map[string]string{"env": "prod", "team": "core"},
	}

	first, err := memo.DefaultKey(args)
	require.NoError(t, err)
	second, err := memo.DefaultKey(args)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^[0-9a-f]{64}$`, first)
}

// TestDefaultKeyMapOrderInsensitive verifies map construction order does not
// leak into the key.
func TestDefaultKeyMapOrderInsensitive(t *testing.T) {
	a := map[string]int{"alpha": 1, "beta": 2, "gamma": 3}
	b := map[string]int{"gamma": 3, "alpha": 1, "beta": 2}

	keyA, err := memo.DefaultKey(a)
	require.NoError(t, err)
	keyB, err := memo.DefaultKey(b)
	require.NoError(t, err)

	assert.Equal(t, keyA, keyB)
}

// TestDefaultKeyDistinguishesArguments verifies differing arguments derive
// differing keys.
func TestDefaultKeyDistinguishesArguments(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
	}{
		{
			name: "different values",
			a:    []string{"x", "y"},
			b:    []string{"x", "z"},
		},
		{
			name: "different order",
			a:    []int{1, 2, 3},
			b:    []int{3, 2, 1},
		},
		{
			name: "different length",
			a:    []int{1, 2},
			b:    []int{1, 2, 2},
		},
		{
			name: "different nesting",
			a:    map[string]any{"a": map[string]int{"b": 1}},
			b:    map[string]any{"a": map[string]int{"b": 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA, err := memo.DefaultKey(tt.a)
			require.NoError(t, err)
			keyB, err := memo.DefaultKey(tt.b)
			require.NoError(t, err)
			assert.NotEqual(t, keyA, keyB)
		})
	}
}

// TestDefaultKeyUnserializable verifies non-serializable arguments are
// rejected.
func TestDefaultKeyUnserializable(t *testing.T) {
	_, err := memo.DefaultKey(make(chan int))
	assert.Error(t, err)
}
