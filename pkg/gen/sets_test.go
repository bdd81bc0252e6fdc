package gen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDifference(t *testing.T) {
	a := map[string]int{"a": 1, "b": 2, "c": 3}
	b := map[string]bool{"a": true, "c": true, "d": true}
	require.Equal(t, []string{"b"}, Difference(a, b))
	require.Equal(t, []string{"d"}, Difference(b, a))
	require.Equal(t, []string{}, Difference(a, a))
	require.Equal(t, []string{"a", "b", "c"}, SortedKeys(a))
}

func TestParseIntSet(t *testing.T) {
	s, err := ParseIntSet([]string{"0", "3", "3", "12"})
	require.NoError(t, err)
	require.Len(t, s, 3)
	require.True(t, s.Contains(12))
	require.False(t, s.Contains(1))

	_, err = ParseIntSet([]string{"1", "two"})
	require.Error(t, err)
}
