package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilCounterCountsZero(t *testing.T) {
	var c *Counter
	require.Zero(t, c.Count("hello"))
	require.Zero(t, (&Counter{}).Count("hello"))
}
