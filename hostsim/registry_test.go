package hostsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register("", func(*Call) int32 { return 0 }))
	assert.Error(t, r.Register("GetState", nil))

	require.NoError(t, r.Register("b", func(*Call) int32 { return 1 }))
	require.NoError(t, r.Register("a", func(*Call) int32 { return 2 }))
	require.NoError(t, r.Register("b", func(*Call) int32 { return 3 }))

	h, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, int32(3), h(nil), "re-registration replaces the handler")

	_, ok = r.Lookup("c")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, r.Methods())
}
