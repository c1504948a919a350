package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapabilityKey(t *testing.T) {
	first, err := NewCapabilityKey()
	require.NoError(t, err)
	second, err := NewCapabilityKey()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashCapabilityKeyIsStable(t *testing.T) {
	raw, err := NewCapabilityKey()
	require.NoError(t, err)

	assert.Equal(t, HashCapabilityKey(raw), HashCapabilityKey(raw))
	assert.NotEqual(t, raw, HashCapabilityKey(raw))
	assert.Len(t, HashCapabilityKey(raw), 64)
}
