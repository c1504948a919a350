package identifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid("acct-1"))
	assert.True(t, Valid("grp-A"))
	assert.True(t, Valid(strings.Repeat("a", MaxLen)))

	assert.False(t, Valid(""))
	assert.False(t, Valid(strings.Repeat("a", MaxLen+1)))
	assert.False(t, Valid("has space"))
	assert.False(t, Valid("tab\tid"))
	assert.False(t, Valid("non-ascii-é"))
	assert.False(t, Valid("ctrl\x01"))
}
