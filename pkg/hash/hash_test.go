package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("rahasia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", h)

	assert.True(t, CheckPassword(h, "rahasia123"))
	assert.False(t, CheckPassword(h, "rahasia124"))
	assert.False(t, CheckPassword("not-a-hash", "rahasia123"))
}
