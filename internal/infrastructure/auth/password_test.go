package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("gunes-enerjisi")
	require.NoError(t, err)
	assert.NotEqual(t, "gunes-enerjisi", hash)

	assert.True(t, VerifyPassword(hash, "gunes-enerjisi"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", "gunes-enerjisi"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "gunes-enerjisi"))
}
