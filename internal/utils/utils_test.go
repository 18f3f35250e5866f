package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvitationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateInvitationCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.True(t, ValidateInvitationCode(code, 6), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestValidateInvitationCode(t *testing.T) {
	assert.True(t, ValidateInvitationCode("AB12CD", 6))
	assert.False(t, ValidateInvitationCode("ab12cd", 6))
	assert.False(t, ValidateInvitationCode("AB12C", 6))
	assert.False(t, ValidateInvitationCode("AB-2CD", 6))
	assert.Equal(t, "AB12CD", NormalizeInvitationCode("  ab12cd "))
}

func TestGenerateRandomUser(t *testing.T) {
	user, err := GenerateRandomUser("secret", "example.com", 25)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(user.Email, "@example.com"))
	assert.NotEmpty(t, user.FirstName)
	assert.NotEmpty(t, user.LastName)
	assert.Equal(t, 25, user.AvailableDays)
	assert.NotEqual(t, "secret", user.PasswordHash)
}
