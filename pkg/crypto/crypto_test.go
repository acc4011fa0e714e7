package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPasswordWithCost("secret", bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, VerifyPassword(hash, "secret"))
	require.False(t, VerifyPassword(hash, "incorrect"))
	require.True(t, IsHash(hash))
}

func TestHashPasswordUsesDefaultCost(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPasswordWithCost("secret", 1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	_, err := HashPasswordWithCost(strings.Repeat("a", MaxPasswordBytes+1), bcrypt.MinCost)
	require.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPasswordWithCost(strings.Repeat("a", MaxPasswordBytes), bcrypt.MinCost)
	require.NoError(t, err)
}

func TestIsHashRejectsPlaintext(t *testing.T) {
	require.False(t, IsHash("secret"))
}

func TestBurnVerificationNeverSucceeds(t *testing.T) {
	require.False(t, BurnVerification("unknown-identity"))
	require.False(t, BurnVerification("anything"))
}
