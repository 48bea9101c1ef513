package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1}

func TestArgon2HashAndVerify(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	encoded, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$v=19$m=1024,t=1,p=1$")

	ok, err := h.Verify(encoded, "Abcdef1!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(encoded, "abcdef1!")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	h := NewArgon2Hasher(testParams)
	legacy, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := h.Verify(string(legacy), "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(string(legacy), "admin124")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, h.NeedsRehash(string(legacy)))
}

func TestVerifyMalformed(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	_, err := h.Verify("not-a-hash", "x")
	assert.ErrorIs(t, err, ErrMalformedHash)

	_, err = h.Verify("$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5", "x")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestNeedsRehashOnCostChange(t *testing.T) {
	weak := NewArgon2Hasher(testParams)
	encoded, err := weak.Hash("Abcdef1!")
	require.NoError(t, err)

	assert.False(t, weak.NeedsRehash(encoded))
	assert.True(t, NewArgon2Hasher(Params{Memory: 2048, Iterations: 1, Parallelism: 1}).NeedsRehash(encoded))
}

func TestCheckStrength(t *testing.T) {
	t.Run("conforming password", func(t *testing.T) {
		assert.Empty(t, CheckStrength("Abcdef1!"))
	})

	t.Run("missing digit", func(t *testing.T) {
		unmet := CheckStrength("Abcdefg!")
		assert.Equal(t, []string{RuleNumber}, unmet)
		assert.Contains(t, unmet, "must contain at least one number")
	})

	t.Run("every rule", func(t *testing.T) {
		unmet := CheckStrength("")
		assert.ElementsMatch(t, []string{RuleMinLength, RuleUpper, RuleLower, RuleNumber, RuleSymbol}, unmet)
	})

	t.Run("short", func(t *testing.T) {
		assert.Equal(t, []string{RuleMinLength}, CheckStrength("Ab1!"))
	})
}
