package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	code := RandomNumbers(6)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	tok := RandomString(32)
	assert.Len(t, tok, 32)
	assert.NotEqual(t, tok, RandomString(32))
	assert.Equal(t, "", RandomString(0))
}

func TestEncryptTextSHA512(t *testing.T) {
	h := EncryptTextSHA512("abc")
	assert.Len(t, h, 128)
	assert.Equal(t, h, EncryptTextSHA512("abc"))
	assert.NotEqual(t, h, EncryptTextSHA512("abd"))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidateEmail("ana@example.com"))
	assert.False(t, ValidateEmail("ana@"))
	assert.True(t, ValidateUsername("ana_92"))
	assert.False(t, ValidateUsername("a"))
	assert.False(t, ValidateUsername("has space"))
	assert.Equal(t, "password", CheckPassword("short"))
	assert.Equal(t, "", CheckPassword("long enough"))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := PasswordMatches(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = PasswordMatches(hash, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = PasswordMatches("not-a-hash", "x")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "intro-to-go", Slugify("", "Intro to Go"))
	assert.Equal(t, "custom", Slugify("Custom", "Intro to Go"))
	assert.True(t, IsSlug("intro-to-go"))
	assert.False(t, IsSlug("Intro to Go"))
}
