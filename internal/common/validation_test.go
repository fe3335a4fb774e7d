package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("holden"))
	assert.NoError(t, ValidateUsername("user_42"))

	assert.Error(t, ValidateUsername("ab"), "too short")
	assert.Error(t, ValidateUsername(strings.Repeat("a", 51)), "too long")
	assert.Error(t, ValidateUsername("bad name"), "space")
	assert.Error(t, ValidateUsername("bad!name"), "punctuation")
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Password123"))

	assert.Error(t, ValidatePassword("abc"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 101)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("holden@example.com"))
	assert.NoError(t, ValidateEmail("  HOLDEN@Example.COM  "), "case and whitespace normalized")
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co"))

	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail(""))
}

func TestCheckField(t *testing.T) {
	assert.True(t, CheckField("Montana"))

	assert.False(t, CheckField(""))
	assert.False(t, CheckField("   "))
	assert.False(t, CheckField(strings.Repeat("a", 256)))
	assert.False(t, CheckField("line\nbreak"))
}

func TestCheckFields(t *testing.T) {
	assert.True(t, CheckFields("holden", "Password123"))
	assert.False(t, CheckFields("holden", ""))
}
