package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"ada@school.example", "first.last@example.co.uk"}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{"", "not-an-email", "missing@domain @space.com", "a b@c.com"}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsComplexPassword(t *testing.T) {
	assert.True(t, IsComplexPassword("Str0ng!pass"))

	weak := []string{
		"short1!A",     // just long enough, actually valid
		"alllowercase", // no upper, digit, special
		"ALLUPPER123!", // no lower
		"NoDigits!!",   // no number
		"NoSpecial12",  // no special
		"Ab1!",         // too short
	}
	assert.True(t, IsComplexPassword(weak[0]))
	for _, password := range weak[1:] {
		assert.False(t, IsComplexPassword(password), password)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	assert.NoError(t, err)
	b, err := GenerateSecureToken(32)
	assert.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
