package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-bot/internal/validate"
)

func TestEmail(t *testing.T) {
	valid := []string{
		"tj@gmail.com",
		"first.last@sub.example.co",
		"user+tag@example.io",
	}
	for _, addr := range valid {
		assert.NoError(t, validate.Email(addr), addr)
	}

	invalid := []string{
		"",
		"   ",
		"plainaddress",
		"missing@domain",
		"two@@example.com",
		"a@b@c.com",
		"@example.com",
		"user@.com",
	}
	for _, addr := range invalid {
		assert.Error(t, validate.Email(addr), "%q", addr)
	}
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, validate.NonEmpty("company name", "Acme"))
	err := validate.NonEmpty("company name", "  ")
	assert.ErrorContains(t, err, "company name")
}

func TestFeatures(t *testing.T) {
	assert.NoError(t, validate.Features([]string{"Copilot", "MAP"}))
	assert.Error(t, validate.Features(nil))
	assert.Error(t, validate.Features([]string{"Copilot", " "}))
}
