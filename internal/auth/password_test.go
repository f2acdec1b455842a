// AngelaMos | 2026
// password_test.go

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		attributes []string
		problems   int
	}{
		{
			name:     "strong password passes",
			password: "correct-horse-battery",
			problems: 0,
		},
		{
			name:     "too short",
			password: "abc1234",
			problems: 1,
		},
		{
			name:     "entirely numeric",
			password: "84712936501",
			problems: 1,
		},
		{
			name:     "too common",
			password: "password123",
			problems: 1,
		},
		{
			name:     "common is case insensitive",
			password: "PaSsWoRd123",
			problems: 1,
		},
		{
			name:       "similar to email local part",
			password:   "jane.doe42x",
			attributes: []string{"jane.doe@example.com"},
			problems:   1,
		},
		{
			name:       "similar to first name",
			password:   "xXjonathanXx",
			attributes: []string{"jane@example.com", "Jonathan", "Smith"},
			problems:   1,
		},
		{
			name:       "short attribute parts are ignored",
			password:   "bobwashere99",
			attributes: []string{"bob@x.io"},
			problems:   0,
		},
		{
			name:     "short and numeric reports both",
			password: "1234567",
			problems: 2,
		},
		{
			name:     "empty password is short but not numeric",
			password: "",
			problems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := ValidatePassword(tt.password, tt.attributes...)
			assert.Len(t, problems, tt.problems)
		})
	}
}

func TestIsEntirelyNumeric(t *testing.T) {
	assert.True(t, isEntirelyNumeric("123456"))
	assert.False(t, isEntirelyNumeric("123a456"))
	assert.False(t, isEntirelyNumeric(""))
}

func TestAttributeParts(t *testing.T) {
	parts := attributeParts("Jane.Doe@Example.com")
	assert.Contains(t, parts, "jane")
	assert.Contains(t, parts, "doe")
	assert.Contains(t, parts, "example")
	assert.Contains(t, parts, "jane.doe@example.com")

	assert.Nil(t, attributeParts("  "))
}
