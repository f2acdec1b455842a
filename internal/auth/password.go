// AngelaMos | 2026
// password.go

package auth

import (
	"strings"
)

const minPasswordLength = 8

// commonPasswords is a short denylist of the most frequently seen
// passwords. A full corpus is overkill for an API that also enforces
// length and similarity rules.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"iloveyou":    {},
	"admin123":    {},
	"letmein1":    {},
	"welcome1":    {},
	"sunshine":    {},
	"football":    {},
	"superman":    {},
	"princess":    {},
	"dragon123":   {},
	"monkey123":   {},
	"baseball":    {},
	"trustno1":    {},
	"master123":   {},
	"shadow123":   {},
	"michael1":    {},
	"jennifer":    {},
	"computer":    {},
	"whatever":    {},
	"starwars":    {},
	"charlie1":    {},
	"aa123456":    {},
	"abc12345":    {},
	"password!":   {},
	"p@ssw0rd":    {},
	"qwertyuiop":  {},
	"1q2w3e4r":    {},
	"asdfghjkl":   {},
	"zaq12wsx":    {},
}

// ValidatePassword applies the registration password policy: minimum
// length, not entirely numeric, not a known-common password, and not too
// similar to the user's own attributes (email and names). It returns
// every violated rule so the client can show them all at once.
func ValidatePassword(password string, attributes ...string) []string {
	var problems []string

	if len(password) < minPasswordLength {
		problems = append(problems, "this password is too short; it must contain at least 8 characters")
	}

	if isEntirelyNumeric(password) {
		problems = append(problems, "this password is entirely numeric")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "this password is too common")
	}

	if similarToAttributes(password, attributes) {
		problems = append(problems, "this password is too similar to your personal information")
	}

	return problems
}

func isEntirelyNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// similarToAttributes checks the password against each attribute and the
// word-like chunks inside it (an email splits at '@' and '.'). Matching
// direction runs both ways: a password hiding inside an attribute is as
// weak as an attribute hiding inside the password.
func similarToAttributes(password string, attributes []string) bool {
	lowered := strings.ToLower(password)

	for _, attr := range attributes {
		for _, part := range attributeParts(attr) {
			if len(part) < 4 {
				continue
			}
			if strings.Contains(lowered, part) ||
				strings.Contains(part, lowered) {
				return true
			}
		}
	}

	return false
}

func attributeParts(attr string) []string {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if attr == "" {
		return nil
	}

	parts := strings.FieldsFunc(attr, func(r rune) bool {
		return r == '@' || r == '.' || r == '-' || r == '_' || r == '+'
	})

	return append(parts, attr)
}
