// Package validate checks emails, usernames and passwords against simple
// structural rules. Every function is a pure predicate: value problems
// return false, only malformed rule parameters return an error.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/containerd/errdefs"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"

	// DefaultSpecialChars is the special class used when none is configured.
	DefaultSpecialChars = "!@#$%^&*"
)

// username length bounds applied when the caller has no preference.
const (
	DefaultUsernameMinLen = 3
	DefaultUsernameMaxLen = 20
)

const defaultPasswordMinLen = 8

// Email reports whether s has exactly one '@' separating a non-empty local
// part from a non-empty domain containing '.', and neither starts nor ends
// with '@' or '.'.
func Email(s string) bool {
	return validation.Validate(s, validation.Required, validation.By(emailShape)) == nil
}

func emailShape(value any) error {
	s, err := validation.EnsureString(value)
	if err != nil {
		return err
	}
	if strings.Count(s, "@") != 1 {
		return errors.New("must contain exactly one '@'")
	}

	local, domain, _ := strings.Cut(s, "@")
	if local == "" || domain == "" {
		return errors.New("local part and domain must not be empty")
	}
	if !strings.Contains(domain, ".") {
		return errors.New("domain must contain '.'")
	}

	const edge = "@."
	if strings.ContainsRune(edge, rune(s[0])) || strings.ContainsRune(edge, rune(s[len(s)-1])) {
		return errors.New("must not start or end with '@' or '.'")
	}
	return nil
}

// Username reports whether s is between minLen and maxLen characters long,
// uses only ASCII letters, digits, '_' and '.', and is not all digits.
func Username(s string, minLen, maxLen int) (bool, error) {
	failures, err := UsernameFailures(s, minLen, maxLen)
	if err != nil {
		return false, err
	}
	return len(failures) == 0, nil
}

var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// UsernameFailures lists the username rules s breaks. An empty list means s
// is valid.
func UsernameFailures(s string, minLen, maxLen int) ([]string, error) {
	if minLen < 1 {
		return nil, fmt.Errorf("%w: min length must be at least 1, got %d", errdefs.ErrInvalidArgument, minLen)
	}
	if maxLen < minLen {
		return nil, fmt.Errorf("%w: max length %d below min length %d", errdefs.ErrInvalidArgument, maxLen, minLen)
	}

	length := fmt.Sprintf("length must be %d-%d", minLen, maxLen)
	return failures(s,
		// RuneLength passes empty values, so Required carries the same message
		[]validation.Rule{
			validation.Required.Error(length),
			validation.RuneLength(minLen, maxLen).Error(length),
		},
		[]validation.Rule{
			validation.Match(usernameCharset).Error("only letters, digits, '_' and '.' allowed"),
		},
		[]validation.Rule{
			validation.By(notAllDigits),
		},
	), nil
}

func notAllDigits(value any) error {
	s, err := validation.EnsureString(value)
	if err != nil {
		return err
	}
	if s != "" && strings.Trim(s, digitChars) == "" {
		return errors.New("must not be all digits")
	}
	return nil
}

// PasswordRules configures Password.
type PasswordRules struct {
	MinLen         int
	RequireLower   bool
	RequireUpper   bool
	RequireDigits  bool
	RequireSpecial bool
	SpecialChars   string
}

// DefaultPasswordRules requires 8 characters with lower, upper and digit.
func DefaultPasswordRules() PasswordRules {
	return PasswordRules{
		MinLen:        defaultPasswordMinLen,
		RequireLower:  true,
		RequireUpper:  true,
		RequireDigits: true,
		SpecialChars:  DefaultSpecialChars,
	}
}

// Password reports whether s satisfies r.
func Password(s string, r PasswordRules) (bool, error) {
	failures, err := PasswordFailures(s, r)
	if err != nil {
		return false, err
	}
	return len(failures) == 0, nil
}

// PasswordFailures lists the rules in r that s breaks, in a fixed order:
// length, lowercase, uppercase, digit, special.
func PasswordFailures(s string, r PasswordRules) ([]string, error) {
	if r.MinLen < 1 {
		return nil, fmt.Errorf("%w: min length must be positive, got %d", errdefs.ErrInvalidArgument, r.MinLen)
	}

	length := fmt.Sprintf("at least %d characters", r.MinLen)
	return failures(s,
		[]validation.Rule{
			validation.Required.Error(length),
			validation.RuneLength(r.MinLen, 0).Error(length),
		},
		[]validation.Rule{validation.When(r.RequireLower, containsAny(lowerChars, "needs a lowercase letter"))},
		[]validation.Rule{validation.When(r.RequireUpper, containsAny(upperChars, "needs an uppercase letter"))},
		[]validation.Rule{validation.When(r.RequireDigits, containsAny(digitChars, "needs a digit"))},
		[]validation.Rule{validation.When(r.RequireSpecial, containsAny(r.SpecialChars, "needs a special character"))},
	), nil
}

// containsAny fails unless the value holds at least one rune of pool.
func containsAny(pool, msg string) validation.Rule {
	return validation.By(func(value any) error {
		s, err := validation.EnsureString(value)
		if err != nil {
			return err
		}
		if !strings.ContainsAny(s, pool) {
			return errors.New(msg)
		}
		return nil
	})
}

// failures runs each rule group on its own and collects the message of every
// group that fails, so callers see all broken rules at once.
func failures(s string, groups ...[]validation.Rule) []string {
	var out []string
	for _, rules := range groups {
		if err := validation.Validate(s, rules...); err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}
