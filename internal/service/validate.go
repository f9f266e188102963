package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLen = 6
	minUsernameLen = 3
)

// checker wraps a validator instance; validator.Validate caches parsed tags
// and is safe for concurrent use.
type checker struct {
	v *validator.Validate
}

func newChecker() *checker {
	return &checker{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (c *checker) email(s string) bool {
	return c.v.Var(s, "required,email") == nil
}

// httpURL accepts absolute http and https URLs with a host.
func (c *checker) httpURL(s string) bool {
	return c.v.Var(s, "required,http_url") == nil
}

// username accepts unicode letters and digits only.
func (c *checker) username(s string) bool {
	return !strings.ContainsRune(s, ' ') && c.v.Var(s, "required,alphanumunicode") == nil
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
