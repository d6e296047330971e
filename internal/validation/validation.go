// Package validation contains side-effect free input checks.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		`[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

const MinPasswordLength = 8

// Email is a syntactic RFC 5322 style check.
func Email(email string) bool {
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// Password requires at least MinPasswordLength characters.
func Password(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// StrongPassword additionally requires upper, lower, digit and symbol.
func StrongPassword(password string) bool {
	if !Password(password) {
		return false
	}
	return upperPattern.MatchString(password) &&
		lowerPattern.MatchString(password) &&
		digitPattern.MatchString(password) &&
		specialPattern.MatchString(password)
}

// Username allows 3 to 20 letters, digits or underscores.
func Username(username string) bool {
	return usernamePattern.MatchString(username)
}

// URL reports whether s parses as an absolute URL.
func URL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Opaque+u.Host+u.Path != ""
}

// Required reports whether v is present and not blank.
func Required(v any) bool {
	if v == nil {
		return false
	}
	return strings.TrimSpace(stringify(v)) != ""
}

// Length checks the character count of a non-empty string against optional bounds.
func Length(s string, min, max *int) bool {
	if s == "" {
		return false
	}
	n := utf8.RuneCountInString(s)
	if min != nil && n < *min {
		return false
	}
	if max != nil && n > *max {
		return false
	}
	return true
}

// NumberRange checks that v is numeric and within optional bounds.
func NumberRange(v any, min, max *float64) bool {
	n, ok := number(v)
	if !ok {
		return false
	}
	if min != nil && n < *min {
		return false
	}
	if max != nil && n > *max {
		return false
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		return n, err == nil
	}
	return 0, false
}
