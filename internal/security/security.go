// Package security holds password hashing, session token generation and
// output sanitising.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	saltSize  = 16
	tokenSize = 64
)

// Scheme names a password hashing scheme.
type Scheme string

const (
	// SchemeSHA256 stores hex(salt):hex(sha256(salt||password)).
	// It applies a single digest pass and is kept for compatibility with
	// existing credentials.
	SchemeSHA256 Scheme = "sha256"
	// SchemeBcrypt stores a bcrypt hash.
	SchemeBcrypt Scheme = "bcrypt"
)

// ErrUnknownScheme is returned for an unsupported scheme name.
var ErrUnknownScheme = errors.New("unknown password scheme")

// ParseScheme validates a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeSHA256, "":
		return SchemeSHA256, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Hasher hashes new passwords with one scheme and verifies stored values of
// any supported scheme.
type Hasher struct {
	scheme Scheme
}

func NewHasher(scheme Scheme) *Hasher {
	if scheme == "" {
		scheme = SchemeSHA256
	}
	return &Hasher{scheme: scheme}
}

// Hash returns the stored form of password.
func (h *Hasher) Hash(password string) (string, error) {
	if h.scheme == SchemeBcrypt {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	}
	return HashPassword(password)
}

// Verify reports whether password matches stored, whichever scheme produced it.
func (h *Hasher) Verify(password, stored string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return VerifyPassword(password, stored)
}

// HashPassword salts and digests password in the salt:digest hex format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(salt) + ":" + digest(salt, password), nil
}

// VerifyPassword recomputes the digest over the stored salt and compares the
// hex strings. Malformed stored values never verify.
func VerifyPassword(password, stored string) bool {
	saltHex, want, ok := strings.Cut(stored, ":")
	if !ok || want == "" {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	return digest(salt, password) == want
}

func digest(salt []byte, password string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateToken returns 64 random bytes hex encoded.
func GenerateToken() (string, error) {
	b := make([]byte, tokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// SanitizeString escapes HTML metacharacters.
func SanitizeString(s string) string {
	return htmlEscaper.Replace(s)
}
