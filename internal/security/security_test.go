package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	salt, digest, ok := strings.Cut(hash, ":")
	require.True(t, ok)
	assert.Len(t, salt, 32)
	assert.Len(t, digest, 64)
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)

	other, err := HashPassword("another-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		stored   string
		want     bool
	}{
		{"correct password", "testpassword123", hash, true},
		{"wrong password", "wrongpassword", hash, false},
		{"empty password", "", hash, false},
		{"hash of other password", "testpassword123", other, false},
		{"no separator", "testpassword123", "abcdef", false},
		{"bad salt hex", "testpassword123", "zz:abcd", false},
		{"empty digest", "testpassword123", "abcd:", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.password, tt.stored))
		})
	}
}

func TestVerifyPassword_KnownVector(t *testing.T) {
	// salt 00..0f, sha256(salt || "secret")
	stored := "000102030405060708090a0b0c0d0e0f:" + digest([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, "secret")
	assert.True(t, VerifyPassword("secret", stored))
	assert.False(t, VerifyPassword("Secret", stored))
}

func TestHasher(t *testing.T) {
	for _, scheme := range []Scheme{SchemeSHA256, SchemeBcrypt} {
		t.Run(string(scheme), func(t *testing.T) {
			h := NewHasher(scheme)
			stored, err := h.Hash("hunter2hunter2")
			require.NoError(t, err)
			assert.True(t, h.Verify("hunter2hunter2", stored))
			assert.False(t, h.Verify("hunter3hunter3", stored))
		})
	}
}

func TestHasher_VerifiesEitherScheme(t *testing.T) {
	legacy, err := NewHasher(SchemeSHA256).Hash("password1")
	require.NoError(t, err)
	modern, err := NewHasher(SchemeBcrypt).Hash("password1")
	require.NoError(t, err)

	h := NewHasher(SchemeBcrypt)
	assert.True(t, h.Verify("password1", legacy))
	assert.True(t, h.Verify("password1", modern))
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeSHA256, s)

	s, err = ParseScheme("BCRYPT")
	require.NoError(t, err)
	assert.Equal(t, SchemeBcrypt, s)

	_, err = ParseScheme("md5")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestGenerateToken(t *testing.T) {
	t1, err := GenerateToken()
	require.NoError(t, err)
	t2, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, t1, 128)
	assert.NotEqual(t, t1, t2)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "", SanitizeString(""))
	assert.Equal(t, "hello", SanitizeString("hello"))
	assert.Equal(t,
		"&lt;script&gt;alert(&quot;x&quot;) &amp; &#039;y&#039;&lt;/script&gt;",
		SanitizeString(`<script>alert("x") & 'y'</script>`))
}
