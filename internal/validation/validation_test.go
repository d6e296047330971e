package validation

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"peter@dailybugle.com", true},
		{"may.parker+aunt@queens.ny.us", true},
		{"a@b", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@signs.com", false},
		{"trailing@dash-.com", false},
		{"space in@mail.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestPassword(t *testing.T) {
	assert.False(t, Password(""))
	assert.False(t, Password("1234567"))
	assert.True(t, Password("12345678"))
	assert.True(t, Password("ünïcödé!"))
}

func TestStrongPassword(t *testing.T) {
	assert.False(t, StrongPassword("short1A!"[:7]))
	assert.False(t, StrongPassword("alllowercase1!"))
	assert.False(t, StrongPassword("ALLUPPERCASE1!"))
	assert.False(t, StrongPassword("NoDigitsHere!"))
	assert.False(t, StrongPassword("NoSymbols123"))
	assert.True(t, StrongPassword("Web$linger42"))
}

func TestUsername(t *testing.T) {
	assert.True(t, Username("peter_parker"))
	assert.True(t, Username("abc"))
	assert.True(t, Username("a2345678901234567890"))
	assert.False(t, Username("ab"))
	assert.False(t, Username("a23456789012345678901"))
	assert.False(t, Username("spider-man"))
	assert.False(t, Username(""))
}

func TestURL(t *testing.T) {
	assert.True(t, URL("https://example.com/path"))
	assert.True(t, URL("mailto:peter@example.com"))
	assert.False(t, URL(""))
	assert.False(t, URL("not a url"))
}

func TestRequired(t *testing.T) {
	assert.False(t, Required(nil))
	assert.False(t, Required(""))
	assert.False(t, Required("   "))
	assert.True(t, Required("x"))
	assert.True(t, Required(false))
	assert.True(t, Required(0.0))
}

func TestLengthAndRange(t *testing.T) {
	assert.True(t, Length("abc", Ref(1), Ref(3)))
	assert.False(t, Length("abcd", Ref(1), Ref(3)))
	assert.False(t, Length("", nil, nil))

	assert.True(t, NumberRange("5", Ref(1.0), Ref(10.0)))
	assert.False(t, NumberRange(11.0, nil, Ref(10.0)))
	assert.False(t, NumberRange("five", nil, nil))
	assert.False(t, NumberRange(nil, nil, nil))
}

func TestValidateForm(t *testing.T) {
	schema := Schema{
		"username": {Required: true, MinLength: Ref(3), MaxLength: Ref(20), Pattern: regexp.MustCompile(`^\w+$`), PatternError: "letters only"},
		"email":    {Required: true, Type: TypeEmail},
		"age":      {Type: TypeInteger, Min: Ref(13.0)},
		"website":  {Type: TypeURL},
		"confirm": {Validate: func(v any, data map[string]any) string {
			if v != data["password"] {
				return "passwords do not match"
			}
			return ""
		}},
	}

	t.Run("valid", func(t *testing.T) {
		res := ValidateForm(map[string]any{
			"username": "peter",
			"email":    "peter@example.com",
			"age":      18.0,
			"password": "x",
			"confirm":  "x",
		}, schema)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("errors per field", func(t *testing.T) {
		res := ValidateForm(map[string]any{
			"username": "p!",
			"email":    "nope",
			"age":      12.5,
			"password": "x",
			"confirm":  "y",
		}, schema)
		assert.False(t, res.Valid)
		assert.Equal(t, "username must be between 3 and 20 characters", res.Errors["username"])
		assert.Equal(t, "email is not a valid email", res.Errors["email"])
		assert.Equal(t, "age is not a valid integer", res.Errors["age"])
		assert.Equal(t, "passwords do not match", res.Errors["confirm"])
		assert.NotContains(t, res.Errors, "website")
	})

	t.Run("required wins over later rules", func(t *testing.T) {
		res := ValidateForm(map[string]any{}, schema)
		assert.Equal(t, "username is required", res.Errors["username"])
		assert.Equal(t, "email is required", res.Errors["email"])
		assert.Len(t, res.Errors, 2)
	})

	t.Run("pattern error message", func(t *testing.T) {
		res := ValidateForm(map[string]any{"username": "pe ter", "email": "a@b.co"}, schema)
		assert.Equal(t, "letters only", res.Errors["username"])
	})

	t.Run("range message", func(t *testing.T) {
		res := ValidateForm(map[string]any{"username": "peter", "email": "a@b.co", "age": 10.0}, schema)
		assert.Equal(t, "age must be at least 13", res.Errors["age"])
	})
}
