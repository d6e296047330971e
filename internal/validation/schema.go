package validation

import (
	"fmt"
	"math"
	"regexp"
)

// FieldType is a type constraint checked before length and range rules.
type FieldType string

const (
	TypeEmail   FieldType = "email"
	TypeURL     FieldType = "url"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
)

// Rule constrains one field. Rules are checked in order required, type,
// length, range, pattern, custom; the first failing rule sets the field's
// error and the remaining rules are skipped.
type Rule struct {
	Required     bool
	Type         FieldType
	MinLength    *int
	MaxLength    *int
	Min          *float64
	Max          *float64
	Pattern      *regexp.Regexp
	PatternError string
	// Validate returns "" when the value is acceptable, otherwise the message.
	Validate func(value any, data map[string]any) string
}

// Schema maps field names to rules.
type Schema map[string]Rule

// Result aggregates field errors.
type Result struct {
	Valid  bool              `json:"isValid"`
	Errors map[string]string `json:"errors"`
}

// Ref returns a pointer to v, for the optional bounds of a Rule.
func Ref[T any](v T) *T { return &v }

// ValidateForm checks data against schema.
func ValidateForm(data map[string]any, schema Schema) Result {
	errs := make(map[string]string)
	for field, rule := range schema {
		if msg := checkField(field, data[field], rule, data); msg != "" {
			errs[field] = msg
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkField(field string, value any, rule Rule, data map[string]any) string {
	if rule.Required && !Required(value) {
		return fmt.Sprintf("%s is required", field)
	}
	if empty(value) && !rule.Required {
		return ""
	}

	if rule.Type != "" && !matchesType(value, rule.Type) {
		return fmt.Sprintf("%s is not a valid %s", field, rule.Type)
	}

	if (rule.MinLength != nil || rule.MaxLength != nil) && !Length(stringify(value), rule.MinLength, rule.MaxLength) {
		switch {
		case rule.MinLength != nil && rule.MaxLength != nil:
			return fmt.Sprintf("%s must be between %d and %d characters", field, *rule.MinLength, *rule.MaxLength)
		case rule.MinLength != nil:
			return fmt.Sprintf("%s must be at least %d characters", field, *rule.MinLength)
		default:
			return fmt.Sprintf("%s must be at most %d characters", field, *rule.MaxLength)
		}
	}

	if (rule.Min != nil || rule.Max != nil) && !NumberRange(value, rule.Min, rule.Max) {
		switch {
		case rule.Min != nil && rule.Max != nil:
			return fmt.Sprintf("%s must be between %s and %s", field, stringify(*rule.Min), stringify(*rule.Max))
		case rule.Min != nil:
			return fmt.Sprintf("%s must be at least %s", field, stringify(*rule.Min))
		default:
			return fmt.Sprintf("%s must be at most %s", field, stringify(*rule.Max))
		}
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(stringify(value)) {
		if rule.PatternError != "" {
			return rule.PatternError
		}
		return fmt.Sprintf("%s does not match the required pattern", field)
	}

	if rule.Validate != nil {
		if msg := rule.Validate(value, data); msg != "" {
			return msg
		}
	}
	return ""
}

func matchesType(value any, t FieldType) bool {
	switch t {
	case TypeEmail:
		return Email(stringify(value))
	case TypeURL:
		return URL(stringify(value))
	case TypeNumber:
		_, ok := number(value)
		return ok
	case TypeInteger:
		n, ok := number(value)
		return ok && n == math.Trunc(n) && !math.IsInf(n, 0)
	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return true
		case string:
			return v == "true" || v == "false"
		}
		return false
	}
	return true
}

func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0 || math.IsNaN(t)
	case int:
		return t == 0
	}
	return false
}
