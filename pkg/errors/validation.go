package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateComponentID validates a component identifier.
//
// IDs appear in cache keys, DOT output, SVG element ids and error messages,
// so the rules are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No quotes
//   - Maximum length of 128 characters
func ValidateComponentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidConstraint, "component id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidConstraint, "component id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConstraint, "component id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, `"'`) {
		return New(ErrCodeInvalidConstraint, "component id %q contains quotes", id)
	}

	return nil
}

// ValidateFraction validates an anchor fraction. Fractions must be finite and
// within [0, 1].
func ValidateFraction(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return New(ErrCodeInvalidConstraint, "anchor fraction must be finite")
	}
	if f < 0 || f > 1 {
		return New(ErrCodeInvalidConstraint, "anchor fraction %g out of range [0, 1]", f)
	}
	return nil
}

// ValidateSize validates a component or container dimension.
func ValidateSize(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// documentNameRegex matches document names usable as file stems and store keys.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates a layout document name. An empty name is
// allowed and means "unnamed".
func ValidateDocumentName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidDocument, "document name too long (max 256 characters)")
	}
	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidDocument, "invalid document name: %q", name)
	}
	return nil
}
