// Package cep provides Brazilian postal code (CEP) normalization and validation.
// This is part of the platform layer and contains no business logic.
package cep

import (
	"regexp"

	"cep_address_backend/platform/apperr"
)

// Length is the number of digits in a CEP.
const Length = 8

// Pattern is the accepted textual form of a CEP on the HTTP surface:
// NNNNNNNN or NNNNN-NNN.
const Pattern = `^\d{5}-?\d{3}$`

var (
	nonDigitRegex  = regexp.MustCompile(`[^0-9]`)
	digitsRegex    = regexp.MustCompile(`^\d{8}$`)
	textualPattern = regexp.MustCompile(Pattern)
)

const (
	msgEmpty      = "CEP must not be empty"
	msgLength     = "CEP must contain exactly 8 digits"
	msgDigitsOnly = "CEP must contain only digits"
)

// Normalize strips every non-digit character from input.
// It fails only when input is absent.
func Normalize(input string) (string, error) {
	if input == "" {
		return "", apperr.InvalidArgument(msgEmpty)
	}
	return nonDigitRegex.ReplaceAllString(input, ""), nil
}

// Validate checks that a normalized candidate holds exactly 8 ASCII digits.
func Validate(candidate string) error {
	if len(candidate) != Length {
		return apperr.InvalidArgument(msgLength)
	}
	if !digitsRegex.MatchString(candidate) {
		return apperr.InvalidArgument(msgDigitsOnly)
	}
	return nil
}

// Parse normalizes then validates input, returning the 8-digit form.
func Parse(input string) (string, error) {
	normalized, err := Normalize(input)
	if err != nil {
		return "", err
	}
	if err := Validate(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// MatchesPattern reports whether input is exactly in NNNNNNNN or NNNNN-NNN form.
// Surrounding whitespace is not tolerated.
func MatchesPattern(input string) bool {
	return textualPattern.MatchString(input)
}

// Format renders an 8-digit CEP as NNNNN-NNN. Other inputs are returned unchanged.
func Format(normalized string) string {
	if !digitsRegex.MatchString(normalized) {
		return normalized
	}
	return normalized[:5] + "-" + normalized[5:]
}
