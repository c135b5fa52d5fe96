// Package units converts the length units and delimited config values used
// throughout model configuration files into their canonical Go forms.
package units

import (
	"errors"
	"strconv"
	"strings"
)

var ErrUnknownUnit = errors.New("units: unrecognised length unit")

// LengthScale returns the multiplier that converts a value expressed in the
// named unit into metres.
func LengthScale(name string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m", "meter", "meters":
		return 1.0, nil
	case "km", "kilometer", "kilometers":
		return 1000.0, nil
	case "ft", "foot", "feet":
		return 0.3048, nil
	default:
		return 0, errors.Join(ErrUnknownUnit, errors.New(name))
	}
}

// StringToList splits a delimited config value into its component strings.
// Values already wrapped in brackets ("[a, b, c]") have the brackets
// stripped before splitting.
func StringToList(value, delimiter string) []string {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}

	return out
}

// StringToFloatList parses a delimited list of floating point values.
func StringToFloatList(value, delimiter string) ([]float64, error) {
	parts := StringToList(value, delimiter)
	out := make([]float64, len(parts))

	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}

	return out, nil
}

// StringToIntList parses a delimited list of integer values.
func StringToIntList(value, delimiter string) ([]int, error) {
	parts := StringToList(value, delimiter)
	out := make([]int, len(parts))

	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
