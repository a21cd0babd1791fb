// Package datatype classifies raw engine type names into the small set of
// comparable data classes used by the comparison pipeline.
//
// All functions are pure and read only immutable tables, so they are safe to
// call from any number of goroutines.
package datatype

import (
	"fmt"
	"strings"
)

// Class is the canonical semantic category of a column type.
type Class int

const (
	Character Class = iota
	Boolean
	Numeric
	Timestamp
	Binary
	Unsupported
)

func (c Class) String() string {
	switch c {
	case Boolean:
		return "boolean"
	case Numeric:
		return "numeric"
	case Timestamp:
		return "timestamp"
	case Binary:
		return "binary"
	case Unsupported:
		return "unsupported"
	default:
		return "char"
	}
}

// MarshalText encodes the class as its pipeline name ("char", "numeric", ...).
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a pipeline class name.
func (c *Class) UnmarshalText(b []byte) error {
	parsed, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClass is the inverse of Class.String. "character" is accepted as an
// alias of "char".
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(s) {
	case "char", "character":
		return Character, nil
	case "boolean":
		return Boolean, nil
	case "numeric":
		return Numeric, nil
	case "timestamp":
		return Timestamp, nil
	case "binary":
		return Binary, nil
	case "unsupported":
		return Unsupported, nil
	}
	return Character, fmt.Errorf("unknown data class %q", s)
}

// Classify maps a raw type name to the class used for comparison. Only
// Boolean, Numeric and Character are ever returned: timestamps compare as
// text, and anything unmatched defaults to Character.
func Classify(rawType string) Class {
	t := strings.ToLower(rawType)
	if _, ok := booleanTypes[t]; ok {
		return Boolean
	}
	if _, ok := numericTypes[t]; ok {
		return Numeric
	}
	if _, ok := timestampTypes[t]; ok {
		return Character
	}
	return Character
}

// Lookup reports which table rawType belongs to. Unlike Classify it keeps
// Timestamp, Binary and Unsupported apart; ok is false when the name is in
// no table.
func Lookup(rawType string) (Class, bool) {
	t := strings.ToLower(rawType)
	for _, entry := range lookupOrder {
		if _, found := entry.set[t]; found {
			return entry.class, true
		}
	}
	return Character, false
}

// IsSupported reports whether rawType can take part in a comparison.
func IsSupported(rawType string) bool {
	_, unsupported := unsupportedTypes[strings.ToLower(rawType)]
	return !unsupported
}

// IsReserved reports whether word is a SQL keyword that must be quoted when
// used as an identifier.
func IsReserved(word string) bool {
	_, ok := reservedWords[strings.ToLower(word)]
	return ok
}

// HasTimeZone reports whether a timestamp type carries a zone or offset.
func HasTimeZone(rawType string) bool {
	t := strings.ToLower(rawType)
	return t == "timestamptz" || t == "datetimeoffset" || strings.HasSuffix(t, "with time zone")
}
