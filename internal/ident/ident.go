// Package ident decides how identifiers are cased and quoted for a given
// engine.
package ident

import (
	"regexp"
	"strings"

	"github.com/fsarwari/pgCompare/internal/datatype"
)

// NativeCase is the case an engine folds unquoted identifiers to.
type NativeCase string

const (
	Lower NativeCase = "lower"
	Upper NativeCase = "upper"
)

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$#]*$`)

// Fold converts name to the native case.
func (c NativeCase) Fold(name string) string {
	if c == Upper {
		return strings.ToUpper(name)
	}
	return strings.ToLower(name)
}

// PreserveCase reports whether name differs from its native-case form, i.e.
// whether it only resolves when quoted.
func PreserveCase(native NativeCase, name string) bool {
	return name != native.Fold(name)
}

// NeedsQuote reports whether name has to be quoted: it carries non-native
// case, is a reserved word, or contains characters outside a plain
// identifier.
func NeedsQuote(native NativeCase, name string) bool {
	return PreserveCase(native, name) || datatype.IsReserved(name) || !plainIdent.MatchString(name)
}

// Quote wraps name in quote characters when NeedsQuote says so. quoteChar
// may be one character (`"` or "`") or a bracket pair ("[]").
func Quote(native NativeCase, name, quoteChar string) string {
	if !NeedsQuote(native, name) {
		return name
	}
	return QuoteAlways(name, quoteChar)
}

// QuoteAlways quotes name unconditionally, doubling embedded closing quotes.
func QuoteAlways(name, quoteChar string) string {
	left, right := quoteChar, quoteChar
	if len(quoteChar) == 2 {
		left, right = quoteChar[:1], quoteChar[1:]
	}
	return left + strings.ReplaceAll(name, right, right+right) + right
}
