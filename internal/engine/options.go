package engine

import (
	"strings"

	"github.com/fsarwari/pgCompare/internal/errs"
)

// Number cast modes.
const (
	// NumberCastNotation renders numbers in scientific notation with ten
	// fractional mantissa digits.
	NumberCastNotation = "notation"

	// NumberCastStandard renders numbers through StandardNumberFormat.
	NumberCastStandard = "standard"
)

// DefaultStandardNumberFormat is 22 integer and 22 fractional digits.
const DefaultStandardNumberFormat = "0000000000000000000000.0000000000000000000000"

// Options tunes how value expressions render numbers.
type Options struct {
	NumberCast           string
	StandardNumberFormat string
}

// Validate rejects an unknown number cast mode.
func (o Options) Validate() error {
	switch strings.ToLower(o.NumberCast) {
	case "", NumberCastNotation, NumberCastStandard:
		return nil
	}
	return errs.Newf(errs.ErrKindInvalidInput, "numberCast must be %q or %q, got %q",
		NumberCastNotation, NumberCastStandard, o.NumberCast)
}

func (o Options) normalize() Options {
	o.NumberCast = strings.ToLower(o.NumberCast)
	if o.NumberCast != NumberCastStandard {
		o.NumberCast = NumberCastNotation
	}
	if o.StandardNumberFormat == "" {
		o.StandardNumberFormat = DefaultStandardNumberFormat
	}
	return o
}

func (o Options) standard() bool {
	return o.NumberCast == NumberCastStandard
}

// MySQL's DECIMAL limits.
const (
	maxDecimalPrecision = 65
	maxDecimalScale     = 30
)

// decimalSpec derives DECIMAL(precision,scale) from StandardNumberFormat by
// counting the 0/9 digit positions around the decimal point (. or D).
func (o Options) decimalSpec() (precision, scale int) {
	intDigits, fracDigits, frac := 0, 0, false
	for _, r := range strings.ToUpper(o.StandardNumberFormat) {
		switch r {
		case '.', 'D':
			frac = true
		case '0', '9':
			if frac {
				fracDigits++
			} else {
				intDigits++
			}
		}
	}
	scale = min(fracDigits, maxDecimalScale)
	precision = min(max(intDigits+scale, 1), maxDecimalPrecision)
	return precision, scale
}
