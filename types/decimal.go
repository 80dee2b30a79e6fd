package types

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hupe1980/colblock/block"
)

// MaxShortDecimalPrecision is the largest precision whose unscaled values
// fit in 64 bits.
const MaxShortDecimalPrecision = 18

// DecimalType is a fixed-point number stored as a 64-bit unscaled value.
type DecimalType struct {
	longType
	precision int
	scale     int
}

// NewDecimal returns the decimal(precision, scale) type.
func NewDecimal(precision, scale int) (*DecimalType, error) {
	if precision < 1 || precision > MaxShortDecimalPrecision {
		return nil, fmt.Errorf("%w: decimal precision %d not in [1, %d]", ErrInvalidSignature, precision, MaxShortDecimalPrecision)
	}
	if scale < 0 || scale > precision {
		return nil, fmt.Errorf("%w: decimal scale %d not in [0, %d]", ErrInvalidSignature, scale, precision)
	}
	return &DecimalType{
		longType:  longType{name: fmt.Sprintf("decimal(%d,%d)", precision, scale), size: 8},
		precision: precision,
		scale:     scale,
	}, nil
}

// Precision returns the total number of digits.
func (t *DecimalType) Precision() int { return t.precision }

// Scale returns the number of digits after the decimal point.
func (t *DecimalType) Scale() int { return t.scale }

// Unscaled converts d to the unscaled value stored for t, rounding half
// away from zero to the type's scale.
func (t *DecimalType) Unscaled(d decimal.Decimal) (int64, error) {
	scaled := d.Round(int32(t.scale)).Shift(int32(t.scale))
	limit := decimal.New(1, int32(t.precision))
	if scaled.Abs().GreaterThanOrEqual(limit) {
		return 0, fmt.Errorf("%w: %s overflows %s", block.ErrInvalidEntry, d, t.Name())
	}
	return scaled.IntPart(), nil
}

// ObjectValue returns the value as a decimal.Decimal.
func (t *DecimalType) ObjectValue(_ block.Session, b block.Block, p int) (any, error) {
	v, err := b.Long(p)
	if err != nil {
		return nil, err
	}
	return decimal.New(v, -int32(t.scale)), nil
}

func (t *DecimalType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewFixedWidthBuilder(t, expectedEntries)
}
