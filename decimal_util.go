package agate

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

func apdFormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decimalContext is the shared apd.Context used for all arithmetic the
// core performs (Sum, Mean, Variance, Change, Percent, ...). A generous
// but finite precision avoids unbounded growth across long aggregation
// chains while comfortably exceeding what any practical dataset needs.
var decimalContext = apd.BaseContext.WithPrecision(40)

func decAdd(a, b *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	_, _ = decimalContext.Add(r, a, b)
	return r
}

func decSub(a, b *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	_, _ = decimalContext.Sub(r, a, b)
	return r
}

func decMul(a, b *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	_, _ = decimalContext.Mul(r, a, b)
	return r
}

func decQuo(a, b *apd.Decimal) (*apd.Decimal, error) {
	r := new(apd.Decimal)
	_, err := decimalContext.Quo(r, a, b)
	return r, err
}

func decIsZero(a *apd.Decimal) bool {
	return a.Sign() == 0
}

func decCmp(a, b *apd.Decimal) int {
	return a.Cmp(b)
}

func decNeg(a *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	r.Neg(a)
	return r
}

func decAbs(a *apd.Decimal) *apd.Decimal {
	r := new(apd.Decimal)
	r.Abs(a)
	return r
}

func decFromInt(i int) *apd.Decimal { return apd.New(int64(i), 0) }

func decSqrt(a *apd.Decimal) (*apd.Decimal, error) {
	r := new(apd.Decimal)
	_, err := decimalContext.Sqrt(r, a)
	return r, err
}

// fractionalDigits returns the number of digits after the decimal point
// in d's canonical text representation, used by MaxPrecision.
func fractionalDigits(d *apd.Decimal) int {
	if d.Exponent >= 0 {
		return 0
	}
	return int(-d.Exponent)
}
