// Package money holds integer arithmetic on amounts expressed in the
// smallest currency unit. Amounts never pass through floating point.
package money

// DivRoundHalfUp divides num by den with round-half-up semantics.
// den must be > 0; num may be any sign.
func DivRoundHalfUp(num, den int64) int64 {
	if num >= 0 {
		return (2*num + den) / (2 * den)
	}
	return -((2*(-num) + den) / (2 * den))
}

// MulFracRoundHalfUp computes amount * num / den with round-half-up
// semantics, for scaling an amount by a ratio such as paid/working days
// or a basis-point rate.
func MulFracRoundHalfUp(amount, num, den int64) int64 {
	return DivRoundHalfUp(amount*num, den)
}
