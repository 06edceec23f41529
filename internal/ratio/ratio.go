// Package ratio computes derived financial ratios with strict null
// propagation. Every ratio in the repository goes through SafeDivide; no
// caller divides nullable operands directly.
package ratio

// SafeDivide returns num/den, or nil if either operand is nil or the
// denominator is exactly zero.
func SafeDivide(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

// Sub returns a-b, or nil if either operand is nil. Used where a composite
// numerator (e.g. current assets minus inventory) must itself be
// null-guarded before dividing.
func Sub(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a - *b
	return &v
}
