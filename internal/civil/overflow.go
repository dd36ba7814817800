package civil

import "math"

// Add returns a+b and whether the sum is exact.
func Add(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

// Mul returns a*b and whether the product is exact.
func Mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return c, false
	}
	return c, true
}

// AddWithin adds delta to *v unless the result would leave [lo, hi]. It
// reports whether *v was updated.
func AddWithin(v *int64, delta, lo, hi int64) bool {
	n, ok := Add(*v, delta)
	if !ok || n < lo || n > hi {
		return false
	}
	*v = n
	return true
}

// Normalize carries whole multiples of base from *units into *tens so that
// 0 <= *units < base afterwards. It reports false if *tens overflows.
func Normalize(tens, units *int64, base int64) bool {
	var delta int64
	if *units >= 0 {
		delta = *units / base
	} else {
		delta = -1 - (-1-*units)/base
	}
	*units -= delta * base
	n, ok := Add(*tens, delta)
	if !ok {
		return false
	}
	*tens = n
	return true
}
