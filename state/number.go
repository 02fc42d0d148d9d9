package state

import "math"

// intEqualsFloat reports whether an i64 and a double are mathematically
// equal, without a lossy cast in either direction.
func intEqualsFloat(i int64, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f != math.Floor(f) {
		return false
	}
	if f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
		return false
	}
	return int64(f) == i
}

// intLessFloat is i < f (strict) or i <= f, exact over the full i64 range.
func intLessFloat(i int64, f float64, orEqual bool) bool {
	if math.IsNaN(f) {
		return false
	}
	if f >= 9223372036854775808.0 { // f > every i64
		return true
	}
	if f < -9223372036854775808.0 { // f below every i64
		return false
	}
	floor := math.Floor(f)
	fi := int64(floor)
	if orEqual {
		return fi >= i
	}
	return fi > i || (fi == i && f != floor)
}

// floatLessInt is f < i (strict) or f <= i.
func floatLessInt(f float64, i int64, orEqual bool) bool {
	if math.IsNaN(f) {
		return false
	}
	if orEqual {
		return !intLessFloat(i, f, false)
	}
	return !intLessFloat(i, f, true)
}
