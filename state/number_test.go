package state

import (
	"math"
	"testing"
)

func TestIntegerFloatDistinction(t *testing.T) {
	expect(t, `return math.type(1), math.type(1.0), math.type('1')`,
		"integer", "float", nil)
	expect(t, `return 1 + 2, 1 + 2.0, 7 / 2, 7 // 2, 2 ^ 2`,
		int64(3), float64(3), float64(3.5), int64(3), float64(4))
	expect(t, `return 7 % 3, -7 % 3, 7 % -3, 7.5 % 2`,
		int64(1), int64(2), int64(-2), float64(1.5))
}

func TestIntegerRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64, 123456789} {
		got := runString(t, `return tonumber(tostring(`+toString(n)+`)), math.type(tonumber(tostring(`+toString(n)+`)))`)
		if got[0] != n || got[1] != "integer" {
			t.Fatalf("round trip of %d: got %#v", n, got)
		}
	}
}

func TestFloatFormatting(t *testing.T) {
	expect(t, `return tostring(1.0), tostring(0.5), tostring(1/0), tostring(-1/0)`,
		"1.0", "0.5", "inf", "-inf")
	expect(t, `return tostring(0/0)`, "nan")
	expect(t, `return tonumber(tostring(0.1)) == 0.1`, true)
}

func TestStringCoercion(t *testing.T) {
	expect(t, `return '10' + 5, '0x10' + 0, '3.5' * 2`,
		int64(15), int64(16), float64(7))
	expect(t, `return '  42  ' + 0`, int64(42))
	expectError(t, `return 'abc' + 1`, "attempt to perform arithmetic on a string value")
	// comparison never coerces
	expectError(t, `return '10' < 5`, "attempt to compare")
}

func TestExactIntFloatComparison(t *testing.T) {
	// 2^63 as float is not equal to maxinteger
	expect(t, `return math.maxinteger == 9223372036854775808.0`, false)
	expect(t, `return math.maxinteger < 9223372036854775808.0`, true)
	expect(t, `return math.mininteger == -9223372036854775808.0`, true)
	expect(t, `return 3 == 3.0, 3 < 3.5, 3.5 < 4`, true, true, true)
	expect(t, `local nan = 0/0 return nan == nan, nan < 1, 1 < nan`,
		false, false, false)
}

func TestBigIntegerLiteral(t *testing.T) {
	// a literal beyond i64 keeps its exact text through tostring
	expect(t, `return tostring(99999999999999999999)`, "99999999999999999999")
	// arithmetic wraps it back into i64 space
	expect(t, `return math.type(99999999999999999999 + 0)`, "integer")
}

func TestHexAndFloatLiterals(t *testing.T) {
	expect(t, `return 0xFF, 0x10, 1e2, 1.5e-1`, int64(255), int64(16), float64(100), float64(0.15))
	expect(t, `return 0x1p4, 0x.8p1`, float64(16), float64(1))
}

func TestDivisionSemantics(t *testing.T) {
	expect(t, `return 7 // 2, -7 // 2, 7.0 // 2, 7 // -2`,
		int64(3), int64(-4), float64(3), int64(-4))
	expect(t, `return 1/0 > 0, -1/0 < 0`, true, true)
}
