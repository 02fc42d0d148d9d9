package stdlib

import (
	"math"
	"math/rand"

	. "github.com/lollipopkit/lua54/api"
)

var mathFuncs = map[string]GoFunction{
	"floor":      mathFloor,
	"ceil":       mathCeil,
	"abs":        mathAbs,
	"sqrt":       mathSqrt,
	"exp":        mathExp,
	"log":        mathLog,
	"sin":        mathSin,
	"cos":        mathCos,
	"tan":        mathTan,
	"fmod":       mathFmod,
	"modf":       mathModf,
	"max":        mathMax,
	"min":        mathMin,
	"tointeger":  mathToInteger,
	"type":       mathType,
	"random":     mathRandom,
	"randomseed": mathRandomSeed,
	"ult":        mathUlt,
}

func OpenMathLib(ls State) {
	lib := ls.NewLib(mathFuncs)
	lib.Set("pi", math.Pi)
	lib.Set("huge", math.Inf(1))
	lib.Set("maxinteger", int64(LUA_MAXINTEGER))
	lib.Set("mininteger", int64(LUA_MININTEGER))
	ls.Globals().Set("math", lib)
}

// math.floor (x): an integer argument passes through unchanged.
func mathFloor(ls State, args []any) ([]any, error) {
	if i, ok := argValue(args, 1).(int64); ok {
		return one(i), nil
	}
	f := math.Floor(checkFloat(ls, args, 1, "floor"))
	return one(floatToResult(f)), nil
}

func mathCeil(ls State, args []any) ([]any, error) {
	if i, ok := argValue(args, 1).(int64); ok {
		return one(i), nil
	}
	f := math.Ceil(checkFloat(ls, args, 1, "ceil"))
	return one(floatToResult(f)), nil
}

func mathAbs(ls State, args []any) ([]any, error) {
	switch n := checkNumber(ls, args, 1, "abs").(type) {
	case int64:
		if n < 0 {
			return one(-n), nil // wraps at mininteger, like the reference
		}
		return one(n), nil
	default:
		return one(math.Abs(n.(float64))), nil
	}
}

func mathSqrt(ls State, args []any) ([]any, error) {
	return one(math.Sqrt(checkFloat(ls, args, 1, "sqrt"))), nil
}

func mathExp(ls State, args []any) ([]any, error) {
	return one(math.Exp(checkFloat(ls, args, 1, "exp"))), nil
}

// math.log (x [, base])
func mathLog(ls State, args []any) ([]any, error) {
	x := checkFloat(ls, args, 1, "log")
	if argValue(args, 2) == nil {
		return one(math.Log(x)), nil
	}
	base := checkFloat(ls, args, 2, "log")
	switch base {
	case 2:
		return one(math.Log2(x)), nil
	case 10:
		return one(math.Log10(x)), nil
	}
	return one(math.Log(x) / math.Log(base)), nil
}

func mathSin(ls State, args []any) ([]any, error) {
	return one(math.Sin(checkFloat(ls, args, 1, "sin"))), nil
}

func mathCos(ls State, args []any) ([]any, error) {
	return one(math.Cos(checkFloat(ls, args, 1, "cos"))), nil
}

func mathTan(ls State, args []any) ([]any, error) {
	return one(math.Tan(checkFloat(ls, args, 1, "tan"))), nil
}

func mathFmod(ls State, args []any) ([]any, error) {
	x := checkNumber(ls, args, 1, "fmod")
	y := checkNumber(ls, args, 2, "fmod")
	if xi, ok := x.(int64); ok {
		if yi, ok := y.(int64); ok {
			if yi == 0 {
				return nil, argError(2, "fmod", "zero")
			}
			return one(xi % yi), nil
		}
	}
	xf, _ := ls.ToNumber(x)
	yf, _ := ls.ToNumber(y)
	return one(math.Mod(toF(xf), toF(yf))), nil
}

// math.modf (x)
func mathModf(ls State, args []any) ([]any, error) {
	f := checkFloat(ls, args, 1, "modf")
	ipart, fpart := math.Modf(f)
	return []any{floatToResult(ipart), fpart}, nil
}

func mathMax(ls State, args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, argError(1, "max", "value expected")
	}
	best := checkNumber(ls, args, 1, "max")
	for n := 2; n <= len(args); n++ {
		v := checkNumber(ls, args, n, "max")
		greater, err := ls.Compare(best, v, LUA_OPLT)
		if err != nil {
			return nil, err
		}
		if greater {
			best = v
		}
	}
	return one(best), nil
}

func mathMin(ls State, args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, argError(1, "min", "value expected")
	}
	best := checkNumber(ls, args, 1, "min")
	for n := 2; n <= len(args); n++ {
		v := checkNumber(ls, args, n, "min")
		less, err := ls.Compare(v, best, LUA_OPLT)
		if err != nil {
			return nil, err
		}
		if less {
			best = v
		}
	}
	return one(best), nil
}

// math.tointeger (x)
func mathToInteger(ls State, args []any) ([]any, error) {
	if i, ok := ls.ToInteger(argValue(args, 1)); ok {
		if _, isStr := argValue(args, 1).(string); !isStr {
			return one(i), nil
		}
	}
	return one(nil), nil
}

// math.type (x)
func mathType(ls State, args []any) ([]any, error) {
	switch checkAny(args, 1, "type").(type) {
	case int64:
		return one("integer"), nil
	case float64:
		return one("float"), nil
	}
	return one(nil), nil
}

// math.random ([m [, n]])
func mathRandom(ls State, args []any) ([]any, error) {
	switch len(args) {
	case 0:
		return one(rand.Float64()), nil
	case 1:
		m := checkInt(ls, args, 1, "random")
		if m < 1 {
			return nil, argError(1, "random", "interval is empty")
		}
		return one(rand.Int63n(m) + 1), nil
	default:
		m := checkInt(ls, args, 1, "random")
		n := checkInt(ls, args, 2, "random")
		if m > n {
			return nil, argError(2, "random", "interval is empty")
		}
		return one(m + rand.Int63n(n-m+1)), nil
	}
}

func mathRandomSeed(ls State, args []any) ([]any, error) {
	if argValue(args, 1) != nil {
		rand.Seed(checkInt(ls, args, 1, "randomseed"))
	}
	return nil, nil
}

// math.ult (m, n): unsigned comparison.
func mathUlt(ls State, args []any) ([]any, error) {
	m := checkInt(ls, args, 1, "ult")
	n := checkInt(ls, args, 2, "ult")
	return one(uint64(m) < uint64(n)), nil
}

// floatToResult keeps floor/ceil/modf integral results as integers when
// they fit.
func floatToResult(f float64) any {
	if i := int64(f); float64(i) == f && !math.IsInf(f, 0) {
		return i
	}
	return f
}

func toF(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return math.NaN()
}
