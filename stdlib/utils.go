package stdlib

import (
	"fmt"

	. "github.com/lollipopkit/lua54/api"
)

// Argument checkers raise (panic) a *RuntimeError on mismatch; the
// protected-call machinery catches them like any other Lua error.

func argError(n int, fname, msg string) *RuntimeError {
	return &RuntimeError{Value: fmt.Sprintf("bad argument #%d to '%s' (%s)", n, fname, msg)}
}

func argValue(args []any, n int) any {
	if n <= len(args) {
		return args[n-1]
	}
	return nil
}

func checkAny(args []any, n int, fname string) any {
	if n > len(args) {
		panic(argError(n, fname, "value expected"))
	}
	return args[n-1]
}

func checkString(ls State, args []any, n int, fname string) string {
	v := argValue(args, n)
	switch s := v.(type) {
	case string:
		return s
	case int64, float64:
		str, _ := ls.ToStringMeta(s)
		return str
	}
	panic(argError(n, fname, "string expected, got "+luaTypeName(ls, v)))
}

func optString(ls State, args []any, n int, fname, dft string) string {
	if argValue(args, n) == nil {
		return dft
	}
	return checkString(ls, args, n, fname)
}

func checkInt(ls State, args []any, n int, fname string) int64 {
	v := argValue(args, n)
	if i, ok := ls.ToInteger(v); ok {
		return i
	}
	if _, isNum := v.(float64); isNum {
		panic(argError(n, fname, "number has no integer representation"))
	}
	panic(argError(n, fname, "number expected, got "+luaTypeName(ls, v)))
}

func optInt(ls State, args []any, n int, fname string, dft int64) int64 {
	if argValue(args, n) == nil {
		return dft
	}
	return checkInt(ls, args, n, fname)
}

func checkNumber(ls State, args []any, n int, fname string) any {
	v := argValue(args, n)
	if num, ok := ls.ToNumber(v); ok {
		return num
	}
	panic(argError(n, fname, "number expected, got "+luaTypeName(ls, v)))
}

func checkFloat(ls State, args []any, n int, fname string) float64 {
	switch num := checkNumber(ls, args, n, fname).(type) {
	case int64:
		return float64(num)
	default:
		return num.(float64)
	}
}

func checkTable(ls State, args []any, n int, fname string) Table {
	v := argValue(args, n)
	if t, ok := v.(Table); ok {
		return t
	}
	panic(argError(n, fname, "table expected, got "+luaTypeName(ls, v)))
}

func checkFunction(ls State, args []any, n int, fname string) any {
	v := argValue(args, n)
	if ls.TypeOf(v) != LUA_TFUNCTION {
		panic(argError(n, fname, "function expected, got "+luaTypeName(ls, v)))
	}
	return v
}

func luaTypeName(ls State, v any) string {
	if v == nil {
		return "no value"
	}
	return ls.TypeName(v)
}

func one(v any) []any {
	return []any{v}
}
