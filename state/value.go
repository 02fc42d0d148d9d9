package state

import (
	"fmt"
	"math/big"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/utils"
)

// A Lua value is one of: nil, bool, int64, float64, *big.Int (an integer
// literal outside the i64 range), string, *luaTable, *closure, *luaState
// (thread), *userdata.

func typeOf(val any) LuaType {
	switch val.(type) {
	case nil:
		return LUA_TNIL
	case bool:
		return LUA_TBOOLEAN
	case int64, float64, *big.Int:
		return LUA_TNUMBER
	case string:
		return LUA_TSTRING
	case *luaTable:
		return LUA_TTABLE
	case *closure:
		return LUA_TFUNCTION
	case *luaState:
		return LUA_TTHREAD
	case *userdata:
		return LUA_TUSERDATA
	default:
		panic(fmt.Sprintf("invalid type: %T<%v>", val, val))
	}
}

func typeName(val any) string {
	switch typeOf(val) {
	case LUA_TNIL:
		return "nil"
	case LUA_TBOOLEAN:
		return "boolean"
	case LUA_TNUMBER:
		return "number"
	case LUA_TSTRING:
		return "string"
	case LUA_TTABLE:
		return "table"
	case LUA_TFUNCTION:
		return "function"
	case LUA_TTHREAD:
		return "thread"
	default:
		return "userdata"
	}
}

// userdata is an opaque host object with an optional metatable.
type userdata struct {
	data      any
	metatable *luaTable
}

func convertToBoolean(val any) bool {
	switch x := val.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// http://www.lua.org/manual/5.4/manual.html#3.4.3
func convertToFloat(val any) (float64, bool) {
	switch x := val.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case *big.Int:
		return float64(utils.BigToInt64(x)), true
	case string:
		return stringToFloat(x)
	default:
		return 0, false
	}
}

// http://www.lua.org/manual/5.4/manual.html#3.4.3
func convertToInteger(val any) (int64, bool) {
	switch x := val.(type) {
	case int64:
		return x, true
	case float64:
		return utils.FloatToInteger(x)
	case *big.Int:
		return utils.BigToInt64(x), true
	case string:
		return stringToInteger(x)
	default:
		return 0, false
	}
}

func stringToInteger(s string) (int64, bool) {
	if i, ok, _ := utils.ParseInteger(s); ok {
		return i, true
	}
	if f, ok := utils.ParseFloat(s); ok {
		return utils.FloatToInteger(f)
	}
	return 0, false
}

func stringToFloat(s string) (float64, bool) {
	if i, ok, _ := utils.ParseInteger(s); ok {
		return float64(i), true
	}
	return utils.ParseFloat(s)
}

// toNumber applies the arithmetic coercion: numbers pass through, numeric
// strings are parsed with the literal grammar, everything else fails.
func toNumber(val any) (any, bool) {
	switch x := val.(type) {
	case int64, float64:
		return x, true
	case *big.Int:
		return utils.BigToInt64(x), true
	case string:
		if i, ok, _ := utils.ParseInteger(x); ok {
			return i, true
		}
		if f, ok := utils.ParseFloat(x); ok {
			return f, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// toString renders val without consulting metamethods.
func toString(val any) string {
	switch x := val.(type) {
	case nil:
		return "nil"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int64:
		return utils.FormatInteger(x)
	case float64:
		return utils.FormatFloat(x)
	case *big.Int:
		return x.String()
	case string:
		return x
	case *luaTable:
		return fmt.Sprintf("table: %p", x)
	case *closure:
		return x.String()
	case *luaState:
		return fmt.Sprintf("thread: %p", x)
	case *userdata:
		return fmt.Sprintf("userdata: %p", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// rawEqual implements == without metamethods. Integer/float comparison is
// mathematically exact; NaN is never equal to anything.
func rawEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return intEqualsFloat(x, y)
		case *big.Int:
			return x == utils.BigToInt64(y)
		}
		return false
	case float64:
		switch y := b.(type) {
		case int64:
			return intEqualsFloat(y, x)
		case float64:
			return x == y
		case *big.Int:
			return intEqualsFloat(utils.BigToInt64(y), x)
		}
		return false
	case *big.Int:
		return rawEqual(utils.BigToInt64(x), b)
	default:
		return a == b
	}
}

// normalizeKey canonicalizes a table key: a float with an exact integer
// value indexes the array part, and big integers collapse to their wrapped
// i64 identity (the same identity arithmetic gives them).
func normalizeKey(key any) any {
	switch k := key.(type) {
	case float64:
		if i, ok := utils.FloatToInteger(k); ok {
			return i
		}
	case *big.Int:
		return utils.BigToInt64(k)
	}
	return key
}
