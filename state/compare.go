package state

import (
	"math/big"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/utils"
)

// equals implements ==: raw equality first, then __eq when both operands
// are tables or both are userdata.
func (self *luaState) equals(a, b any) bool {
	if rawEqual(a, b) {
		return true
	}

	switch a.(type) {
	case *luaTable:
		if _, ok := b.(*luaTable); !ok {
			return false
		}
	case *userdata:
		if _, ok := b.(*userdata); !ok {
			return false
		}
	default:
		return false
	}

	if result, ok := self.callMetamethod(a, b, "__eq"); ok {
		return convertToBoolean(result)
	}
	return false
}

// lessThan implements a < b.
func (self *luaState) lessThan(a, b any, line int) bool {
	if r, done := numberOrStringLess(a, b, false); done {
		return r
	}
	if result, ok := self.callMetamethod(a, b, "__lt"); ok {
		return convertToBoolean(result)
	}
	self.compareError(a, b, line)
	return false
}

// lessEqual implements a <= b. There is no not-(b < a) fallback: Lua 5.4
// requires __le.
func (self *luaState) lessEqual(a, b any, line int) bool {
	if r, done := numberOrStringLess(a, b, true); done {
		return r
	}
	if result, ok := self.callMetamethod(a, b, "__le"); ok {
		return convertToBoolean(result)
	}
	self.compareError(a, b, line)
	return false
}

func (self *luaState) compareError(a, b any, line int) {
	ta, tb := typeName(a), typeName(b)
	if ta == tb {
		self.rtError(line, "attempt to compare two %s values", ta)
	}
	self.rtError(line, "attempt to compare %s with %s", ta, tb)
}

// numberOrStringLess handles the primitive orders; done is false when the
// operand pair needs metamethod dispatch. Comparison never coerces
// strings to numbers.
func numberOrStringLess(a, b any, orEqual bool) (result, done bool) {
	if x, ok := a.(*big.Int); ok {
		a = utils.BigToInt64(x)
	}
	if y, ok := b.(*big.Int); ok {
		b = utils.BigToInt64(y)
	}
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			if orEqual {
				return x <= y, true
			}
			return x < y, true
		case float64:
			return intLessFloat(x, y, orEqual), true
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return floatLessInt(x, y, orEqual), true
		case float64:
			if orEqual {
				return x <= y, true
			}
			return x < y, true
		}
	case string:
		if y, ok := b.(string); ok {
			if orEqual {
				return x <= y, true
			}
			return x < y, true
		}
	}
	return false, false
}

func (self *luaState) compare(a, b any, op CompareOp, line int) bool {
	switch op {
	case LUA_OPEQ:
		return self.equals(a, b)
	case LUA_OPLT:
		return self.lessThan(a, b, line)
	default:
		return self.lessEqual(a, b, line)
	}
}
