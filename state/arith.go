package state

import (
	"math"
	"math/big"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/utils"
)

type operator struct {
	metamethod  string
	symbol      string
	integerFunc func(int64, int64) int64
	floatFunc   func(float64, float64) float64
}

var (
	iadd  = func(a, b int64) int64 { return a + b }
	fadd  = func(a, b float64) float64 { return a + b }
	isub  = func(a, b int64) int64 { return a - b }
	fsub  = func(a, b float64) float64 { return a - b }
	imul  = func(a, b int64) int64 { return a * b }
	fmul  = func(a, b float64) float64 { return a * b }
	imod  = utils.IMod
	fmod  = utils.FMod
	pow   = math.Pow
	div   = func(a, b float64) float64 { return a / b }
	iidiv = utils.IFloorDiv
	fidiv = utils.FFloorDiv
	band  = func(a, b int64) int64 { return a & b }
	bor   = func(a, b int64) int64 { return a | b }
	bxor  = func(a, b int64) int64 { return a ^ b }
	shl   = utils.ShiftLeft
	shr   = utils.ShiftRight
	iunm  = func(a, _ int64) int64 { return -a }
	funm  = func(a, _ float64) float64 { return -a }
	bnot  = func(a, _ int64) int64 { return ^a }
)

// indexed by ArithOp
var operators = []operator{
	{"__add", "add", iadd, fadd},
	{"__sub", "sub", isub, fsub},
	{"__mul", "mul", imul, fmul},
	{"__mod", "mod", imod, fmod},
	{"__pow", "pow", nil, pow},
	{"__div", "div", nil, div},
	{"__idiv", "idiv", iidiv, fidiv},
	{"__band", "band", band, nil},
	{"__bor", "bor", bor, nil},
	{"__bxor", "bxor", bxor, nil},
	{"__shl", "shl", shl, nil},
	{"__shr", "shr", shr, nil},
	{"__unm", "unm", iunm, funm},
	{"__bnot", "bnot", bnot, nil},
}

// arith applies op to a and b (b == a for the unary ops), consulting the
// pair's metamethods on fall-through.
func (self *luaState) arith(a, b any, op ArithOp, line int) any {
	operator := operators[op]
	bitwise := operator.floatFunc == nil

	if bitwise { // integer operands only
		if x, okx := toBitwiseOperand(a); okx {
			if y, oky := toBitwiseOperand(b); oky {
				return operator.integerFunc(x, y)
			}
		}
	} else {
		if operator.integerFunc != nil { // add, sub, mul, mod, idiv, unm
			if x, okx := integerOperand(a); okx {
				if y, oky := integerOperand(b); oky {
					if y == 0 && op == LUA_OPIDIV {
						self.rtError(line, "attempt to perform 'n//0'")
					}
					if y == 0 && op == LUA_OPMOD {
						self.rtError(line, "attempt to perform 'n%%0'")
					}
					return operator.integerFunc(x, y)
				}
			}
		}
		if x, ok := convertToFloat(a); ok {
			if y, ok := convertToFloat(b); ok {
				return operator.floatFunc(x, y)
			}
		}
	}

	if result, ok := self.callMetamethod(a, b, operator.metamethod); ok {
		return result
	}

	if bitwise {
		for _, v := range []any{a, b} {
			if typeOf(v) == LUA_TNUMBER {
				if _, ok := toBitwiseOperand(v); !ok {
					self.rtError(line, "number has no integer representation")
				}
			}
		}
		bad := a
		if _, ok := toBitwiseOperand(a); ok {
			bad = b
		}
		self.rtError(line, "attempt to perform bitwise operation on a %s value", typeName(bad))
	}

	bad := a
	if _, ok := toNumber(a); ok {
		bad = b
	}
	if _, isStr := bad.(string); isStr {
		self.rtError(line, "attempt to perform arithmetic on a string value")
	}
	self.rtError(line, "attempt to perform arithmetic on a %s value", typeName(bad))
	return nil
}

// integerOperand accepts machine integers, wrapped big literals and strings
// holding an integer numeral, but not floats: integer arithmetic stays
// integer only when both sides are.
func integerOperand(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case *big.Int:
		return utils.BigToInt64(x), true
	case string:
		if i, ok, _ := utils.ParseInteger(x); ok {
			return i, true
		}
	}
	return 0, false
}

// toBitwiseOperand accepts integers, floats with an exact i64
// representation, and numeric strings.
func toBitwiseOperand(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case *big.Int:
		return utils.BigToInt64(x), true
	case float64:
		return utils.FloatToInteger(x)
	case string:
		return stringToInteger(x)
	}
	return 0, false
}

// concat implements a .. b: strings and numbers concatenate primitively,
// anything else dispatches __concat (left operand first).
func (self *luaState) concat(a, b any, line int) any {
	sa, oka := concatOperand(a)
	sb, okb := concatOperand(b)
	if oka && okb {
		return self.intern(sa + sb)
	}

	if result, ok := self.callMetamethod(a, b, "__concat"); ok {
		return result
	}

	bad := a
	if oka {
		bad = b
	}
	self.rtError(line, "attempt to concatenate a %s value", typeName(bad))
	return nil
}

func concatOperand(v any) (string, bool) {
	switch v.(type) {
	case string, int64, float64, *big.Int:
		return toString(v), true
	}
	return "", false
}
