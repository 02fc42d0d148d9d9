package state

import (
	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/compiler/ast"
	"github.com/lollipopkit/lua54/compiler/lexer"
)

// evalExp evaluates e to exactly one value: a multi-value producer is
// truncated to its first result here.
func (self *luaState) evalExp(e ast.Exp) any {
	switch x := e.(type) {
	case *ast.NilExp:
		return nil
	case *ast.TrueExp:
		return true
	case *ast.FalseExp:
		return false
	case *ast.IntegerExp:
		return x.Int
	case *ast.FloatExp:
		return x.Float
	case *ast.BigIntExp:
		return x.Int
	case *ast.StringExp:
		return x.Str
	case *ast.VarargExp:
		return first(self.evalVararg(x))
	case *ast.ParensExp:
		return self.evalExp(x.Exp)
	case *ast.NameExp:
		return self.evalName(x)
	case *ast.TableFieldExp:
		return self.index(self.evalExp(x.PrefixExp), self.intern(x.Field), x.Line)
	case *ast.TableIndexExp:
		return self.index(self.evalExp(x.PrefixExp), self.evalExp(x.KeyExp), x.LastLine)
	case *ast.FuncCallExp:
		return first(self.evalFuncCall(x))
	case *ast.FuncDefExp:
		return newLuaClosure(x, self.env, self.chunkName())
	case *ast.TableConstructorExp:
		return self.evalTableConstructor(x)
	case *ast.UnopExp:
		return self.evalUnop(x)
	case *ast.BinopExp:
		return self.evalBinop(x)
	}
	self.rtError(0, "cannot evaluate %T", e)
	return nil
}

// evalExpMulti evaluates the expressions that may produce several values;
// everything else comes back as a single-element slice.
func (self *luaState) evalExpMulti(e ast.Exp) []any {
	switch x := e.(type) {
	case *ast.VarargExp:
		return self.evalVararg(x)
	case *ast.FuncCallExp:
		return self.evalFuncCall(x)
	}
	return []any{self.evalExp(e)}
}

// evalExpList evaluates an expression list with the last-position rule:
// every expression but the last is adjusted to one value, the last is
// expanded.
func (self *luaState) evalExpList(exps []ast.Exp) []any {
	if len(exps) == 0 {
		return nil
	}
	vals := make([]any, 0, len(exps))
	for i := 0; i < len(exps)-1; i++ {
		vals = append(vals, self.evalExp(exps[i]))
	}
	return append(vals, self.evalExpMulti(exps[len(exps)-1])...)
}

func (self *luaState) evalVararg(x *ast.VarargExp) []any {
	b := self.env.find("...")
	if b == nil {
		self.rtError(x.Line, "cannot use '...' outside a vararg function")
	}
	va, _ := b.val.([]any)
	return va
}

// evalName resolves an identifier: the innermost visible box wins; a free
// name is sugar for _ENV.name.
func (self *luaState) evalName(x *ast.NameExp) any {
	if b := self.env.find(x.Name); b != nil {
		return b.val
	}
	return self.index(self.envTable(x.Line), self.intern(x.Name), x.Line)
}

// envTable resolves _ENV, which every chunk declares as its outermost
// local.
func (self *luaState) envTable(line int) any {
	if b := self.env.find("_ENV"); b != nil {
		return b.val
	}
	// host code running without a chunk around it
	return self.globals
}

func (self *luaState) evalFuncCall(x *ast.FuncCallExp) []any {
	self.markLine(x.Line)
	fn := self.evalExp(x.PrefixExp)
	name := callName(x)

	var args []any
	if x.NameExp != nil { // obj:m(...) => m(obj, ...)
		obj := fn
		fn = self.index(obj, self.intern(x.NameExp.Str), x.NameExp.Line)
		args = append([]any{obj}, self.evalExpList(x.Args)...)
	} else {
		args = self.evalExpList(x.Args)
	}

	self.markLine(x.Line)
	return self.call(fn, args, name)
}

// callName digs a display name out of the callee expression.
func callName(x *ast.FuncCallExp) string {
	if x.NameExp != nil {
		return x.NameExp.Str
	}
	switch p := x.PrefixExp.(type) {
	case *ast.NameExp:
		return p.Name
	case *ast.TableFieldExp:
		return p.Field
	}
	return ""
}

func (self *luaState) evalTableConstructor(x *ast.TableConstructorExp) any {
	nArr := 0
	for i := range x.ValExps {
		if x.KeyExps[i] == nil {
			nArr++
		}
	}
	t := newLuaTable(nArr, len(x.ValExps)-nArr)

	arrIdx := int64(0)
	for i := range x.ValExps {
		key := x.KeyExps[i]
		if key != nil {
			k := self.evalExp(key)
			if msg := t.put(k, self.evalExp(x.ValExps[i])); msg != "" {
				self.rtError(x.Line, "%s", msg)
			}
			continue
		}

		// array entry: the last one expands a multi-value
		if i == len(x.ValExps)-1 {
			for _, v := range self.evalExpMulti(x.ValExps[i]) {
				arrIdx++
				t.put(arrIdx, v)
			}
		} else {
			arrIdx++
			t.put(arrIdx, self.evalExp(x.ValExps[i]))
		}
	}
	return t
}

func (self *luaState) evalUnop(x *ast.UnopExp) any {
	switch x.Op {
	case lexer.TOKEN_OP_NOT:
		return !convertToBoolean(self.evalExp(x.Unop))
	case lexer.TOKEN_OP_LEN:
		return self.length(self.evalExp(x.Unop), x.Line)
	case lexer.TOKEN_OP_UNM:
		v := self.evalExp(x.Unop)
		return self.arith(v, v, LUA_OPUNM, x.Line)
	case lexer.TOKEN_OP_BNOT:
		v := self.evalExp(x.Unop)
		return self.arith(v, v, LUA_OPBNOT, x.Line)
	}
	self.rtError(x.Line, "bad unary operator")
	return nil
}

var binopToArithOp = map[int]ArithOp{
	lexer.TOKEN_OP_ADD:  LUA_OPADD,
	lexer.TOKEN_OP_SUB:  LUA_OPSUB,
	lexer.TOKEN_OP_MUL:  LUA_OPMUL,
	lexer.TOKEN_OP_MOD:  LUA_OPMOD,
	lexer.TOKEN_OP_POW:  LUA_OPPOW,
	lexer.TOKEN_OP_DIV:  LUA_OPDIV,
	lexer.TOKEN_OP_IDIV: LUA_OPIDIV,
	lexer.TOKEN_OP_BAND: LUA_OPBAND,
	lexer.TOKEN_OP_BOR:  LUA_OPBOR,
	lexer.TOKEN_OP_BXOR: LUA_OPBXOR,
	lexer.TOKEN_OP_SHL:  LUA_OPSHL,
	lexer.TOKEN_OP_SHR:  LUA_OPSHR,
}

func (self *luaState) evalBinop(x *ast.BinopExp) any {
	switch x.Op {
	case lexer.TOKEN_OP_AND:
		a := self.evalExp(x.Left)
		if !convertToBoolean(a) {
			return a
		}
		return self.evalExp(x.Right)
	case lexer.TOKEN_OP_OR:
		a := self.evalExp(x.Left)
		if convertToBoolean(a) {
			return a
		}
		return self.evalExp(x.Right)
	case lexer.TOKEN_OP_CONCAT:
		return self.concat(self.evalExp(x.Left), self.evalExp(x.Right), x.Line)
	case lexer.TOKEN_OP_EQ:
		return self.equals(self.evalExp(x.Left), self.evalExp(x.Right))
	case lexer.TOKEN_OP_NE:
		return !self.equals(self.evalExp(x.Left), self.evalExp(x.Right))
	case lexer.TOKEN_OP_LT:
		return self.lessThan(self.evalExp(x.Left), self.evalExp(x.Right), x.Line)
	case lexer.TOKEN_OP_GT:
		return self.lessThan(self.evalExp(x.Right), self.evalExp(x.Left), x.Line)
	case lexer.TOKEN_OP_LE:
		return self.lessEqual(self.evalExp(x.Left), self.evalExp(x.Right), x.Line)
	case lexer.TOKEN_OP_GE:
		return self.lessEqual(self.evalExp(x.Right), self.evalExp(x.Left), x.Line)
	}

	if op, ok := binopToArithOp[x.Op]; ok {
		return self.arith(self.evalExp(x.Left), self.evalExp(x.Right), op, x.Line)
	}
	self.rtError(x.Line, "bad binary operator")
	return nil
}
