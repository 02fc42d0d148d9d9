package state

import (
	"math"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/compiler/ast"
)

// flow is a typed non-local exit travelling up the evaluator: break,
// return, goto, or tail call. Errors are not flows; they unwind as panics.
type flowKind int

const (
	flowBreak flowKind = iota
	flowReturn
	flowGoto
	flowTailCall
)

type flow struct {
	kind   flowKind
	values []any  // return values
	label  string // goto target
	fn     any    // tail callee
	args   []any  // tail call arguments
}

// execBlock runs b in a fresh child scope.
func (self *luaState) execBlock(b *ast.Block) *flow {
	return self.execBlockEnv(b, newEnvironment(self.env))
}

// execBlockEnv runs b with env as its scope frame. The scope's
// to-be-closed list runs on every way out, error unwinds included.
func (self *luaState) execBlockEnv(b *ast.Block, env *environment) (fl *flow) {
	prev := self.env
	self.env = env
	defer self.leaveScope(env, prev)
	return self.execStats(b)
}

// leaveScope restores the enclosing scope and runs env's close-list in
// reverse declaration order, passing the error in flight (nil on a normal
// or flow exit).
func (self *luaState) leaveScope(env *environment, prev *environment) {
	self.env = prev
	if len(env.closes) == 0 {
		return
	}
	if r := recover(); r != nil {
		var errValue any
		if rt, ok := r.(*RuntimeError); ok {
			errValue = rt.Value
		} else if r != errCoKilled {
			panic(r) // a Go bug, not a Lua error
		}
		self.runCloseList(env, errValue)
		panic(r)
	}
	self.runCloseList(env, nil)
}

func (self *luaState) runCloseList(env *environment, errValue any) {
	var pending any // the latest error raised by a __close
	for i := len(env.closes) - 1; i >= 0; i-- {
		v := env.closes[i].val
		if v == nil || v == false {
			continue
		}
		mf := self.getMetafield(v, "__close")
		if mf == nil {
			continue
		}
		if _, err := self.pCall(mf, []any{v, errValue}); err != nil {
			pending = err
		}
	}
	env.closes = nil
	if pending != nil {
		panic(pending)
	}
}

// execStats runs the statements of a block, dispatching goto jumps to the
// labels this block owns, then evaluates its return statement.
func (self *luaState) execStats(b *ast.Block) *flow {
	var labels map[string]int
	for i, s := range b.Stats {
		if l, ok := s.(*ast.LabelStat); ok {
			if labels == nil {
				labels = make(map[string]int, 2)
			}
			labels[l.Name] = i
		}
	}

	i := 0
	for i < len(b.Stats) {
		fl := self.execStat(b.Stats[i])
		if fl == nil {
			i++
			continue
		}
		if fl.kind == flowGoto {
			if j, ok := labels[fl.label]; ok {
				i = j + 1
				continue
			}
		}
		return fl // break, return, tail call, or a goto for an outer block
	}

	if b.RetExps == nil {
		return nil
	}
	self.markLine(b.RetLine)

	// return f(args) in tail position reuses the frame
	if len(b.RetExps) == 1 {
		if call, ok := b.RetExps[0].(*ast.FuncCallExp); ok {
			fn, args := self.evalCallParts(call)
			return &flow{kind: flowTailCall, fn: fn, args: args}
		}
	}
	return &flow{kind: flowReturn, values: self.evalExpList(b.RetExps)}
}

func (self *luaState) execStat(stat ast.Stat) *flow {
	switch s := stat.(type) {
	case *ast.EmptyStat:
		return nil
	case *ast.BreakStat:
		self.markLine(s.Line)
		return &flow{kind: flowBreak}
	case *ast.LabelStat:
		return nil
	case *ast.GotoStat:
		self.markLine(s.Line)
		return &flow{kind: flowGoto, label: s.Name}
	case *ast.DoStat:
		return self.execBlock(s.Block)
	case *ast.FuncCallStat:
		self.evalFuncCall(s)
		return nil
	case *ast.WhileStat:
		return self.execWhile(s)
	case *ast.RepeatStat:
		return self.execRepeat(s)
	case *ast.IfStat:
		return self.execIf(s)
	case *ast.ForNumStat:
		return self.execForNum(s)
	case *ast.ForInStat:
		return self.execForIn(s)
	case *ast.LocalVarDeclStat:
		self.execLocalVarDecl(s)
		return nil
	case *ast.AssignStat:
		self.execAssign(s)
		return nil
	case *ast.LocalFuncDefStat:
		self.execLocalFuncDef(s)
		return nil
	}
	self.rtError(0, "cannot execute %T", stat)
	return nil
}

func (self *luaState) execWhile(s *ast.WhileStat) *flow {
	for convertToBoolean(self.evalExp(s.Exp)) {
		fl := self.execBlock(s.Block)
		if fl == nil {
			continue
		}
		if fl.kind == flowBreak {
			return nil
		}
		return fl
	}
	return nil
}

// execRepeat differs from while in that the until expression is evaluated
// inside the body's scope.
func (self *luaState) execRepeat(s *ast.RepeatStat) *flow {
	for {
		fl, done := self.execRepeatOnce(s)
		if fl != nil {
			if fl.kind == flowBreak {
				return nil
			}
			return fl
		}
		if done {
			return nil
		}
	}
}

func (self *luaState) execRepeatOnce(s *ast.RepeatStat) (fl *flow, done bool) {
	env := newEnvironment(self.env)
	prev := self.env
	self.env = env
	defer self.leaveScope(env, prev)

	fl = self.execStats(s.Block)
	if fl != nil {
		return fl, false
	}
	return nil, convertToBoolean(self.evalExp(s.Exp))
}

func (self *luaState) execIf(s *ast.IfStat) *flow {
	for i, exp := range s.Exps {
		if convertToBoolean(self.evalExp(exp)) {
			return self.execBlock(s.Blocks[i])
		}
	}
	return nil
}

func (self *luaState) execForNum(s *ast.ForNumStat) *flow {
	self.markLine(s.LineOfFor)
	init := self.forNumber(s.InitExp, "initial")
	limit := self.forNumber(s.LimitExp, "limit")
	step := self.forNumber(s.StepExp, "step")

	iInit, okInit := init.(int64)
	iLimit, okLimit := limit.(int64)
	iStep, okStep := step.(int64)
	if okInit && okLimit && okStep {
		if iStep == 0 {
			self.rtError(s.LineOfFor, "'for' step is zero")
		}
		return self.execForNumInt(s, iInit, iLimit, iStep)
	}

	fInit, _ := convertToFloat(init)
	fLimit, _ := convertToFloat(limit)
	fStep, _ := convertToFloat(step)
	if fStep == 0 {
		self.rtError(s.LineOfFor, "'for' step is zero")
	}
	return self.execForNumFloat(s, fInit, fLimit, fStep)
}

func (self *luaState) forNumber(e ast.Exp, what string) any {
	v := self.evalExp(e)
	switch v.(type) {
	case int64, float64:
		return v
	}
	self.rtError(0, "'for' %s value must be a number", what)
	return nil
}

func (self *luaState) execForNumInt(s *ast.ForNumStat, i, limit, step int64) *flow {
	for (step > 0 && i <= limit) || (step < 0 && i >= limit) {
		fl := self.execLoopBody(s.Block, []string{s.VarName}, []any{i})
		if fl != nil {
			if fl.kind == flowBreak {
				return nil
			}
			return fl
		}
		// stop before the control variable would wrap
		if step > 0 && i > math.MaxInt64-step {
			return nil
		}
		if step < 0 && i < math.MinInt64-step {
			return nil
		}
		i += step
	}
	return nil
}

func (self *luaState) execForNumFloat(s *ast.ForNumStat, f, limit, step float64) *flow {
	for (step > 0 && f <= limit) || (step < 0 && f >= limit) {
		fl := self.execLoopBody(s.Block, []string{s.VarName}, []any{f})
		if fl != nil {
			if fl.kind == flowBreak {
				return nil
			}
			return fl
		}
		f += step
	}
	return nil
}

// for vars in f, s, var do ... end
func (self *luaState) execForIn(s *ast.ForInStat) *flow {
	self.markLine(s.LineOfDo)
	vals := self.evalExpList(s.ExpList)
	f := valueAt(vals, 0)
	state := valueAt(vals, 1)
	control := valueAt(vals, 2)

	for {
		results := self.call(f, []any{state, control}, "for iterator")
		if first(results) == nil {
			return nil
		}
		control = results[0]

		vars := make([]any, len(s.NameList))
		for i := range vars {
			vars[i] = valueAt(results, i)
		}
		fl := self.execLoopBody(s.Block, s.NameList, vars)
		if fl != nil {
			if fl.kind == flowBreak {
				return nil
			}
			return fl
		}
	}
}

// execLoopBody runs one iteration with fresh boxes for the loop
// variables, so closures capture per-iteration values.
func (self *luaState) execLoopBody(b *ast.Block, names []string, vals []any) *flow {
	env := newEnvironment(self.env)
	for i, name := range names {
		env.declare(name, valueAt(vals, i))
	}
	return self.execBlockEnv(b, env)
}

func (self *luaState) execLocalVarDecl(s *ast.LocalVarDeclStat) {
	self.markLine(s.LastLine)
	vals := self.evalExpList(s.ExpList)
	for i, name := range s.NameList {
		b := self.env.declare(name, valueAt(vals, i))
		attrib := ast.AttribNone
		if i < len(s.Attribs) {
			attrib = s.Attribs[i]
		}
		switch attrib {
		case ast.AttribConst:
			b.constant = true
		case ast.AttribClose:
			v := b.val
			if v != nil && v != false && self.getMetafield(v, "__close") == nil {
				self.rtError(s.LastLine,
					"variable '%s' got a non-closable value", name)
			}
			b.constant = true
			self.env.markToClose(b)
		}
	}
}

func (self *luaState) execAssign(s *ast.AssignStat) {
	self.markLine(s.LastLine)
	vals := self.evalExpList(s.ExpList)
	for i, target := range s.VarList {
		self.assign(target, valueAt(vals, i), s.LastLine)
	}
}

func (self *luaState) assign(target ast.Exp, val any, line int) {
	switch t := target.(type) {
	case *ast.NameExp:
		if b := self.env.find(t.Name); b != nil {
			if b.constant {
				self.rtError(line, "attempt to assign to const variable '%s'", t.Name)
			}
			b.val = val
			return
		}
		// free name: _ENV.name = val
		self.setIndex(self.envTable(line), self.intern(t.Name), val, line)
	case *ast.TableFieldExp:
		self.setIndex(self.evalExp(t.PrefixExp), self.intern(t.Field), val, t.Line)
	case *ast.TableIndexExp:
		self.setIndex(self.evalExp(t.PrefixExp), self.evalExp(t.KeyExp), val, t.LastLine)
	default:
		self.rtError(line, "cannot assign to this expression")
	}
}

func (self *luaState) execLocalFuncDef(s *ast.LocalFuncDefStat) {
	b := self.env.declare(s.Name, nil)
	c := newLuaClosure(s.Exp, self.env, self.chunkName())
	c.name = s.Name
	b.val = c
}

// evalCallParts evaluates the callee and argument list of a call without
// invoking it; the tail-call path uses it to build the trampoline payload.
func (self *luaState) evalCallParts(x *ast.FuncCallExp) (fn any, args []any) {
	fn = self.evalExp(x.PrefixExp)
	if x.NameExp != nil {
		obj := fn
		fn = self.index(obj, self.intern(x.NameExp.Str), x.NameExp.Line)
		args = append([]any{obj}, self.evalExpList(x.Args)...)
		return
	}
	args = self.evalExpList(x.Args)
	return
}

func valueAt(vals []any, i int) any {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}
