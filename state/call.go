package state

import (
	. "github.com/lollipopkit/lua54/api"
)

// call invokes fn with args, dispatching __call for non-functions. Errors
// unwind as panics; the protected entry points recover them.
func (self *luaState) call(fn any, args []any, name string) []any {
	if c, ok := fn.(*closure); ok {
		if c.goFunc != nil {
			return self.callGoClosure(c, args, name)
		}
		return self.callLuaClosure(c, args, name)
	}

	if mf := self.getMetafield(fn, "__call"); mf != nil {
		return self.call(mf, append([]any{fn}, args...), name)
	}

	self.rtError(0, "attempt to call a %s value", typeName(fn))
	return nil
}

// callLuaClosure runs the function-call protocol of a Lua closure: child
// environment of the *definition* environment, parameters bound
// positionally, the argument tail bound to '...' for vararg functions.
// A tail call re-enters the loop instead of recursing, so tail recursion
// runs in constant stack.
func (self *luaState) callLuaClosure(c *closure, args []any, name string) []any {
	for {
		fl := self.execClosureBody(c, args, name)

		if fl == nil {
			return nil
		}
		switch fl.kind {
		case flowReturn:
			return fl.values
		case flowTailCall:
			next, ok := fl.fn.(*closure)
			if !ok || next.proto == nil {
				// host functions and __call targets gain nothing from
				// the trampoline
				return self.call(fl.fn, fl.args, name)
			}
			c, args = next, fl.args
		default:
			// breaks and gotos cannot legally cross a function boundary
			self.rtError(0, "no visible label '%s' for goto", fl.label)
		}
	}
}

func (self *luaState) execClosureBody(c *closure, args []any, name string) *flow {
	env := newEnvironment(c.env)
	for i, param := range c.proto.ParList {
		env.declare(param, valueAt(args, i))
	}
	if c.proto.IsVararg {
		var varargs []any
		if len(args) > len(c.proto.ParList) {
			varargs = args[len(c.proto.ParList):]
		}
		env.declare("...", varargs)
	}

	if name == "" {
		name = c.name
	}
	self.pushFrame(&frame{name: name, chunkName: c.chunkName, line: c.proto.Line})
	defer self.popFrame()

	return self.execBlockEnv(c.proto.Block, env)
}

// callGoClosure hands the expanded argument list to a host function. A
// returned error is raised in the caller.
func (self *luaState) callGoClosure(c *closure, args []any, name string) []any {
	self.pushFrame(&frame{name: name, chunkName: "[Go]"})
	defer self.popFrame()

	results, err := c.goFunc(self, args)
	if err != nil {
		if rt, ok := err.(*RuntimeError); ok {
			panic(rt)
		}
		self.throw(err.Error())
	}
	return results
}

// pCall is the protected-call core shared by pcall, the close-list
// runner and the chunk runner. Yielding across it is rejected; see yield.
// Coroutine bodies are deliberately NOT run through it: they must stay
// yieldable.
func (self *luaState) pCall(fn any, args []any) (results []any, err *RuntimeError) {
	savedFrames := len(self.frames)
	savedDepth := self.depth
	savedEnv := self.env

	self.nonYieldable++
	defer func() {
		self.nonYieldable--
		if r := recover(); r != nil {
			err = asRuntimeError(r)
			results = nil
			// the unwound defers restored most of this; truncate what the
			// raise site left behind
			self.frames = self.frames[:savedFrames]
			self.depth = savedDepth
			self.env = savedEnv
		}
	}()

	return self.call(fn, args, ""), nil
}

// xpCall runs the message handler on failure; the handler sees the error
// with its traceback already captured, and its result replaces the error
// value.
func (self *luaState) xpCall(fn, handler any, args []any) ([]any, *RuntimeError) {
	results, err := self.pCall(fn, args)
	if err == nil {
		return results, nil
	}

	handled, herr := self.pCall(handler, []any{err.Value})
	if herr != nil {
		return nil, herr
	}
	err.Value = first(handled)
	return nil, err
}
