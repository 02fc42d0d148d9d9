package state

import (
	"strings"

	. "github.com/lollipopkit/lua54/api"
)

// *luaState implements api.State; *luaTable implements api.Table. The
// standard library programs against those interfaces only.

var _ State = (*luaState)(nil)
var _ Table = (*luaTable)(nil)

/* api.Table */

func (self *luaTable) Get(key any) any {
	return self.get(key)
}

func (self *luaTable) Set(key, val any) error {
	if msg := self.put(key, val); msg != "" {
		return &RuntimeError{Value: msg}
	}
	return nil
}

func (self *luaTable) Len() int {
	return self.len()
}

// Next skips entries deleted mid-iteration, so a pairs loop that assigns
// nil keeps going.
func (self *luaTable) Next(key any) (any, any, bool) {
	for {
		nk, valid := self.nextKey(key)
		if !valid || nk == nil {
			return nil, nil, false
		}
		if v := self.get(nk); v != nil {
			return nk, v, true
		}
		key = nk
	}
}

func (self *luaTable) Metatable() Table {
	if self.metatable == nil {
		return nil
	}
	return self.metatable
}

func (self *luaTable) SetMetatable(mt Table) {
	if mt == nil {
		self.metatable = nil
		return
	}
	self.metatable = mt.(*luaTable)
}

/* api.State: value model */

func (self *luaState) TypeOf(v any) LuaType {
	return typeOf(v)
}

func (self *luaState) TypeName(v any) string {
	return typeName(v)
}

func (self *luaState) ToBoolean(v any) bool {
	return convertToBoolean(v)
}

func (self *luaState) ToStringMeta(v any) (string, error) {
	return self.toStringMeta(v)
}

func (self *luaState) ToNumber(v any) (any, bool) {
	return toNumber(v)
}

func (self *luaState) ToInteger(v any) (int64, bool) {
	return convertToInteger(v)
}

func (self *luaState) RawEqual(a, b any) bool {
	return rawEqual(a, b)
}

/* api.State: tables and operators */

func (self *luaState) NewTable(nArr, nRec int) Table {
	return newLuaTable(nArr, nRec)
}

// protect converts the evaluator's panic-based errors into Go errors at
// the host boundary. Coroutine handoffs do not unwind, so they are
// unaffected.
func (self *luaState) protect(f func() []any) (results []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asRuntimeError(r)
			results = nil
		}
	}()
	return f(), nil
}

func (self *luaState) Index(t, k any) (any, error) {
	res, err := self.protect(func() []any {
		return []any{self.index(t, k, 0)}
	})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (self *luaState) SetIndex(t, k, v any) error {
	_, err := self.protect(func() []any {
		self.setIndex(t, k, v, 0)
		return nil
	})
	return err
}

func (self *luaState) Len(v any) (any, error) {
	res, err := self.protect(func() []any {
		return []any{self.length(v, 0)}
	})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (self *luaState) Concat(a, b any) (any, error) {
	res, err := self.protect(func() []any {
		return []any{self.concat(a, b, 0)}
	})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (self *luaState) Compare(a, b any, op CompareOp) (bool, error) {
	res, err := self.protect(func() []any {
		return []any{self.compare(a, b, op, 0)}
	})
	if err != nil {
		return false, err
	}
	return res[0].(bool), nil
}

func (self *luaState) GetMetatable(v any) Table {
	if mt := self.getMetatable(v); mt != nil {
		return mt
	}
	return nil
}

func (self *luaState) SetMetatable(v any, mt Table) error {
	var t *luaTable
	if mt != nil {
		var ok bool
		if t, ok = mt.(*luaTable); !ok {
			return &RuntimeError{Value: "metatable must be a table"}
		}
	}
	self.setMetatable(v, t)
	return nil
}

func (self *luaState) GetMetafield(v any, name string) any {
	return self.getMetafield(v, name)
}

/* api.State: calls and errors */

func (self *luaState) Call(fn any, args []any) ([]any, error) {
	return self.protect(func() []any {
		return self.call(fn, args, "")
	})
}

func (self *luaState) PCall(fn any, args []any) ([]any, error) {
	results, err := self.pCall(fn, args)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (self *luaState) XPCall(fn, handler any, args []any) ([]any, error) {
	results, err := self.xpCall(fn, handler, args)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (self *luaState) NewError(v any, level int) error {
	return self.newError(v, level)
}

func (self *luaState) Traceback(msg string) string {
	tb := strings.Join(self.traceback(), "\n")
	if msg == "" {
		return tb
	}
	return msg + "\n" + tb
}

/* api.State: environments */

func (self *luaState) Globals() Table {
	return self.globals
}

func (self *luaState) Registry() Table {
	return self.registry
}

/* api.State: loading */

func (self *luaState) LoadChunk(chunk []byte, chunkName, mode string, env Table) (any, error) {
	var envTable *luaTable
	if env != nil {
		envTable = env.(*luaTable)
	}
	c, err := self.Load(chunk, chunkName, mode, envTable)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (self *luaState) Dump(fn any) ([]byte, error) {
	return self.dump(fn)
}

func (self *luaState) RunChunk(fn any, args []any) ([]any, error) {
	c, ok := fn.(*closure)
	if !ok {
		return nil, &RuntimeError{Value: "attempt to run a non-function chunk"}
	}
	return self.ExecuteChunk(c, args)
}

/* api.State: coroutines */

func (self *luaState) NewCoroutine(fn any) any {
	c, ok := fn.(*closure)
	if !ok {
		return nil
	}
	return self.newCoroutine(c)
}

func (self *luaState) Resume(co any, args []any) ([]any, error) {
	thread, ok := co.(*luaState)
	if !ok {
		return nil, &RuntimeError{Value: "cannot resume a non-coroutine value"}
	}
	return self.resume(thread, args)
}

func (self *luaState) Yield(args []any) ([]any, error) {
	return self.yield(args)
}

func (self *luaState) CoroutineStatus(co any) string {
	thread, ok := co.(*luaState)
	if !ok {
		return StatusName(CO_DEAD)
	}
	return self.coroutineStatus(thread)
}

func (self *luaState) CloseCoroutine(co any) error {
	thread, ok := co.(*luaState)
	if !ok {
		return &RuntimeError{Value: "cannot close a non-coroutine value"}
	}
	return self.closeCoroutine(thread)
}

func (self *luaState) IsYieldable() bool {
	return self.isYieldable()
}

func (self *luaState) Running() (any, bool) {
	return self.current, self.current.isMain
}

/* api.State: gc */

func (self *luaState) GC() {
	self.gc()
}

// Register installs a Go function as a global, the way the standard
// library installs its entry points.
func (self *luaState) Register(name string, fn GoFunction) {
	c := newGoClosure(fn)
	c.name = name
	self.globals.put(name, c)
}

// NewFunction wraps a host function into a callable Lua value.
func (self *luaState) NewFunction(fn GoFunction) any {
	return newGoClosure(fn)
}

// NewLib builds a library table from a function map.
func (self *luaState) NewLib(funcs map[string]GoFunction) Table {
	t := newLuaTable(0, len(funcs))
	for name, fn := range funcs {
		c := newGoClosure(fn)
		c.name = name
		t.put(name, c)
	}
	return t
}
