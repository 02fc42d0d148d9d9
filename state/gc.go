package state

import (
	"runtime"

	"github.com/lollipopkit/lua54/logger"
)

// Reachability is delegated to the Go garbage collector: the root set of
// the interpreter (globals, environments, call stacks, coroutines) is
// exactly what keeps Go objects alive. What remains to implement is __gc:
// a value whose metatable declares the finalizer is queued when the Go
// runtime finds it unreachable, and the queue is drained at safe points —
// collectgarbage() and the end of a chunk — never mid-dispatch.

func (self *luaState) scheduleFinalizer(val any) {
	switch val.(type) {
	case *luaTable, *userdata:
	default:
		return
	}
	sh := self.shared
	runtime.SetFinalizer(val, func(v any) {
		sh.gcMu.Lock()
		sh.gcPending = append(sh.gcPending, v)
		sh.gcMu.Unlock()
	})
}

func (self *luaState) drainFinalizers() {
	self.gcMu.Lock()
	pending := self.gcPending
	self.gcPending = nil
	self.gcMu.Unlock()

	for _, v := range pending {
		mf := self.getMetafield(v, "__gc")
		if mf == nil {
			continue
		}
		// an error in a finalizer has no caller to report to
		if _, err := self.pCall(mf, []any{v}); err != nil {
			logger.E("error in __gc metamethod: %v", err)
		}
	}
}

// gc forces a collection cycle and runs queued finalizers.
func (self *luaState) gc() {
	runtime.GC()
	self.drainFinalizers()
}
