package state

import (
	"sync"

	glc "git.lolli.tech/lollipopkit/go_lru_cacher"
	. "github.com/lollipopkit/lua54/api"
)

const maxCallDepth = 20000

// shared is the interpreter-wide mutable state, reference-held by every
// thread. Only the running coroutine touches it; the scheduler hands it
// over whole at resume/yield boundaries.
type shared struct {
	registry *luaTable
	globals  *luaTable
	current  *luaState // the running coroutine

	chunkCache *glc.Cacher

	gcMu        sync.Mutex
	gcPending   []any
	errFmtDepth int // guards error-message formatting re-entrancy
}

// frame is one entry of the Lua call stack, kept for tracebacks and error
// positions.
type frame struct {
	name      string // best-known function name, "" for anonymous
	chunkName string
	line      int // line currently being executed
}

// luaState is a thread of execution. The main thread and every coroutine
// are luaStates sharing one *shared.
type luaState struct {
	*shared
	env    *environment
	frames []*frame
	depth  int // Go-recursion guard
	// count of protected calls on this thread; yield is rejected while > 0
	nonYieldable int

	/* coroutine */
	status  ThreadStatus
	caller  *luaState
	ch      chan coMsg
	coFn    *closure
	started bool
	isMain  bool
}

// New creates the main thread with empty globals. OpenLibs (stdlib) is the
// usual next call.
func New() *luaState {
	sh := &shared{
		registry:   newLuaTable(0, 8),
		globals:    newLuaTable(0, 20),
		chunkCache: glc.NewCacher(32),
	}
	ls := &luaState{
		shared: sh,
		status: CO_RUNNING,
		isMain: true,
	}
	sh.current = ls
	return ls
}

func (self *luaState) pushFrame(f *frame) {
	if self.depth >= maxCallDepth {
		self.rtError(f.line, "stack overflow")
	}
	self.depth++
	self.frames = append(self.frames, f)
}

func (self *luaState) popFrame() {
	self.frames = self.frames[:len(self.frames)-1]
	self.depth--
}

func (self *luaState) topFrame() *frame {
	if len(self.frames) == 0 {
		return nil
	}
	return self.frames[len(self.frames)-1]
}

// markLine records the line being executed in the innermost frame so
// errors and tracebacks can point at it.
func (self *luaState) markLine(line int) {
	if f := self.topFrame(); f != nil && line > 0 {
		f.line = line
	}
}

func (self *luaState) chunkName() string {
	if f := self.topFrame(); f != nil {
		return f.chunkName
	}
	return "?"
}
