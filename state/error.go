package state

import (
	"fmt"
	"strings"

	. "github.com/lollipopkit/lua54/api"
)

// rtError raises a runtime error with the standard position prefix and the
// current traceback attached. line <= 0 uses the innermost frame's line.
func (self *luaState) rtError(line int, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if line <= 0 {
		if f := self.topFrame(); f != nil {
			line = f.line
		}
	}
	var value any = msg
	if line > 0 {
		value = fmt.Sprintf("%s:%d: %s", self.chunkName(), line, msg)
	}
	panic(&RuntimeError{Value: value, Traceback: self.traceback()})
}

// throw raises an arbitrary Lua value as an error, unchanged.
func (self *luaState) throw(value any) {
	panic(&RuntimeError{Value: value, Traceback: self.traceback()})
}

// newError builds the error value of error(v, level): a string v gets the
// position prefix of the given call level (1 = the caller of error).
func (self *luaState) newError(v any, level int) *RuntimeError {
	if s, ok := v.(string); ok && level > 0 {
		// frames[len-1] is the error() builtin itself; its caller is
		// level 1
		idx := len(self.frames) - 1 - level
		if idx >= 0 && idx < len(self.frames) {
			f := self.frames[idx]
			v = fmt.Sprintf("%s:%d: %s", f.chunkName, f.line, s)
		}
	}
	return &RuntimeError{Value: v, Traceback: self.traceback()}
}

func (self *luaState) traceback() []string {
	tb := make([]string, 0, len(self.frames)+1)
	tb = append(tb, "stack traceback:")
	for i := len(self.frames) - 1; i >= 0; i-- {
		f := self.frames[i]
		where := fmt.Sprintf("%s:%d:", f.chunkName, f.line)
		switch {
		case i == 0 && self.isMain:
			tb = append(tb, fmt.Sprintf("\t%s in main chunk", where))
		case f.name != "":
			tb = append(tb, fmt.Sprintf("\t%s in function '%s'", where, f.name))
		default:
			tb = append(tb, fmt.Sprintf("\t%s in function <%s>", where, f.chunkName))
		}
	}
	if !self.isMain {
		tb = append(tb, "\t[C]: in ?")
	}
	return tb
}

// FormatError renders an error for the CLI: message plus traceback. A
// re-entrancy guard keeps a failing __tostring from looping.
func (self *luaState) FormatError(err error) string {
	rt, ok := err.(*RuntimeError)
	if !ok {
		return err.Error()
	}

	var msg string
	self.errFmtDepth++
	if self.errFmtDepth > 1 {
		msg = toString(rt.Value)
	} else if s, e := self.toStringMeta(rt.Value); e == nil {
		msg = s
	} else {
		msg = toString(rt.Value)
	}
	self.errFmtDepth--

	if len(rt.Traceback) == 0 {
		return msg
	}
	return msg + "\n" + strings.Join(rt.Traceback, "\n")
}

// asRuntimeError normalizes a recovered panic value. Non-Lua panics are
// re-raised: a Go bug must not masquerade as a Lua error.
func asRuntimeError(r any) *RuntimeError {
	if rt, ok := r.(*RuntimeError); ok {
		return rt
	}
	panic(r)
}
