package state

import (
	"errors"

	. "github.com/lollipopkit/lua54/api"
)

// Coroutines are stackful fibers: one goroutine each, handing control back
// and forth over an unbuffered channel. Exactly one goroutine runs at any
// moment, so resume/yield pairs stay strictly LIFO and no Lua state is
// ever touched concurrently.

type coMsg struct {
	values []any
	err    *RuntimeError
	kill   bool
}

// errCoKilled unwinds a coroutine being closed; it is not a Lua error and
// must pass through protected calls untouched.
var errCoKilled = errors.New("coroutine killed")

func (self *luaState) newCoroutine(fn *closure) *luaState {
	return &luaState{
		shared: self.shared,
		status: CO_SUSPENDED,
		coFn:   fn,
		ch:     make(chan coMsg),
	}
}

// resume transfers control to co until it yields, finishes, or fails.
func (self *luaState) resume(co *luaState, args []any) ([]any, error) {
	if co == self {
		return nil, &RuntimeError{Value: "cannot resume non-suspended coroutine"}
	}
	switch co.status {
	case CO_DEAD:
		return nil, &RuntimeError{Value: "cannot resume dead coroutine"}
	case CO_RUNNING, CO_NORMAL:
		return nil, &RuntimeError{Value: "cannot resume non-suspended coroutine"}
	}

	co.caller = self
	self.status = CO_NORMAL
	co.status = CO_RUNNING
	self.current = co

	if !co.started {
		co.started = true
		go co.run(args)
	} else {
		co.ch <- coMsg{values: args}
	}
	msg := <-self.ch

	self.current = self
	self.status = CO_RUNNING
	if msg.err != nil {
		co.status = CO_DEAD
		return nil, msg.err
	}
	if co.status != CO_DEAD {
		co.status = CO_SUSPENDED
	}
	return msg.values, nil
}

// run is the body of the coroutine goroutine: one call of the main
// function, then the final handoff.
func (co *luaState) run(args []any) {
	var msg coMsg
	func() {
		defer func() {
			if r := recover(); r != nil {
				if r == errCoKilled {
					msg = coMsg{kill: true}
					return
				}
				msg = coMsg{err: asRuntimeError(r)}
			}
		}()
		msg = coMsg{values: co.call(co.coFn, args, "")}
	}()
	co.status = CO_DEAD
	co.caller.ch <- msg
}

// yield parks the running coroutine and hands values to its resumer. The
// next resume's arguments become yield's results.
func (self *luaState) yield(values []any) ([]any, error) {
	if self.isMain || self.caller == nil || self.nonYieldable > 0 {
		return nil, &RuntimeError{Value: "attempt to yield from outside a coroutine"}
	}

	self.status = CO_SUSPENDED
	self.caller.ch <- coMsg{values: values}
	msg := <-self.ch
	if msg.kill {
		panic(errCoKilled)
	}
	return msg.values, nil
}

// closeCoroutine kills a suspended coroutine, running its pending
// to-be-closed variables.
func (self *luaState) closeCoroutine(co *luaState) error {
	if co == self || co.status == CO_RUNNING || co.status == CO_NORMAL {
		return &RuntimeError{Value: "cannot close a running coroutine"}
	}
	if co.status == CO_DEAD {
		return nil
	}
	if !co.started {
		co.status = CO_DEAD
		return nil
	}

	co.caller = self
	self.status = CO_NORMAL
	self.current = co
	co.ch <- coMsg{kill: true}
	msg := <-self.ch
	self.current = self
	self.status = CO_RUNNING

	co.status = CO_DEAD
	if msg.err != nil {
		return msg.err
	}
	return nil
}

func (self *luaState) coroutineStatus(co *luaState) string {
	switch {
	case co == self.current:
		return StatusName(CO_RUNNING)
	case co.status == CO_NORMAL:
		return StatusName(CO_NORMAL)
	case co.status == CO_DEAD:
		return StatusName(CO_DEAD)
	default:
		return StatusName(CO_SUSPENDED)
	}
}

func (self *luaState) isYieldable() bool {
	return !self.isMain && self.caller != nil && self.nonYieldable == 0
}
