package state

// box is the storage cell of a local variable. Closures capture boxes, not
// values, so an upvalue is simply a shared *box.
type box struct {
	val      any
	constant bool // <const>: assignment rejected
	toClose  bool // <close>: __close runs at scope exit
}

// environment is one lexical scope frame. The parent link follows lexical
// nesting, never the call chain; the chunk's root frame holds _ENV.
type environment struct {
	vars   map[string]*box
	parent *environment
	// to-be-closed boxes of this scope, in declaration order
	closes []*box
}

func newEnvironment(parent *environment) *environment {
	return &environment{parent: parent}
}

// find resolves name through the scope chain; nil means the name is free
// and resolves through _ENV.
func (self *environment) find(name string) *box {
	for env := self; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			return b
		}
	}
	return nil
}

// declare introduces a new box, shadowing any outer binding.
func (self *environment) declare(name string, val any) *box {
	if self.vars == nil {
		self.vars = make(map[string]*box, 4)
	}
	b := &box{val: val}
	self.vars[name] = b
	return b
}

func (self *environment) markToClose(b *box) {
	b.toClose = true
	self.closes = append(self.closes, b)
}
