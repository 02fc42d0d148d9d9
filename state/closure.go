package state

import (
	"fmt"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/compiler/ast"
)

// closure is the function value: a Lua function body plus its definition
// environment, or a Go function. Function identity is the *closure pointer.
type closure struct {
	proto     *ast.FuncDefExp // lua closure
	env       *environment    // definition-time environment
	chunkName string
	name      string // best-known name, for tracebacks
	goFunc    GoFunction
}

func newLuaClosure(proto *ast.FuncDefExp, env *environment, chunkName string) *closure {
	return &closure{proto: proto, env: env, chunkName: chunkName}
}

func newGoClosure(f GoFunction) *closure {
	return &closure{goFunc: f}
}

func (c *closure) String() string {
	if c.goFunc != nil {
		return fmt.Sprintf("function: builtin: %p", c)
	}
	return fmt.Sprintf("function: %p", c)
}
