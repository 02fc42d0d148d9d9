package state

import (
	"fmt"
	"os"
	"strings"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/binchunk"
	"github.com/lollipopkit/lua54/compiler/ast"
	"github.com/lollipopkit/lua54/compiler/parser"
	"github.com/lollipopkit/lua54/utils"
)

// Load compiles a chunk (text or binary) into a vararg closure whose _ENV
// is env (the globals table when nil). Syntax errors come back as the
// error result, never raised.
func (self *luaState) Load(chunk []byte, chunkName, mode string, env *luaTable) (*closure, error) {
	if env == nil {
		env = self.globals
	}

	if binchunk.IsBinaryChunk(chunk) {
		if mode == "t" {
			return nil, &SyntaxError{ChunkName: chunkName, Msg: "attempt to load a binary chunk"}
		}
		return self.loadBinary(chunk, chunkName, env)
	}

	if mode == "b" {
		return nil, &SyntaxError{ChunkName: chunkName, Msg: "attempt to load a text chunk"}
	}
	return self.loadText(string(chunk), chunkName, env)
}

func (self *luaState) loadText(source, chunkName string, env *luaTable) (*closure, error) {
	block, err := self.parseCached(source, chunkName)
	if err != nil {
		return nil, err
	}
	return self.wrapChunk(block, nil, true, chunkName, env), nil
}

// parseCached keeps recently compiled chunks keyed by their source hash.
func (self *luaState) parseCached(source, chunkName string) (*ast.Block, error) {
	key := utils.Sha256([]byte(source))
	if cached, ok := self.chunkCache.Get(key); ok {
		if block, ok := cached.(*ast.Block); ok {
			return block, nil
		}
	}
	block, err := parser.Parse(source, displayName(chunkName))
	if err != nil {
		return nil, err
	}
	self.chunkCache.Set(key, block)
	return block, nil
}

func (self *luaState) loadBinary(data []byte, chunkName string, env *luaTable) (*closure, error) {
	chunk, block, source, err := binchunk.Undump(data)
	if err != nil {
		return nil, &SyntaxError{ChunkName: chunkName, Msg: err.Error()}
	}
	if chunk == nil { // SRC fallback payload
		return self.loadText(source, chunkName, env)
	}

	proto := &ast.FuncDefExp{
		ParList:  chunk.ParList,
		IsVararg: chunk.IsVararg,
		Block:    block,
	}
	root := newEnvironment(nil)
	root.declare("_ENV", env)
	for _, uv := range chunk.Upvalues {
		if uv.Name == "_ENV" || uv.Val == nil {
			continue // a nil upvalue resolves through _ENV by name
		}
		root.declare(uv.Name, importDumpedValue(uv.Val))
	}
	name := chunk.Source
	if name == "" {
		name = chunkName
	}
	return newLuaClosure(proto, root, displayName(name)), nil
}

// wrapChunk builds the closure for a compiled block. A chunk is a vararg
// function beginning with `local _ENV = <env>`.
func (self *luaState) wrapChunk(block *ast.Block, parList []string, isVararg bool, chunkName string, env *luaTable) *closure {
	proto := &ast.FuncDefExp{
		ParList:  parList,
		IsVararg: isVararg,
		Block:    block,
	}
	root := newEnvironment(nil)
	root.declare("_ENV", env)
	return newLuaClosure(proto, root, displayName(chunkName))
}

// importDumpedValue undoes the json round-trip: integral numbers come back
// as integers again.
func importDumpedValue(v any) any {
	if f, ok := v.(float64); ok {
		if i, ok := utils.FloatToInteger(f); ok {
			return i
		}
	}
	return v
}

// displayName strips the conventional chunk-name markers: '@' for files,
// '=' for literal names.
func displayName(chunkName string) string {
	if strings.HasPrefix(chunkName, "@") || strings.HasPrefix(chunkName, "=") {
		return chunkName[1:]
	}
	return chunkName
}

// LoadFile loads a chunk from a file; the chunk name is "@path" per
// convention.
func (self *luaState) LoadFile(path, mode string, env *luaTable) (*closure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SyntaxError{ChunkName: path, Msg: "cannot open " + path}
	}
	return self.Load(data, "@"+path, mode, env)
}

// ExecuteChunk runs a loaded chunk with args as its varargs; runtime
// errors come back as *RuntimeError.
func (self *luaState) ExecuteChunk(c *closure, args []any) ([]any, error) {
	results, err := self.pCall(c, args)
	self.drainFinalizers()
	if err != nil {
		return nil, err
	}
	return results, nil
}

/* string.dump */

// dump serializes a Lua closure: its body as an AST plus the upvalues the
// body actually references, scalar values included so load can rebind
// them.
func (self *luaState) dump(fn any) ([]byte, error) {
	c, ok := fn.(*closure)
	if !ok || c.proto == nil {
		return nil, fmt.Errorf("unable to dump given function")
	}

	chunk := &binchunk.Chunk{
		Source:   c.chunkName,
		ParList:  c.proto.ParList,
		IsVararg: c.proto.IsVararg,
		Upvalues: self.collectUpvalues(c),
	}
	return binchunk.Dump(chunk, c.proto.Block)
}

func (self *luaState) collectUpvalues(c *closure) []binchunk.Upvalue {
	var ups []binchunk.Upvalue
	for _, name := range freeNames(c.proto) {
		b := c.env.find(name)
		if b == nil {
			continue // resolves through _ENV at load time
		}
		val := b.val
		switch val.(type) {
		case nil, bool, int64, float64, string:
		default:
			val = nil // non-scalar upvalues do not survive a dump
		}
		ups = append(ups, binchunk.Upvalue{Name: name, Val: val})
	}
	return ups
}
