package parser

import (
	"fmt"

	. "github.com/lollipopkit/lua54/compiler/ast"
	. "github.com/lollipopkit/lua54/compiler/lexer"
)

// Check runs the semantic pre-pass over a parsed chunk. It rejects
// assignment to <const> locals, duplicate labels in a block, more than one
// <close> in a declaration list, goto into the scope of a local, and goto
// with no visible label.
func Check(block *Block, chunkName string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*Error); ok {
				err = le
				return
			}
			panic(r)
		}
	}()

	c := &checker{chunkName: chunkName}
	c.varargOK = append(c.varargOK, true) // a chunk is a vararg function
	c.loopDepth = append(c.loopDepth, 0)
	c.pushScope()
	pending := c.checkBlock(block)
	c.popScope()
	for _, g := range pending {
		c.errorf(g.line, "no visible label '%s' for <goto>", g.name)
	}
	return nil
}

type checker struct {
	chunkName string
	scopes    []map[string]string // name -> attrib
	varargOK  []bool              // per enclosing function
	loopDepth []int               // per enclosing function
}

type pendingGoto struct {
	name    string
	line    int
	statIdx int
}

type localDecl struct {
	name    string
	statIdx int
}

func (c *checker) errorf(line int, f string, a ...any) {
	panic(&Error{c.chunkName, line, fmt.Sprintf(f, a...)})
}

func (c *checker) pushScope() {
	c.scopes = append(c.scopes, map[string]string{})
}

func (c *checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *checker) declare(name, attrib string) {
	c.scopes[len(c.scopes)-1][name] = attrib
}

func (c *checker) attribOf(name string) (string, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if a, ok := c.scopes[i][name]; ok {
			return a, true
		}
	}
	return "", false
}

// checkBlock checks a block in a fresh scope and returns the gotos that
// found no label in it.
func (c *checker) checkBlock(block *Block) []pendingGoto {
	c.pushScope()
	defer c.popScope()
	return c.checkStats(block)
}

func (c *checker) checkStats(block *Block) []pendingGoto {
	labels := map[string]int{}  // name -> stat index
	var locals []localDecl      // in declaration order
	var pending []pendingGoto

	for i, stat := range block.Stats {
		switch s := stat.(type) {
		case *LabelStat:
			if _, dup := labels[s.Name]; dup {
				c.errorf(s.Line, "label '%s' already defined", s.Name)
			}
			labels[s.Name] = i
		case *GotoStat:
			pending = append(pending, pendingGoto{s.Name, s.Line, i})
		case *BreakStat:
			if c.loopDepth[len(c.loopDepth)-1] == 0 {
				c.errorf(s.Line, "break outside a loop")
			}
		case *EmptyStat:
		case *LocalVarDeclStat:
			nClose := 0
			for _, a := range s.Attribs {
				if a == AttribClose {
					nClose++
				}
			}
			if nClose > 1 {
				c.errorf(s.LastLine, "multiple to-be-closed variables in local list")
			}
			for _, e := range s.ExpList {
				c.checkExp(e)
			}
			for j, name := range s.NameList {
				c.declare(name, s.Attribs[j])
				locals = append(locals, localDecl{name, i})
			}
		case *LocalFuncDefStat:
			c.declare(s.Name, AttribNone)
			locals = append(locals, localDecl{s.Name, i})
			c.checkExp(s.Exp)
		case *AssignStat:
			for _, v := range s.VarList {
				if name, ok := v.(*NameExp); ok {
					if a, found := c.attribOf(name.Name); found && a != AttribNone {
						c.errorf(s.LastLine,
							"attempt to assign to const variable '%s'", name.Name)
					}
				}
				c.checkExp(v)
			}
			for _, e := range s.ExpList {
				c.checkExp(e)
			}
		case *FuncCallStat:
			c.checkExp(s)
		case *DoStat:
			pending = c.bubble(pending, c.checkBlock(s.Block), i)
		case *WhileStat:
			c.checkExp(s.Exp)
			c.enterLoop()
			pending = c.bubble(pending, c.checkBlock(s.Block), i)
			c.leaveLoop()
		case *RepeatStat:
			// the until expression sees the block's locals
			c.enterLoop()
			c.pushScope()
			sub := c.checkStats(s.Block)
			c.checkExp(s.Exp)
			c.popScope()
			c.leaveLoop()
			pending = c.bubble(pending, sub, i)
		case *IfStat:
			for _, e := range s.Exps {
				c.checkExp(e)
			}
			for _, b := range s.Blocks {
				pending = c.bubble(pending, c.checkBlock(b), i)
			}
		case *ForNumStat:
			c.checkExp(s.InitExp)
			c.checkExp(s.LimitExp)
			c.checkExp(s.StepExp)
			c.pushScope()
			c.declare(s.VarName, AttribNone)
			c.enterLoop()
			pending = c.bubble(pending, c.checkBlock(s.Block), i)
			c.leaveLoop()
			c.popScope()
		case *ForInStat:
			for _, e := range s.ExpList {
				c.checkExp(e)
			}
			c.pushScope()
			for _, name := range s.NameList {
				c.declare(name, AttribNone)
			}
			c.enterLoop()
			pending = c.bubble(pending, c.checkBlock(s.Block), i)
			c.leaveLoop()
			c.popScope()
		}
	}

	for _, e := range block.RetExps {
		c.checkExp(e)
	}

	// resolve gotos against this block's labels
	var unresolved []pendingGoto
	for _, g := range pending {
		j, found := labels[g.name]
		if !found {
			unresolved = append(unresolved, g)
			continue
		}
		if j > g.statIdx { // forward jump: must not enter a local's scope
			for _, l := range locals {
				if l.statIdx > g.statIdx && l.statIdx < j {
					c.errorf(g.line,
						"<goto %s> at line %d jumps into the scope of local '%s'",
						g.name, g.line, l.name)
				}
			}
		}
	}
	return unresolved
}

// bubble re-anchors gotos unresolved in a nested block at the position of
// the enclosing statement.
func (c *checker) bubble(pending, sub []pendingGoto, statIdx int) []pendingGoto {
	for _, g := range sub {
		g.statIdx = statIdx
		pending = append(pending, g)
	}
	return pending
}

func (c *checker) enterLoop() {
	c.loopDepth[len(c.loopDepth)-1]++
}

func (c *checker) leaveLoop() {
	c.loopDepth[len(c.loopDepth)-1]--
}

func (c *checker) checkExp(exp Exp) {
	switch e := exp.(type) {
	case *VarargExp:
		if !c.varargOK[len(c.varargOK)-1] {
			c.errorf(e.Line, "cannot use '...' outside a vararg function")
		}
	case *FuncDefExp:
		c.varargOK = append(c.varargOK, e.IsVararg)
		c.loopDepth = append(c.loopDepth, 0)
		c.pushScope()
		for _, p := range e.ParList {
			c.declare(p, AttribNone)
		}
		// a goto cannot cross a function boundary
		for _, g := range c.checkBlock(e.Block) {
			c.errorf(g.line, "no visible label '%s' for <goto>", g.name)
		}
		c.popScope()
		c.varargOK = c.varargOK[:len(c.varargOK)-1]
		c.loopDepth = c.loopDepth[:len(c.loopDepth)-1]
	case *UnopExp:
		c.checkExp(e.Unop)
	case *BinopExp:
		c.checkExp(e.Left)
		c.checkExp(e.Right)
	case *ParensExp:
		c.checkExp(e.Exp)
	case *TableFieldExp:
		c.checkExp(e.PrefixExp)
	case *TableIndexExp:
		c.checkExp(e.PrefixExp)
		c.checkExp(e.KeyExp)
	case *FuncCallExp:
		c.checkExp(e.PrefixExp)
		for _, a := range e.Args {
			c.checkExp(a)
		}
	case *TableConstructorExp:
		for i := range e.ValExps {
			if e.KeyExps[i] != nil {
				c.checkExp(e.KeyExps[i])
			}
			c.checkExp(e.ValExps[i])
		}
	}
}
