package state

import "github.com/lollipopkit/lua54/compiler/ast"

// freeNames lists the identifiers a function body references but does not
// bind: its upvalue candidates, in first-use order.
func freeNames(proto *ast.FuncDefExp) []string {
	fv := &freeVisitor{bound: map[string]int{}}
	for _, p := range proto.ParList {
		fv.bind(p)
	}
	fv.block(proto.Block)
	for _, p := range proto.ParList {
		fv.unbind(p)
	}
	return fv.free
}

type freeVisitor struct {
	bound map[string]int // name -> shadow count
	free  []string
	seen  map[string]bool
}

func (fv *freeVisitor) bind(name string) {
	fv.bound[name]++
}

func (fv *freeVisitor) unbind(name string) {
	if fv.bound[name] <= 1 {
		delete(fv.bound, name)
	} else {
		fv.bound[name]--
	}
}

func (fv *freeVisitor) use(name string) {
	if fv.bound[name] > 0 {
		return
	}
	if fv.seen == nil {
		fv.seen = map[string]bool{}
	}
	if !fv.seen[name] {
		fv.seen[name] = true
		fv.free = append(fv.free, name)
	}
}

func (fv *freeVisitor) block(b *ast.Block) {
	var declared []string
	for _, s := range b.Stats {
		declared = append(declared, fv.stat(s)...)
	}
	for _, e := range b.RetExps {
		fv.exp(e)
	}
	for i := len(declared) - 1; i >= 0; i-- {
		fv.unbind(declared[i])
	}
}

// stat visits a statement and returns the locals it declared in the
// surrounding block.
func (fv *freeVisitor) stat(s ast.Stat) []string {
	switch s := s.(type) {
	case *ast.LocalVarDeclStat:
		for _, e := range s.ExpList {
			fv.exp(e)
		}
		for _, n := range s.NameList {
			fv.bind(n)
		}
		return s.NameList
	case *ast.LocalFuncDefStat:
		fv.bind(s.Name)
		fv.exp(s.Exp)
		return []string{s.Name}
	case *ast.AssignStat:
		for _, v := range s.VarList {
			fv.exp(v)
		}
		for _, e := range s.ExpList {
			fv.exp(e)
		}
	case *ast.FuncCallStat:
		fv.exp(s)
	case *ast.DoStat:
		fv.block(s.Block)
	case *ast.WhileStat:
		fv.exp(s.Exp)
		fv.block(s.Block)
	case *ast.RepeatStat:
		// the until expression sees the block's locals; approximate by
		// visiting it inside a merged scope
		var declared []string
		for _, st := range s.Block.Stats {
			declared = append(declared, fv.stat(st)...)
		}
		for _, e := range s.Block.RetExps {
			fv.exp(e)
		}
		fv.exp(s.Exp)
		for i := len(declared) - 1; i >= 0; i-- {
			fv.unbind(declared[i])
		}
	case *ast.IfStat:
		for _, e := range s.Exps {
			fv.exp(e)
		}
		for _, b := range s.Blocks {
			fv.block(b)
		}
	case *ast.ForNumStat:
		fv.exp(s.InitExp)
		fv.exp(s.LimitExp)
		fv.exp(s.StepExp)
		fv.bind(s.VarName)
		fv.block(s.Block)
		fv.unbind(s.VarName)
	case *ast.ForInStat:
		for _, e := range s.ExpList {
			fv.exp(e)
		}
		for _, n := range s.NameList {
			fv.bind(n)
		}
		fv.block(s.Block)
		for _, n := range s.NameList {
			fv.unbind(n)
		}
	}
	return nil
}

func (fv *freeVisitor) exp(e ast.Exp) {
	switch e := e.(type) {
	case *ast.NameExp:
		fv.use(e.Name)
	case *ast.ParensExp:
		fv.exp(e.Exp)
	case *ast.UnopExp:
		fv.exp(e.Unop)
	case *ast.BinopExp:
		fv.exp(e.Left)
		fv.exp(e.Right)
	case *ast.TableFieldExp:
		fv.exp(e.PrefixExp)
	case *ast.TableIndexExp:
		fv.exp(e.PrefixExp)
		fv.exp(e.KeyExp)
	case *ast.FuncCallExp:
		fv.exp(e.PrefixExp)
		for _, a := range e.Args {
			fv.exp(a)
		}
	case *ast.TableConstructorExp:
		for i := range e.ValExps {
			if e.KeyExps[i] != nil {
				fv.exp(e.KeyExps[i])
			}
			fv.exp(e.ValExps[i])
		}
	case *ast.FuncDefExp:
		for _, p := range e.ParList {
			fv.bind(p)
		}
		fv.block(e.Block)
		for _, p := range e.ParList {
			fv.unbind(p)
		}
	}
}
