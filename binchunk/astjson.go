package binchunk

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/lollipopkit/lua54/compiler/ast"
)

// The AST payload is a tree of {"t": kind, ...} objects. Integer literals
// travel as strings so values near the i64 edge survive the float64 path
// of the json codec.

func encodeBlock(b *ast.Block) map[string]any {
	stats := make([]any, 0, len(b.Stats))
	for _, s := range b.Stats {
		stats = append(stats, encodeStat(s))
	}
	m := map[string]any{
		"t":  "block",
		"ll": b.LastLine,
		"ss": stats,
		"rl": b.RetLine,
	}
	if b.RetExps != nil {
		m["rs"] = encodeExps(b.RetExps)
	}
	return m
}

func encodeExps(exps []ast.Exp) []any {
	out := make([]any, len(exps))
	for i, e := range exps {
		out[i] = encodeExp(e)
	}
	return out
}

func encodeStat(s ast.Stat) any {
	switch s := s.(type) {
	case *ast.BreakStat:
		return map[string]any{"t": "break", "l": s.Line}
	case *ast.LabelStat:
		return map[string]any{"t": "label", "l": s.Line, "n": s.Name}
	case *ast.GotoStat:
		return map[string]any{"t": "goto", "l": s.Line, "n": s.Name}
	case *ast.DoStat:
		return map[string]any{"t": "do", "b": encodeBlock(s.Block)}
	case *ast.WhileStat:
		return map[string]any{"t": "while", "e": encodeExp(s.Exp), "b": encodeBlock(s.Block)}
	case *ast.RepeatStat:
		return map[string]any{"t": "repeat", "e": encodeExp(s.Exp), "b": encodeBlock(s.Block)}
	case *ast.IfStat:
		blocks := make([]any, len(s.Blocks))
		for i, b := range s.Blocks {
			blocks[i] = encodeBlock(b)
		}
		return map[string]any{"t": "if", "es": encodeExps(s.Exps), "bs": blocks}
	case *ast.ForNumStat:
		return map[string]any{
			"t": "fornum", "lf": s.LineOfFor, "ld": s.LineOfDo, "v": s.VarName,
			"i": encodeExp(s.InitExp), "li": encodeExp(s.LimitExp),
			"s": encodeExp(s.StepExp), "b": encodeBlock(s.Block),
		}
	case *ast.ForInStat:
		return map[string]any{
			"t": "forin", "ld": s.LineOfDo, "ns": s.NameList,
			"es": encodeExps(s.ExpList), "b": encodeBlock(s.Block),
		}
	case *ast.LocalVarDeclStat:
		m := map[string]any{
			"t": "local", "ll": s.LastLine, "ns": s.NameList, "as": s.Attribs,
		}
		if s.ExpList != nil {
			m["es"] = encodeExps(s.ExpList)
		}
		return m
	case *ast.AssignStat:
		return map[string]any{
			"t": "assign", "ll": s.LastLine,
			"vs": encodeExps(s.VarList), "es": encodeExps(s.ExpList),
		}
	case *ast.LocalFuncDefStat:
		return map[string]any{"t": "localfunc", "n": s.Name, "e": encodeExp(s.Exp)}
	case *ast.FuncCallStat:
		return encodeExp(s)
	case *ast.EmptyStat:
		return map[string]any{"t": "empty"}
	}
	panic(fmt.Sprintf("unknown stat: %T", s))
}

func encodeExp(e ast.Exp) any {
	switch e := e.(type) {
	case *ast.NilExp:
		return map[string]any{"t": "nil", "l": e.Line}
	case *ast.TrueExp:
		return map[string]any{"t": "true", "l": e.Line}
	case *ast.FalseExp:
		return map[string]any{"t": "false", "l": e.Line}
	case *ast.VarargExp:
		return map[string]any{"t": "vararg", "l": e.Line}
	case *ast.IntegerExp:
		return map[string]any{"t": "int", "l": e.Line, "i": strconv.FormatInt(e.Int, 10)}
	case *ast.FloatExp:
		return map[string]any{"t": "float", "l": e.Line, "f": e.Float}
	case *ast.BigIntExp:
		return map[string]any{"t": "bigint", "l": e.Line, "i": e.Int.String()}
	case *ast.StringExp:
		return map[string]any{"t": "str", "l": e.Line, "s": e.Str, "lg": e.IsLong}
	case *ast.UnopExp:
		return map[string]any{"t": "unop", "l": e.Line, "o": e.Op, "e": encodeExp(e.Unop)}
	case *ast.BinopExp:
		return map[string]any{
			"t": "binop", "l": e.Line, "o": e.Op,
			"a": encodeExp(e.Left), "b": encodeExp(e.Right),
		}
	case *ast.TableConstructorExp:
		ks := make([]any, len(e.KeyExps))
		for i, k := range e.KeyExps {
			if k != nil {
				ks[i] = encodeExp(k)
			}
		}
		return map[string]any{
			"t": "table", "l": e.Line, "ll": e.LastLine,
			"ks": ks, "vs": encodeExps(e.ValExps),
		}
	case *ast.FuncDefExp:
		return map[string]any{
			"t": "func", "l": e.Line, "ll": e.LastLine,
			"ps": e.ParList, "v": e.IsVararg, "b": encodeBlock(e.Block),
		}
	case *ast.NameExp:
		return map[string]any{"t": "name", "l": e.Line, "n": e.Name}
	case *ast.ParensExp:
		return map[string]any{"t": "parens", "e": encodeExp(e.Exp)}
	case *ast.TableFieldExp:
		return map[string]any{
			"t": "field", "l": e.Line, "p": encodeExp(e.PrefixExp), "f": e.Field,
		}
	case *ast.TableIndexExp:
		return map[string]any{
			"t": "index", "ll": e.LastLine,
			"p": encodeExp(e.PrefixExp), "k": encodeExp(e.KeyExp),
		}
	case *ast.FuncCallExp:
		m := map[string]any{
			"t": "call", "l": e.Line, "ll": e.LastLine,
			"p": encodeExp(e.PrefixExp), "as": encodeExps(e.Args),
		}
		if e.NameExp != nil {
			m["m"] = encodeExp(e.NameExp)
		}
		return m
	}
	panic(fmt.Sprintf("unknown exp: %T", e))
}

/* decoding */

type decodeError struct{ msg string }

func (e *decodeError) Error() string { return e.msg }

func badNode(what string) error {
	return &decodeError{"malformed AST payload: " + what}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func fInt(m map[string]any, k string) int {
	if f, ok := m[k].(float64); ok {
		return int(f)
	}
	return 0
}

func fStr(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

func fBool(m map[string]any, k string) bool {
	b, _ := m[k].(bool)
	return b
}

func fStrList(m map[string]any, k string) []string {
	raw, _ := m[k].([]any)
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i], _ = v.(string)
	}
	return out
}

func decodeBlock(v any) (*ast.Block, error) {
	m, ok := asMap(v)
	if !ok || fStr(m, "t") != "block" {
		return nil, badNode("block expected")
	}

	rawStats, _ := m["ss"].([]any)
	stats := make([]ast.Stat, 0, len(rawStats))
	for _, rs := range rawStats {
		s, err := decodeStat(rs)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	var retExps []ast.Exp
	if raw, present := m["rs"]; present {
		var err error
		retExps, err = decodeExps(raw)
		if err != nil {
			return nil, err
		}
	}
	return &ast.Block{
		LastLine: fInt(m, "ll"),
		Stats:    stats,
		RetExps:  retExps,
		RetLine:  fInt(m, "rl"),
	}, nil
}

func decodeExps(v any) ([]ast.Exp, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, badNode("expression list expected")
	}
	out := make([]ast.Exp, len(raw))
	for i, rv := range raw {
		e, err := decodeExp(rv)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeStat(v any) (ast.Stat, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, badNode("statement expected")
	}

	switch fStr(m, "t") {
	case "break":
		return &ast.BreakStat{Line: fInt(m, "l")}, nil
	case "label":
		return &ast.LabelStat{Line: fInt(m, "l"), Name: fStr(m, "n")}, nil
	case "goto":
		return &ast.GotoStat{Line: fInt(m, "l"), Name: fStr(m, "n")}, nil
	case "do":
		b, err := decodeBlock(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.DoStat{Block: b}, nil
	case "while":
		e, err := decodeExp(m["e"])
		if err != nil {
			return nil, err
		}
		b, err := decodeBlock(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.WhileStat{Exp: e, Block: b}, nil
	case "repeat":
		e, err := decodeExp(m["e"])
		if err != nil {
			return nil, err
		}
		b, err := decodeBlock(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.RepeatStat{Block: b, Exp: e}, nil
	case "if":
		exps, err := decodeExps(m["es"])
		if err != nil {
			return nil, err
		}
		rawBlocks, _ := m["bs"].([]any)
		blocks := make([]*ast.Block, len(rawBlocks))
		for i, rb := range rawBlocks {
			blocks[i], err = decodeBlock(rb)
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfStat{Exps: exps, Blocks: blocks}, nil
	case "fornum":
		init, err := decodeExp(m["i"])
		if err != nil {
			return nil, err
		}
		limit, err := decodeExp(m["li"])
		if err != nil {
			return nil, err
		}
		step, err := decodeExp(m["s"])
		if err != nil {
			return nil, err
		}
		b, err := decodeBlock(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.ForNumStat{
			LineOfFor: fInt(m, "lf"), LineOfDo: fInt(m, "ld"),
			VarName: fStr(m, "v"),
			InitExp: init, LimitExp: limit, StepExp: step, Block: b,
		}, nil
	case "forin":
		exps, err := decodeExps(m["es"])
		if err != nil {
			return nil, err
		}
		b, err := decodeBlock(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.ForInStat{
			LineOfDo: fInt(m, "ld"), NameList: fStrList(m, "ns"),
			ExpList: exps, Block: b,
		}, nil
	case "local":
		var exps []ast.Exp
		if raw, present := m["es"]; present {
			var err error
			exps, err = decodeExps(raw)
			if err != nil {
				return nil, err
			}
		}
		return &ast.LocalVarDeclStat{
			LastLine: fInt(m, "ll"),
			NameList: fStrList(m, "ns"),
			Attribs:  fStrList(m, "as"),
			ExpList:  exps,
		}, nil
	case "assign":
		vars, err := decodeExps(m["vs"])
		if err != nil {
			return nil, err
		}
		exps, err := decodeExps(m["es"])
		if err != nil {
			return nil, err
		}
		return &ast.AssignStat{LastLine: fInt(m, "ll"), VarList: vars, ExpList: exps}, nil
	case "localfunc":
		e, err := decodeExp(m["e"])
		if err != nil {
			return nil, err
		}
		fd, ok := e.(*ast.FuncDefExp)
		if !ok {
			return nil, badNode("function body expected")
		}
		return &ast.LocalFuncDefStat{Name: fStr(m, "n"), Exp: fd}, nil
	case "call":
		e, err := decodeExp(v)
		if err != nil {
			return nil, err
		}
		return e.(*ast.FuncCallExp), nil
	case "empty":
		return &ast.EmptyStat{}, nil
	}
	return nil, badNode("unknown statement kind '" + fStr(m, "t") + "'")
}

func decodeExp(v any) (ast.Exp, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, badNode("expression expected")
	}

	switch fStr(m, "t") {
	case "nil":
		return &ast.NilExp{Line: fInt(m, "l")}, nil
	case "true":
		return &ast.TrueExp{Line: fInt(m, "l")}, nil
	case "false":
		return &ast.FalseExp{Line: fInt(m, "l")}, nil
	case "vararg":
		return &ast.VarargExp{Line: fInt(m, "l")}, nil
	case "int":
		i, err := strconv.ParseInt(fStr(m, "i"), 10, 64)
		if err != nil {
			return nil, badNode("bad integer literal")
		}
		return &ast.IntegerExp{Line: fInt(m, "l"), Int: i}, nil
	case "float":
		f, _ := m["f"].(float64)
		return &ast.FloatExp{Line: fInt(m, "l"), Float: f}, nil
	case "bigint":
		b, ok := new(big.Int).SetString(fStr(m, "i"), 10)
		if !ok {
			return nil, badNode("bad integer literal")
		}
		return &ast.BigIntExp{Line: fInt(m, "l"), Int: b}, nil
	case "str":
		return &ast.StringExp{Line: fInt(m, "l"), Str: fStr(m, "s"), IsLong: fBool(m, "lg")}, nil
	case "unop":
		e, err := decodeExp(m["e"])
		if err != nil {
			return nil, err
		}
		return &ast.UnopExp{Line: fInt(m, "l"), Op: fInt(m, "o"), Unop: e}, nil
	case "binop":
		a, err := decodeExp(m["a"])
		if err != nil {
			return nil, err
		}
		b, err := decodeExp(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.BinopExp{Line: fInt(m, "l"), Op: fInt(m, "o"), Left: a, Right: b}, nil
	case "table":
		rawKs, _ := m["ks"].([]any)
		ks := make([]ast.Exp, len(rawKs))
		for i, rk := range rawKs {
			if rk == nil {
				continue
			}
			k, err := decodeExp(rk)
			if err != nil {
				return nil, err
			}
			ks[i] = k
		}
		vs, err := decodeExps(m["vs"])
		if err != nil {
			return nil, err
		}
		return &ast.TableConstructorExp{
			Line: fInt(m, "l"), LastLine: fInt(m, "ll"),
			KeyExps: ks, ValExps: vs,
		}, nil
	case "func":
		b, err := decodeBlock(m["b"])
		if err != nil {
			return nil, err
		}
		return &ast.FuncDefExp{
			Line: fInt(m, "l"), LastLine: fInt(m, "ll"),
			ParList: fStrList(m, "ps"), IsVararg: fBool(m, "v"), Block: b,
		}, nil
	case "name":
		return &ast.NameExp{Line: fInt(m, "l"), Name: fStr(m, "n")}, nil
	case "parens":
		e, err := decodeExp(m["e"])
		if err != nil {
			return nil, err
		}
		return &ast.ParensExp{Exp: e}, nil
	case "field":
		p, err := decodeExp(m["p"])
		if err != nil {
			return nil, err
		}
		return &ast.TableFieldExp{Line: fInt(m, "l"), PrefixExp: p, Field: fStr(m, "f")}, nil
	case "index":
		p, err := decodeExp(m["p"])
		if err != nil {
			return nil, err
		}
		k, err := decodeExp(m["k"])
		if err != nil {
			return nil, err
		}
		return &ast.TableIndexExp{LastLine: fInt(m, "ll"), PrefixExp: p, KeyExp: k}, nil
	case "call":
		p, err := decodeExp(m["p"])
		if err != nil {
			return nil, err
		}
		args, err := decodeExps(m["as"])
		if err != nil {
			return nil, err
		}
		var nameExp *ast.StringExp
		if rawName, present := m["m"]; present {
			ne, err := decodeExp(rawName)
			if err != nil {
				return nil, err
			}
			nameExp, ok = ne.(*ast.StringExp)
			if !ok {
				return nil, badNode("method name expected")
			}
		}
		return &ast.FuncCallExp{
			Line: fInt(m, "l"), LastLine: fInt(m, "ll"),
			PrefixExp: p, NameExp: nameExp, Args: args,
		}, nil
	}
	return nil, badNode("unknown expression kind '" + fStr(m, "t") + "'")
}
