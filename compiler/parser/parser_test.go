package parser

import (
	"strings"
	"testing"

	. "github.com/lollipopkit/lua54/compiler/ast"
)

func parseOK(t *testing.T, src string) *Block {
	t.Helper()
	block, err := Parse(src, "test")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return block
}

func parseErr(t *testing.T, src, substr string) {
	t.Helper()
	_, err := Parse(src, "test")
	if err == nil {
		t.Fatalf("expected error containing %q", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("error %q does not contain %q", err.Error(), substr)
	}
}

func TestParseLocalDecl(t *testing.T) {
	block := parseOK(t, "local a, b <const> = 1, 2")
	if len(block.Stats) != 1 {
		t.Fatalf("stats %d", len(block.Stats))
	}
	decl := block.Stats[0].(*LocalVarDeclStat)
	if decl.NameList[0] != "a" || decl.NameList[1] != "b" {
		t.Fatalf("names %v", decl.NameList)
	}
	if decl.Attribs[0] != AttribNone || decl.Attribs[1] != AttribConst {
		t.Fatalf("attribs %v", decl.Attribs)
	}
}

func TestFieldVsIndexAccess(t *testing.T) {
	block := parseOK(t, "return t.x, t['x']")
	exps := block.RetExps
	if _, ok := exps[0].(*TableFieldExp); !ok {
		t.Fatalf("t.x parsed as %T", exps[0])
	}
	if _, ok := exps[1].(*TableIndexExp); !ok {
		t.Fatalf("t['x'] parsed as %T", exps[1])
	}
}

func TestMethodCallParsed(t *testing.T) {
	block := parseOK(t, "obj:m(1)")
	call := block.Stats[0].(*FuncCallStat)
	if call.NameExp == nil || call.NameExp.Str != "m" {
		t.Fatalf("method name %v", call.NameExp)
	}
}

func TestFunctionStatementDesugar(t *testing.T) {
	block := parseOK(t, "function t.a:f() end")
	assign := block.Stats[0].(*AssignStat)
	fd := assign.ExpList[0].(*FuncDefExp)
	if len(fd.ParList) != 1 || fd.ParList[0] != "self" {
		t.Fatalf("self not injected: %v", fd.ParList)
	}
}

func TestPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3) and folds to 7
	block := parseOK(t, "return 1 + 2 * 3")
	if i, ok := block.RetExps[0].(*IntegerExp); !ok || i.Int != 7 {
		t.Fatalf("folded to %#v", block.RetExps[0])
	}
	// ^ is right associative: 2 ^ 3 ^ 2 == 2 ^ 9
	block = parseOK(t, "return 2 ^ 3 ^ 2")
	bin := block.RetExps[0].(*BinopExp)
	if _, ok := bin.Right.(*BinopExp); !ok {
		t.Fatalf("pow associativity wrong: %#v", bin)
	}
	// concat is right associative
	block = parseOK(t, "return 'a' .. 'b' .. 'c'")
	cat := block.RetExps[0].(*BinopExp)
	if _, ok := cat.Right.(*BinopExp); !ok {
		t.Fatalf("concat associativity wrong: %#v", cat)
	}
}

func TestUnaryMinusFolding(t *testing.T) {
	block := parseOK(t, "return -5")
	if i, ok := block.RetExps[0].(*IntegerExp); !ok || i.Int != -5 {
		t.Fatalf("got %#v", block.RetExps[0])
	}
}

func TestBigIntegerLiteralParsed(t *testing.T) {
	block := parseOK(t, "return 99999999999999999999")
	if _, ok := block.RetExps[0].(*BigIntExp); !ok {
		t.Fatalf("got %T", block.RetExps[0])
	}
}

func TestRepeatParsed(t *testing.T) {
	block := parseOK(t, "repeat x() until done")
	if _, ok := block.Stats[0].(*RepeatStat); !ok {
		t.Fatalf("got %T", block.Stats[0])
	}
}

func TestSyntaxErrors(t *testing.T) {
	parseErr(t, "local = 1", "expected")
	parseErr(t, "if x then", "'end' expected")
	parseErr(t, "return 1 +", "expected")
	parseErr(t, "local a <volatile> = 1", "unknown attribute")
}

/* semantic pre-pass */

func TestCheckerConstAssignment(t *testing.T) {
	parseErr(t, "local x <const> = 1 x = 2",
		"attempt to assign to const variable 'x'")
	// assignment from a nested closure is rejected too
	parseErr(t, "local x <const> = 1 local f = function() x = 2 end",
		"attempt to assign to const variable 'x'")
	// shadowing is fine
	parseOK(t, "local x <const> = 1 do local x = 2 x = 3 end")
}

func TestCheckerCloseAttrib(t *testing.T) {
	parseErr(t, "local a <close>, b <close> = nil, nil",
		"multiple to-be-closed variables in local list")
	parseOK(t, "local a <close>, b = nil, nil")
}

func TestCheckerDuplicateLabel(t *testing.T) {
	parseErr(t, "::L:: ::L::", "label 'L' already defined")
	// same label in sibling blocks is fine
	parseOK(t, "do ::L:: end do ::L:: end")
}

func TestCheckerGotoIntoScope(t *testing.T) {
	parseErr(t, "do goto L; local x = 1; ::L:: end",
		"jumps into the scope of local 'x'")
	// backward jumps and jumps out of nested blocks are fine
	parseOK(t, "do ::L:: local x = 1 goto L end")
	parseOK(t, "do do goto L end ::L:: end")
}

func TestCheckerUnresolvedGoto(t *testing.T) {
	parseErr(t, "goto nowhere", "no visible label 'nowhere'")
	// goto cannot cross a function boundary
	parseErr(t, "::L:: local f = function() goto L end",
		"no visible label 'L'")
}

func TestCheckerBreakOutsideLoop(t *testing.T) {
	parseErr(t, "break", "break outside a loop")
	parseErr(t, "while true do local f = function() break end end",
		"break outside a loop")
	parseOK(t, "while true do break end")
	parseOK(t, "repeat break until true")
}

func TestCheckerVarargScope(t *testing.T) {
	parseErr(t, "local f = function() return ... end",
		"cannot use '...' outside a vararg function")
	parseOK(t, "local f = function(...) return ... end")
	parseOK(t, "return ...") // a chunk is vararg
}
