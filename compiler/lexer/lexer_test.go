package lexer

import (
	"reflect"
	"testing"
)

func kindsOf(t *testing.T, chunk string) []int {
	t.Helper()
	l := NewLexer(chunk, "test")
	var kinds []int
	for {
		_, k, _ := l.NextToken()
		kinds = append(kinds, k)
		if k == TOKEN_EOF {
			break
		}
	}
	return kinds
}

func TestBasicTokens(t *testing.T) {
	kinds := kindsOf(t, "local x = 1 + 2.5")
	expect := []int{TOKEN_KW_LOCAL, TOKEN_IDENTIFIER, TOKEN_OP_ASSIGN,
		TOKEN_NUMBER, TOKEN_OP_ADD, TOKEN_NUMBER, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("tokens %v", kinds)
	}
}

func TestOperatorTokens(t *testing.T) {
	kinds := kindsOf(t, "a // b .. c ~= d << e :: f ...")
	expect := []int{TOKEN_IDENTIFIER, TOKEN_OP_IDIV, TOKEN_IDENTIFIER,
		TOKEN_OP_CONCAT, TOKEN_IDENTIFIER, TOKEN_OP_NE, TOKEN_IDENTIFIER,
		TOKEN_OP_SHL, TOKEN_IDENTIFIER, TOKEN_SEP_LABEL, TOKEN_IDENTIFIER,
		TOKEN_VARARG, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("tokens %v", kinds)
	}
}

func TestKeywords(t *testing.T) {
	kinds := kindsOf(t, "repeat until goto then end do")
	expect := []int{TOKEN_KW_REPEAT, TOKEN_KW_UNTIL, TOKEN_KW_GOTO,
		TOKEN_KW_THEN, TOKEN_KW_END, TOKEN_KW_DO, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("tokens %v", kinds)
	}
}

func TestStringEscapes(t *testing.T) {
	l := NewLexer(`'a\110b\x41\u{48}c\z
		d'`, "test")
	_, kind, token := l.NextToken()
	if kind != TOKEN_STRING {
		t.Fatalf("kind %d", kind)
	}
	if token != "anbAHcd" {
		t.Fatalf("token %q", token)
	}
}

func TestLongString(t *testing.T) {
	l := NewLexer("[[\nhello\nworld]]", "test")
	_, kind, token := l.NextToken()
	if kind != TOKEN_LONG_STRING {
		t.Fatalf("kind %d", kind)
	}
	// the first newline is dropped
	if token != "hello\nworld" {
		t.Fatalf("token %q", token)
	}

	l = NewLexer("[==[a]]b]==]", "test")
	_, _, token = l.NextToken()
	if token != "a]]b" {
		t.Fatalf("leveled token %q", token)
	}
}

func TestComments(t *testing.T) {
	kinds := kindsOf(t, "a -- line comment\nb --[[ long\ncomment ]] c")
	expect := []int{TOKEN_IDENTIFIER, TOKEN_IDENTIFIER, TOKEN_IDENTIFIER, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("tokens %v", kinds)
	}
}

func TestLineTracking(t *testing.T) {
	l := NewLexer("a\nb\n\nc", "test")
	lines := []int{}
	for {
		line, k, _ := l.NextToken()
		if k == TOKEN_EOF {
			break
		}
		lines = append(lines, line)
	}
	if !reflect.DeepEqual(lines, []int{1, 2, 4}) {
		t.Fatalf("lines %v", lines)
	}
}

func TestNumberTokens(t *testing.T) {
	kinds := kindsOf(t, "0xFF 1e3 .5 3.")
	expect := []int{TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("tokens %v", kinds)
	}
}

func TestShebangSkipped(t *testing.T) {
	kinds := kindsOf(t, "#!/usr/bin/lua\nreturn")
	expect := []int{TOKEN_KW_RETURN, TOKEN_EOF}
	if !reflect.DeepEqual(kinds, expect) {
		t.Fatalf("tokens %v", kinds)
	}
}
