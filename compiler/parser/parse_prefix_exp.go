package parser

import (
	. "github.com/lollipopkit/lua54/compiler/ast"
	. "github.com/lollipopkit/lua54/compiler/lexer"
)

/*
prefixexp ::= Name |
	‘(’ exp ‘)’ |
	prefixexp ‘[’ exp ‘]’ |
	prefixexp ‘.’ Name |
	prefixexp [‘:’ Name] args
*/
func parsePrefixExp(lexer *Lexer) Exp {
	var exp Exp
	if lexer.LookAhead() == TOKEN_IDENTIFIER {
		line, name := lexer.NextIdentifier()
		exp = &NameExp{line, name}
	} else { // ‘(’ exp ‘)’
		exp = parseParensExp(lexer)
	}
	return _finishPrefixExp(lexer, exp)
}

func parseParensExp(lexer *Lexer) Exp {
	lexer.NextTokenOfKind(TOKEN_SEP_LPAREN)
	exp := parseExp(lexer)
	lexer.NextTokenOfKind(TOKEN_SEP_RPAREN)

	// parentheses adjust a multi-value expression to a single value, so
	// calls and varargs keep the wrapper; variables keep it too, so that a
	// parenthesized variable is not accepted as an assignment target
	switch exp.(type) {
	case *VarargExp, *FuncCallExp, *NameExp, *TableFieldExp, *TableIndexExp:
		return &ParensExp{exp}
	}
	return exp
}

func _finishPrefixExp(lexer *Lexer, exp Exp) Exp {
	for {
		switch lexer.LookAhead() {
		case TOKEN_SEP_LBRACK: // prefixexp ‘[’ exp ‘]’
			lexer.NextToken()
			keyExp := parseExp(lexer)
			lastLine, _ := lexer.NextTokenOfKind(TOKEN_SEP_RBRACK)
			exp = &TableIndexExp{lastLine, exp, keyExp}
		case TOKEN_SEP_DOT: // prefixexp ‘.’ Name
			lexer.NextToken()
			line, name := lexer.NextIdentifier()
			exp = &TableFieldExp{line, exp, name}
		case TOKEN_SEP_COLON, // prefixexp ‘:’ Name args
			TOKEN_SEP_LPAREN, TOKEN_SEP_LCURLY, TOKEN_STRING, TOKEN_LONG_STRING: // prefixexp args
			exp = _finishFuncCallExp(lexer, exp)
		default:
			return exp
		}
	}
}

// functioncall ::= prefixexp args | prefixexp ‘:’ Name args
func _finishFuncCallExp(lexer *Lexer, prefixExp Exp) *FuncCallExp {
	nameExp := _parseNameExp(lexer)
	line := lexer.Line()
	args := _parseArgs(lexer)
	lastLine := lexer.Line()
	return &FuncCallExp{line, lastLine, prefixExp, nameExp, args}
}

func _parseNameExp(lexer *Lexer) *StringExp {
	if lexer.LookAhead() == TOKEN_SEP_COLON {
		lexer.NextToken()
		line, name := lexer.NextIdentifier()
		return &StringExp{line, name, false}
	}
	return nil
}

// args ::= ‘(’ [explist] ‘)’ | tableconstructor | LiteralString
func _parseArgs(lexer *Lexer) (args []Exp) {
	switch lexer.LookAhead() {
	case TOKEN_SEP_LPAREN: // ‘(’ [explist] ‘)’
		lexer.NextToken()
		if lexer.LookAhead() != TOKEN_SEP_RPAREN {
			args = parseExpList(lexer)
		}
		lexer.NextTokenOfKind(TOKEN_SEP_RPAREN)
	case TOKEN_SEP_LCURLY: // tableconstructor
		args = []Exp{parseTableConstructorExp(lexer)}
	case TOKEN_STRING: // LiteralString
		line, _, token := lexer.NextToken()
		args = []Exp{&StringExp{line, token, false}}
	case TOKEN_LONG_STRING:
		line, _, token := lexer.NextToken()
		args = []Exp{&StringExp{line, token, true}}
	}
	return
}
