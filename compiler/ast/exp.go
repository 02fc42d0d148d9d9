package ast

import "math/big"

/*
exp ::=  nil | false | true | Numeral | LiteralString | ‘...’ | functiondef |
	 prefixexp | tableconstructor | exp binop exp | unop exp

prefixexp ::= var | functioncall | ‘(’ exp ‘)’

var ::=  Name | prefixexp ‘[’ exp ‘]’ | prefixexp ‘.’ Name

functioncall ::=  prefixexp args | prefixexp ‘:’ Name args
*/

type Exp interface{}

type NilExp struct{ Line int }    // nil
type TrueExp struct{ Line int }   // true
type FalseExp struct{ Line int }  // false
type VarargExp struct{ Line int } // ...

// Numeral. A decimal integer literal outside the i64 range is kept as a
// big integer so tostring stays exact.
type IntegerExp struct {
	Line int   `json:"l"`
	Int  int64 `json:"i"`
}
type FloatExp struct {
	Line  int     `json:"l"`
	Float float64 `json:"f"`
}
type BigIntExp struct {
	Line int      `json:"l"`
	Int  *big.Int `json:"i"`
}

// LiteralString. Str holds raw bytes; escape sequences are already decoded.
type StringExp struct {
	Line  int    `json:"l"`
	Str   string `json:"s"`
	IsLong bool  `json:"lg"` // [[...]] form
}

// unop exp
type UnopExp struct {
	Line int `json:"l"` // line of operator
	Op   int `json:"o"`
	Unop Exp `json:"e"`
}

// exp1 op exp2
type BinopExp struct {
	Line  int `json:"l"` // line of operator
	Op    int `json:"o"`
	Left  Exp `json:"a"`
	Right Exp `json:"b"`
}

// tableconstructor ::= ‘{’ [fieldlist] ‘}’
// fieldlist ::= field {fieldsep field} [fieldsep]
// field ::= ‘[’ exp ‘]’ ‘=’ exp | Name ‘=’ exp | exp
// A nil entry in KeyExps marks an array-part field.
type TableConstructorExp struct {
	Line     int   `json:"l"`  // line of `{`
	LastLine int   `json:"ll"` // line of `}`
	KeyExps  []Exp `json:"ks"`
	ValExps  []Exp `json:"vs"`
}

// functiondef ::= function funcbody
// funcbody ::= ‘(’ [parlist] ‘)’ block end
type FuncDefExp struct {
	Line     int      `json:"l"`
	LastLine int      `json:"ll"` // line of `end`
	ParList  []string `json:"ps"`
	IsVararg bool     `json:"v"`
	Block    *Block   `json:"b"`
}

type NameExp struct {
	Line int    `json:"l"`
	Name string `json:"n"`
}

// ParensExp adjusts a multi-value expression to exactly one value.
type ParensExp struct {
	Exp Exp `json:"e"`
}

// t.Name — kept distinct from t[k] for metamethod and _ENV handling.
type TableFieldExp struct {
	Line      int    `json:"l"`
	PrefixExp Exp    `json:"p"`
	Field     string `json:"f"`
}

// t[k]
type TableIndexExp struct {
	LastLine  int `json:"ll"` // line of `]`
	PrefixExp Exp `json:"p"`
	KeyExp    Exp `json:"k"`
}

// f(args) and obj:m(args); NameExp is non-nil for a method call.
type FuncCallExp struct {
	Line      int        `json:"l"`  // line of `(`
	LastLine  int        `json:"ll"` // line of `)`
	PrefixExp Exp        `json:"p"`
	NameExp   *StringExp `json:"m"`
	Args      []Exp      `json:"as"`
}
