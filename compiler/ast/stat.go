package ast

/*
stat ::=  ‘;’
	| varlist ‘=’ explist
	| functioncall
	| label
	| break
	| goto Name
	| do block end
	| while exp do block end
	| repeat block until exp
	| if exp then block {elseif exp then block} [else block] end
	| for Name ‘=’ exp ‘,’ exp [‘,’ exp] do block end
	| for namelist in explist do block end
	| function funcname funcbody
	| local function Name funcbody
	| local attnamelist [‘=’ explist]
*/
type Stat interface{}

type EmptyStat struct{}              // ;
type BreakStat struct{ Line int }    // break
type LabelStat struct {              // ::Name::
	Line int    `json:"l"`
	Name string `json:"n"`
}
type GotoStat struct { // goto Name
	Line int    `json:"l"`
	Name string `json:"n"`
}
type DoStat struct { // do block end
	Block *Block `json:"b"`
}
type FuncCallStat = FuncCallExp // functioncall

type WhileStat struct {
	Exp   Exp    `json:"e"`
	Block *Block `json:"b"`
}

type RepeatStat struct {
	Block *Block `json:"b"`
	Exp   Exp    `json:"e"`
}

type IfStat struct {
	// else is stored as a trailing (TrueExp, block) pair.
	Exps   []Exp    `json:"es"`
	Blocks []*Block `json:"bs"`
}

type ForNumStat struct {
	LineOfFor int    `json:"lf"`
	LineOfDo  int    `json:"ld"`
	VarName   string `json:"v"`
	InitExp   Exp    `json:"i"`
	LimitExp  Exp    `json:"l"`
	StepExp   Exp    `json:"s"`
	Block     *Block `json:"b"`
}

type ForInStat struct {
	LineOfDo int      `json:"ld"`
	NameList []string `json:"ns"`
	ExpList  []Exp    `json:"es"`
	Block    *Block   `json:"b"`
}

// Local attributes of Lua 5.4: <const> and <close>. Attribs runs parallel
// to NameList; "" means no attribute.
const (
	AttribNone  = ""
	AttribConst = "const"
	AttribClose = "close"
)

type LocalVarDeclStat struct {
	LastLine int      `json:"ll"`
	NameList []string `json:"ns"`
	Attribs  []string `json:"as"`
	ExpList  []Exp    `json:"es"`
}

type AssignStat struct {
	LastLine int   `json:"ll"`
	VarList  []Exp `json:"vs"`
	ExpList  []Exp `json:"es"`
}

// local function Name funcbody
// The name is in scope inside the body, unlike `local f = function() end`.
type LocalFuncDefStat struct {
	Name string      `json:"n"`
	Exp  *FuncDefExp `json:"e"`
}
