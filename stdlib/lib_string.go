package stdlib

import (
	"strings"

	. "github.com/lollipopkit/lua54/api"
)

var strFuncs = map[string]GoFunction{
	"len":     strLen,
	"sub":     strSub,
	"byte":    strByte,
	"char":    strChar,
	"rep":     strRep,
	"upper":   strUpper,
	"lower":   strLower,
	"reverse": strReverse,
	"dump":    strDump,
}

// OpenStringLib installs the string table and makes it the metatable of
// all strings, so s:method(...) dispatches through __index.
func OpenStringLib(ls State) {
	lib := ls.NewLib(strFuncs)
	ls.Globals().Set("string", lib)

	mt := ls.NewTable(0, 1)
	mt.Set("__index", lib)
	ls.SetMetatable("", mt)
}

// string.len (s)
func strLen(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "len")
	return one(int64(len(s))), nil
}

// string.sub (s, i [, j])
// Indices are bytes; negative indices count from the end.
func strSub(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "sub")
	i := strIndex(checkInt(ls, args, 2, "sub"), len(s))
	j := strIndexEnd(optInt(ls, args, 3, "sub", -1), len(s))
	if i < 1 {
		i = 1
	}
	if j > int64(len(s)) {
		j = int64(len(s))
	}
	if i > j {
		return one(""), nil
	}
	return one(s[i-1 : j]), nil
}

// string.byte (s [, i [, j]])
func strByte(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "byte")
	i := strIndex(optInt(ls, args, 2, "byte", 1), len(s))
	j := strIndexEnd(optInt(ls, args, 3, "byte", i), len(s))
	if i < 1 {
		i = 1
	}
	if j > int64(len(s)) {
		j = int64(len(s))
	}
	var out []any
	for ; i <= j; i++ {
		out = append(out, int64(s[i-1]))
	}
	return out, nil
}

// string.char (···)
func strChar(ls State, args []any) ([]any, error) {
	var sb strings.Builder
	for n := 1; n <= len(args); n++ {
		c := checkInt(ls, args, n, "char")
		if c < 0 || c > 255 {
			return nil, argError(n, "char", "value out of range")
		}
		sb.WriteByte(byte(c))
	}
	return one(sb.String()), nil
}

// string.rep (s, n [, sep])
func strRep(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "rep")
	n := checkInt(ls, args, 2, "rep")
	sep := optString(ls, args, 3, "rep", "")
	if n <= 0 {
		return one(""), nil
	}

	var sb strings.Builder
	for i := int64(0); i < n; i++ {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(s)
	}
	return one(sb.String()), nil
}

func strUpper(ls State, args []any) ([]any, error) {
	return one(strings.ToUpper(checkString(ls, args, 1, "upper"))), nil
}

func strLower(ls State, args []any) ([]any, error) {
	return one(strings.ToLower(checkString(ls, args, 1, "lower"))), nil
}

func strReverse(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "reverse")
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return one(string(b)), nil
}

// string.dump (function [, strip])
func strDump(ls State, args []any) ([]any, error) {
	fn := checkFunction(ls, args, 1, "dump")
	data, err := ls.Dump(fn)
	if err != nil {
		return nil, ls.NewError(err.Error(), 1)
	}
	return one(string(data)), nil
}

// strIndex translates a Lua string index (possibly negative) to 1-based.
func strIndex(i int64, length int) int64 {
	if i >= 0 {
		return i
	}
	return int64(length) + i + 1
}

func strIndexEnd(j int64, length int) int64 {
	if j >= 0 {
		return j
	}
	return int64(length) + j + 1
}
