package stdlib

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	. "github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/consts"
)

var baseFuncs = map[string]GoFunction{
	"print":          basePrint,
	"type":           baseType,
	"tostring":       baseToString,
	"tonumber":       baseToNumber,
	"ipairs":         baseIPairs,
	"pairs":          basePairs,
	"next":           baseNext,
	"select":         baseSelect,
	"rawget":         baseRawGet,
	"rawset":         baseRawSet,
	"rawequal":       baseRawEqual,
	"rawlen":         baseRawLen,
	"assert":         baseAssert,
	"error":          baseError,
	"pcall":          basePCall,
	"xpcall":         baseXPCall,
	"setmetatable":   baseSetMetatable,
	"getmetatable":   baseGetMetatable,
	"load":           baseLoad,
	"loadfile":       baseLoadFile,
	"dofile":         baseDoFile,
	"collectgarbage": baseCollectGarbage,
}

// lua-5.4.x/src/lbaselib.c#luaopen_base()
func OpenBaseLib(ls State) {
	for name, fn := range baseFuncs {
		ls.Register(name, fn)
	}
	g := ls.Globals()
	g.Set("_G", g)
	g.Set("_VERSION", consts.LangVersion)
}

// print (···)
// http://www.lua.org/manual/5.4/manual.html#pdf-print
func basePrint(ls State, args []any) ([]any, error) {
	parts := make([]string, len(args))
	for i, v := range args {
		s, err := ls.ToStringMeta(v)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	fmt.Println(strings.Join(parts, "\t"))
	return nil, nil
}

// type (v)
func baseType(ls State, args []any) ([]any, error) {
	v := checkAny(args, 1, "type")
	return one(ls.TypeName(v)), nil
}

// tostring (v)
func baseToString(ls State, args []any) ([]any, error) {
	checkAny(args, 1, "tostring")
	s, err := ls.ToStringMeta(args[0])
	if err != nil {
		return nil, err
	}
	return one(s), nil
}

// tonumber (e [, base])
func baseToNumber(ls State, args []any) ([]any, error) {
	if argValue(args, 2) == nil {
		v := checkAny(args, 1, "tonumber")
		if n, ok := ls.ToNumber(v); ok {
			return one(n), nil
		}
		return one(nil), nil
	}

	s := checkString(ls, args, 1, "tonumber")
	base := checkInt(ls, args, 2, "tonumber")
	if base < 2 || base > 36 {
		return nil, argError(2, "tonumber", "base out of range")
	}
	i, err := strconv.ParseInt(strings.TrimSpace(strings.ToLower(s)), int(base), 64)
	if err != nil {
		return one(nil), nil
	}
	return one(i), nil
}

// ipairs (t)
func baseIPairs(ls State, args []any) ([]any, error) {
	t := checkAny(args, 1, "ipairs")
	iter := func(ls State, args []any) ([]any, error) {
		i := checkInt(ls, args, 2, "ipairs iterator") + 1
		v, err := ls.Index(argValue(args, 1), i)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return one(nil), nil
		}
		return []any{i, v}, nil
	}
	return []any{ls.NewFunction(iter), t, int64(0)}, nil
}

// pairs (t): __pairs wins, then raw next.
func basePairs(ls State, args []any) ([]any, error) {
	t := checkAny(args, 1, "pairs")
	if mf := ls.GetMetafield(t, "__pairs"); mf != nil {
		results, err := ls.Call(mf, []any{t})
		if err != nil {
			return nil, err
		}
		for len(results) < 3 {
			results = append(results, nil)
		}
		return results[:3], nil
	}
	return []any{ls.NewFunction(baseNext), t, nil}, nil
}

// next (table [, index])
func baseNext(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "next")
	k, v, ok := t.Next(argValue(args, 2))
	if !ok {
		return one(nil), nil
	}
	return []any{k, v}, nil
}

// select (n, ···)
func baseSelect(ls State, args []any) ([]any, error) {
	rest := args[1:]
	if s, ok := argValue(args, 1).(string); ok && s == "#" {
		return one(int64(len(rest))), nil
	}
	n := checkInt(ls, args, 1, "select")
	if n < 0 {
		n = int64(len(rest)) + n + 1
	}
	if n < 1 {
		return nil, argError(1, "select", "index out of range")
	}
	if n > int64(len(rest)) {
		return nil, nil
	}
	return rest[n-1:], nil
}

func baseRawGet(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "rawget")
	k := checkAny(args, 2, "rawget")
	return one(t.Get(k)), nil
}

func baseRawSet(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "rawset")
	k := checkAny(args, 2, "rawset")
	v := argValue(args, 3)
	if err := t.Set(k, v); err != nil {
		return nil, err
	}
	return one(t), nil
}

func baseRawEqual(ls State, args []any) ([]any, error) {
	a := checkAny(args, 1, "rawequal")
	b := checkAny(args, 2, "rawequal")
	return one(ls.RawEqual(a, b)), nil
}

func baseRawLen(ls State, args []any) ([]any, error) {
	switch v := checkAny(args, 1, "rawlen").(type) {
	case string:
		return one(int64(len(v))), nil
	case Table:
		return one(int64(v.Len())), nil
	}
	return nil, argError(1, "rawlen", "table or string expected")
}

// assert (v [, message])
func baseAssert(ls State, args []any) ([]any, error) {
	v := checkAny(args, 1, "assert")
	if ls.ToBoolean(v) {
		return args, nil
	}
	if msg := argValue(args, 2); msg != nil {
		return nil, ls.NewError(msg, 0)
	}
	return nil, ls.NewError("assertion failed!", 1)
}

// error (message [, level])
func baseError(ls State, args []any) ([]any, error) {
	level := optInt(ls, args, 2, "error", 1)
	return nil, ls.NewError(argValue(args, 1), int(level))
}

// pcall (f [, arg1, ···])
func basePCall(ls State, args []any) ([]any, error) {
	f := checkAny(args, 1, "pcall")
	results, err := ls.PCall(f, args[1:])
	if err != nil {
		return []any{false, errorValue(err)}, nil
	}
	return append([]any{true}, results...), nil
}

// xpcall (f, msgh [, arg1, ···])
func baseXPCall(ls State, args []any) ([]any, error) {
	f := checkAny(args, 1, "xpcall")
	handler := checkFunction(ls, args, 2, "xpcall")
	results, err := ls.XPCall(f, handler, args[2:])
	if err != nil {
		return []any{false, errorValue(err)}, nil
	}
	return append([]any{true}, results...), nil
}

func errorValue(err error) any {
	if rt, ok := err.(*RuntimeError); ok {
		return rt.Value
	}
	return err.Error()
}

// setmetatable (table, metatable)
func baseSetMetatable(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "setmetatable")
	if old := t.Metatable(); old != nil && old.Get("__metatable") != nil {
		return nil, ls.NewError("cannot change a protected metatable", 1)
	}
	switch mt := argValue(args, 2).(type) {
	case nil:
		t.SetMetatable(nil)
	case Table:
		if err := ls.SetMetatable(t, mt); err != nil {
			return nil, err
		}
	default:
		return nil, argError(2, "setmetatable", "nil or table expected")
	}
	return one(t), nil
}

// getmetatable (object)
func baseGetMetatable(ls State, args []any) ([]any, error) {
	v := checkAny(args, 1, "getmetatable")
	mt := ls.GetMetatable(v)
	if mt == nil {
		return one(nil), nil
	}
	if protected := mt.Get("__metatable"); protected != nil {
		return one(protected), nil
	}
	return one(mt), nil
}

// load (chunk [, chunkname [, mode [, env]]])
func baseLoad(ls State, args []any) ([]any, error) {
	mode := optString(ls, args, 3, "load", "bt")
	var env Table
	if e := argValue(args, 4); e != nil {
		t, ok := e.(Table)
		if !ok {
			return nil, argError(4, "load", "table expected")
		}
		env = t
	}

	var source []byte
	var chunkName string
	switch chunk := checkAny(args, 1, "load").(type) {
	case string:
		source = []byte(chunk)
		chunkName = optString(ls, args, 2, "load", chunk)
	default:
		if ls.TypeOf(chunk) != LUA_TFUNCTION {
			return nil, argError(1, "load", "string or function expected")
		}
		chunkName = optString(ls, args, 2, "load", "=(load)")
		// reader function: concatenate pieces until nil or ""
		var sb strings.Builder
		for {
			results, err := ls.Call(chunk, nil)
			if err != nil {
				return []any{nil, errorValue(err)}, nil
			}
			piece := firstOf(results)
			if piece == nil {
				break
			}
			s, ok := piece.(string)
			if !ok {
				return []any{nil, "reader function must return a string"}, nil
			}
			if s == "" {
				break
			}
			sb.WriteString(s)
		}
		source = []byte(sb.String())
	}

	fn, err := ls.LoadChunk(source, chunkName, mode, env)
	if err != nil {
		return []any{nil, err.Error()}, nil
	}
	return one(fn), nil
}

// loadfile ([filename [, mode [, env]]])
func baseLoadFile(ls State, args []any) ([]any, error) {
	path := checkString(ls, args, 1, "loadfile")
	mode := optString(ls, args, 2, "loadfile", "bt")
	var env Table
	if e := argValue(args, 3); e != nil {
		t, ok := e.(Table)
		if !ok {
			return nil, argError(3, "loadfile", "table expected")
		}
		env = t
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []any{nil, "cannot open " + path}, nil
	}
	fn, lerr := ls.LoadChunk(data, "@"+path, mode, env)
	if lerr != nil {
		return []any{nil, lerr.Error()}, nil
	}
	return one(fn), nil
}

// dofile ([filename])
func baseDoFile(ls State, args []any) ([]any, error) {
	path := checkString(ls, args, 1, "dofile")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ls.NewError("cannot open "+path, 1)
	}
	fn, lerr := ls.LoadChunk(data, "@"+path, "bt", nil)
	if lerr != nil {
		return nil, ls.NewError(lerr.Error(), 0)
	}
	return ls.Call(fn, nil)
}

// collectgarbage ([opt [, arg]])
func baseCollectGarbage(ls State, args []any) ([]any, error) {
	opt := optString(ls, args, 1, "collectgarbage", "collect")
	switch opt {
	case "collect", "step", "incremental", "generational":
		ls.GC()
		return one(int64(0)), nil
	case "count":
		// heap usage is not measured; the count is always reported as 0
		return []any{float64(0), int64(0)}, nil
	case "isrunning":
		return one(true), nil
	}
	return one(int64(0)), nil
}

func firstOf(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
