package stdlib

import (
	glc "git.lolli.tech/lollipopkit/go_lru_cacher"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	. "github.com/lollipopkit/lua54/api"
)

var (
	jsonLib = map[string]GoFunction{
		"get":    jsonGet,
		"parse":  jsonParse,
		"encode": jsonEncode,
	}
	json = jsoniter.ConfigCompatibleWithStandardLibrary
	// parsed documents are cached; REPL sessions hammer the same source
	gjsonCacher = glc.NewCacher(10)
)

func OpenJsonLib(ls State) {
	ls.Globals().Set("json", ls.NewLib(jsonLib))
}

func cachedParse(source string) gjson.Result {
	if cached, ok := gjsonCacher.Get(source); ok {
		if result, ok := cached.(gjson.Result); ok {
			return result
		}
	}
	result := gjson.Parse(source)
	gjsonCacher.Set(source, result)
	return result
}

// json.get (source, path)
// return ok, result
func jsonGet(ls State, args []any) ([]any, error) {
	source := checkString(ls, args, 1, "get")
	path := checkString(ls, args, 2, "get")

	result := cachedParse(source).Get(path)
	if !result.Exists() {
		return []any{false, ""}, nil
	}
	return []any{true, result.String()}, nil
}

// json.parse (source)
// return value, err
func jsonParse(ls State, args []any) ([]any, error) {
	source := checkString(ls, args, 1, "parse")
	if !gjson.Valid(source) {
		return []any{nil, "invalid json"}, nil
	}
	return []any{jsonToLua(ls, cachedParse(source)), nil}, nil
}

func jsonToLua(ls State, r gjson.Result) any {
	switch {
	case r.IsArray():
		items := r.Array()
		t := ls.NewTable(len(items), 0)
		for i, item := range items {
			t.Set(int64(i+1), jsonToLua(ls, item))
		}
		return t
	case r.IsObject():
		m := r.Map()
		t := ls.NewTable(0, len(m))
		for k, v := range m {
			t.Set(k, jsonToLua(ls, v))
		}
		return t
	case r.Type == gjson.String:
		return r.String()
	case r.Type == gjson.Number:
		f := r.Float()
		if i := int64(f); float64(i) == f {
			return i
		}
		return f
	case r.Type == gjson.True:
		return true
	case r.Type == gjson.False:
		return false
	}
	return nil
}

// json.encode (value)
// return str, err
func jsonEncode(ls State, args []any) ([]any, error) {
	v := checkAny(args, 1, "encode")
	data, err := json.Marshal(luaToJson(ls, v))
	if err != nil {
		return []any{nil, err.Error()}, nil
	}
	return []any{string(data), nil}, nil
}

func luaToJson(ls State, v any) any {
	t, ok := v.(Table)
	if !ok {
		switch v.(type) {
		case nil, bool, int64, float64, string:
			return v
		}
		s, _ := ls.ToStringMeta(v)
		return s
	}

	// a table with only the array part becomes a json array
	n := t.Len()
	arr := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		arr = append(arr, luaToJson(ls, t.Get(int64(i))))
	}

	obj := map[string]any{}
	k, val, ok := t.Next(nil)
	for ok {
		if i, isInt := k.(int64); !isInt || i < 1 || i > int64(n) {
			ks, _ := ls.ToStringMeta(k)
			obj[ks] = luaToJson(ls, val)
		}
		k, val, ok = t.Next(k)
	}
	if len(obj) == 0 {
		return arr
	}
	for i := range arr {
		obj[itoa(int64(i+1))] = arr[i]
	}
	return obj
}
