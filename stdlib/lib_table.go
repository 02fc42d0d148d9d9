package stdlib

import (
	"sort"
	"strconv"
	"strings"

	. "github.com/lollipopkit/lua54/api"
)

var tableFuncs = map[string]GoFunction{
	"insert": tabInsert,
	"remove": tabRemove,
	"concat": tabConcat,
	"unpack": tabUnpack,
	"pack":   tabPack,
	"sort":   tabSort,
}

func OpenTableLib(ls State) {
	ls.Globals().Set("table", ls.NewLib(tableFuncs))
}

// table.insert (list, [pos,] value)
func tabInsert(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "insert")
	n := int64(t.Len())

	var pos, v any
	switch len(args) {
	case 2:
		pos, v = n+1, args[1]
	case 3:
		pos = checkInt(ls, args, 2, "insert")
		v = args[2]
		p := pos.(int64)
		if p < 1 || p > n+1 {
			return nil, argError(2, "insert", "position out of bounds")
		}
		// shift up
		for i := n; i >= p; i-- {
			next, err := ls.Index(t, i)
			if err != nil {
				return nil, err
			}
			if err := ls.SetIndex(t, i+1, next); err != nil {
				return nil, err
			}
		}
	default:
		return nil, ls.NewError("wrong number of arguments to 'insert'", 1)
	}
	if err := ls.SetIndex(t, pos, v); err != nil {
		return nil, err
	}
	return nil, nil
}

// table.remove (list [, pos])
func tabRemove(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "remove")
	n := int64(t.Len())
	pos := optInt(ls, args, 2, "remove", n)
	if n == 0 && argValue(args, 2) == nil {
		return one(nil), nil
	}
	if n > 0 && (pos < 1 || pos > n+1) {
		return nil, argError(2, "remove", "position out of bounds")
	}

	removed, err := ls.Index(t, pos)
	if err != nil {
		return nil, err
	}
	for i := pos; i < n; i++ {
		next, err := ls.Index(t, i+1)
		if err != nil {
			return nil, err
		}
		if err := ls.SetIndex(t, i, next); err != nil {
			return nil, err
		}
	}
	if pos <= n {
		if err := ls.SetIndex(t, n, nil); err != nil {
			return nil, err
		}
	}
	return one(removed), nil
}

// table.concat (list [, sep [, i [, j]]])
func tabConcat(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "concat")
	sep := optString(ls, args, 2, "concat", "")
	i := optInt(ls, args, 3, "concat", 1)
	j := optInt(ls, args, 4, "concat", int64(t.Len()))

	var sb strings.Builder
	for ; i <= j; i++ {
		v, err := ls.Index(t, i)
		if err != nil {
			return nil, err
		}
		switch v.(type) {
		case string, int64, float64:
			s, _ := ls.ToStringMeta(v)
			sb.WriteString(s)
		default:
			return nil, ls.NewError(
				"invalid value (at index "+itoa(i)+") in table for 'concat'", 1)
		}
		if i < j {
			sb.WriteString(sep)
		}
	}
	return one(sb.String()), nil
}

// table.unpack (list [, i [, j]])
func tabUnpack(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "unpack")
	i := optInt(ls, args, 2, "unpack", 1)
	j := optInt(ls, args, 3, "unpack", int64(t.Len()))
	if i > j {
		return nil, nil
	}
	if j-i >= 1_000_000 {
		return nil, ls.NewError("too many results to unpack", 1)
	}

	out := make([]any, 0, j-i+1)
	for ; i <= j; i++ {
		v, err := ls.Index(t, i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// table.pack (···)
func tabPack(ls State, args []any) ([]any, error) {
	t := ls.NewTable(len(args), 1)
	for i, v := range args {
		t.Set(int64(i+1), v)
	}
	t.Set("n", int64(len(args)))
	return one(t), nil
}

// table.sort (list [, comp])
func tabSort(ls State, args []any) ([]any, error) {
	t := checkTable(ls, args, 1, "sort")
	comp := argValue(args, 2)
	n := t.Len()

	items := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := ls.Index(t, int64(i+1))
		if err != nil {
			return nil, err
		}
		items[i] = v
	}

	var sortErr error
	sort.SliceStable(items, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		if comp != nil {
			results, err := ls.Call(comp, []any{items[a], items[b]})
			if err != nil {
				sortErr = err
				return false
			}
			return ls.ToBoolean(firstOf(results))
		}
		less, err := ls.Compare(items[a], items[b], LUA_OPLT)
		if err != nil {
			sortErr = err
			return false
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}

	for i, v := range items {
		if err := ls.SetIndex(t, int64(i+1), v); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
