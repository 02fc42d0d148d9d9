package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/state"
	"github.com/lollipopkit/lua54/stdlib"
)

func run(t *testing.T, src string) []any {
	t.Helper()
	ls := state.New()
	stdlib.OpenLibs(ls)
	fn, err := ls.LoadChunk([]byte(src), "test", "t", nil)
	require.NoError(t, err)
	vals, rerr := ls.RunChunk(fn, nil)
	require.NoError(t, rerr)
	return vals
}

func TestTypeAndToString(t *testing.T) {
	vals := run(t, `return type(nil), type(true), type(1), type('s'), type({}), type(print)`)
	assert.Equal(t, []any{"nil", "boolean", "number", "string", "table", "function"}, vals)

	vals = run(t, `return tostring(nil), tostring(12), tostring(1.5), tostring(true)`)
	assert.Equal(t, []any{"nil", "12", "1.5", "true"}, vals)

	vals = run(t, `
		local t = setmetatable({}, {__tostring = function() return 'custom' end})
		return tostring(t)`)
	assert.Equal(t, []any{"custom"}, vals)
}

func TestToNumber(t *testing.T) {
	vals := run(t, `return tonumber('42'), tonumber('0x10'), tonumber('2.5'), tonumber('x')`)
	assert.Equal(t, []any{int64(42), int64(16), 2.5, nil}, vals)

	vals = run(t, `return tonumber('ff', 16), tonumber('777', 8), tonumber('z', 36)`)
	assert.Equal(t, []any{int64(255), int64(511), int64(35)}, vals)
}

func TestSelect(t *testing.T) {
	vals := run(t, `return select('#', 'a', 'b', 'c')`)
	assert.Equal(t, []any{int64(3)}, vals)

	vals = run(t, `return select(2, 'a', 'b', 'c')`)
	assert.Equal(t, []any{"b", "c"}, vals)

	vals = run(t, `return select(-1, 'a', 'b', 'c')`)
	assert.Equal(t, []any{"c"}, vals)
}

func TestStringLib(t *testing.T) {
	vals := run(t, `return string.rep('ab', 3), string.rep('x', 3, '-')`)
	assert.Equal(t, []any{"ababab", "x-x-x"}, vals)

	vals = run(t, `return string.sub('hello', -3), string.sub('hello', 2), string.sub('hello', 9)`)
	assert.Equal(t, []any{"llo", "ello", ""}, vals)

	vals = run(t, `return string.char(104, 105), string.reverse('abc')`)
	assert.Equal(t, []any{"hi", "cba"}, vals)
}

func TestTableLib(t *testing.T) {
	vals := run(t, `
		local t = {1, 2, 4}
		table.insert(t, 5)
		table.insert(t, 3, 3)
		return table.concat(t, ',')`)
	assert.Equal(t, []any{"1,2,3,4,5"}, vals)

	vals = run(t, `
		local t = {'a', 'b', 'c'}
		local removed = table.remove(t, 1)
		return removed, table.concat(t, '')`)
	assert.Equal(t, []any{"a", "bc"}, vals)

	vals = run(t, `
		local t = table.pack('x', 'y')
		return t.n, t[1], t[2]`)
	assert.Equal(t, []any{int64(2), "x", "y"}, vals)

	vals = run(t, `return table.unpack({10, 20, 30})`)
	assert.Equal(t, []any{int64(10), int64(20), int64(30)}, vals)

	vals = run(t, `
		local t = {3, 1, 2}
		table.sort(t)
		local d = {3, 1, 2}
		table.sort(d, function(a, b) return a > b end)
		return table.concat(t, ''), table.concat(d, '')`)
	assert.Equal(t, []any{"123", "321"}, vals)
}

func TestMathLib(t *testing.T) {
	vals := run(t, `return math.floor(1.7), math.ceil(1.2), math.abs(-3), math.max(1, 9, 4), math.min(2, -1)`)
	assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(9), int64(-1)}, vals)

	vals = run(t, `return math.tointeger(3.0), math.tointeger(3.5), math.fmod(7, 3)`)
	assert.Equal(t, []any{int64(3), nil, int64(1)}, vals)

	vals = run(t, `return math.huge > 0, math.pi > 3.14, math.ult(-1, 0)`)
	assert.Equal(t, []any{true, true, false}, vals)

	vals = run(t, `local r = math.random(5, 5) return r`)
	assert.Equal(t, []any{int64(5)}, vals)
}

func TestOsLib(t *testing.T) {
	vals := run(t, `return type(os.time()), os.clock() >= 0`)
	assert.Equal(t, []any{"number", true}, vals)

	vals = run(t, `return os.time({year = 2000, month = 1, day = 1, hour = 0}) > 0`)
	assert.Equal(t, []any{true}, vals)

	vals = run(t, `return os.date('!%Y', 0)`)
	assert.Equal(t, []any{"1970"}, vals)
}

func TestJsonLib(t *testing.T) {
	vals := run(t, `return json.get('{"a": {"b": 7}}', 'a.b')`)
	assert.Equal(t, []any{true, "7"}, vals)

	vals = run(t, `
		local v = json.parse('{"n": 3, "arr": [1, 2]}')
		return v.n, v.arr[1], v.arr[2]`)
	assert.Equal(t, []any{int64(3), int64(1), int64(2)}, vals)

	vals = run(t, `return json.encode({1, 2, 3})`)
	assert.Equal(t, []any{"[1,2,3]"}, vals)
}

func TestReLib(t *testing.T) {
	vals := run(t, `
		local m = re.match('key=value', '(%w+)=(%w+)')
		return m`)
	assert.Equal(t, []any{nil}, vals) // Lua patterns are not Go regexps

	vals = run(t, `
		local m = re.match('key=value', '(\\w+)=(\\w+)')
		return m[2], m[3]`)
	assert.Equal(t, []any{"key", "value"}, vals)

	vals = run(t, `return re.find('abcdef', 'cd')`)
	assert.Equal(t, []any{int64(3), int64(4)}, vals)

	vals = run(t, `return re.replace('a1b2', '\\d', '#')`)
	assert.Equal(t, []any{"a#b#"}, vals)
}

func TestGCIsCallable(t *testing.T) {
	vals := run(t, `return collectgarbage('collect')`)
	assert.Equal(t, []any{int64(0)}, vals)
}

func TestStateImplementsAPI(t *testing.T) {
	var _ api.State = state.New()
}
