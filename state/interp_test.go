package state

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lollipopkit/lua54/stdlib"
)

func runString(t *testing.T, src string) []any {
	t.Helper()
	vals, err := tryString(src)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return vals
}

func tryString(src string) ([]any, error) {
	ls := New()
	stdlib.OpenLibs(ls)
	c, err := ls.Load([]byte(src), "test", "t", nil)
	if err != nil {
		return nil, err
	}
	return ls.ExecuteChunk(c, nil)
}

func expect(t *testing.T, src string, want ...any) {
	t.Helper()
	got := runString(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func expectError(t *testing.T, src, substr string) {
	t.Helper()
	_, err := tryString(src)
	if err == nil {
		t.Fatalf("expected error containing %q, got none", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("error %q does not contain %q", err.Error(), substr)
	}
}

func TestMultiValueInTable(t *testing.T) {
	// the last array entry expands
	expect(t,
		`local t = {1, 2, (function() return 3, 4 end)()} return #t, t[3], t[4]`,
		int64(4), int64(3), int64(4))
	// a non-final call truncates to one value
	expect(t,
		`local t = {(function() return 3, 4 end)(), 5} return #t, t[1], t[2]`,
		int64(2), int64(3), int64(5))
}

func TestParenthesesAdjustToOne(t *testing.T) {
	expect(t, `
		local a, b = (function() return 1, 2 end)()
		local c, d = ((function() return 1, 2 end)())
		return a, b, c, d`,
		int64(1), int64(2), int64(1), nil)
	expect(t, `return select('#', (function() return 1, 2 end)())`, int64(2))
	expect(t, `return select('#', ((function() return 1, 2 end)()))`, int64(1))
}

func TestMultiValueAssignment(t *testing.T) {
	expect(t, `local a, b, c = 1, 2 return a, b, c`, int64(1), int64(2), nil)
	expect(t, `local function f() return 10, 20 end
		local a, b, c = f() return a, b, c`, int64(10), int64(20), nil)
	expect(t, `local function f() return 10, 20 end
		local a, b = f(), 1 return a, b`, int64(10), int64(1))
}

func TestVarargs(t *testing.T) {
	expect(t, `local function f(...) return select('#', ...) end
		return f(1, nil, 3)`, int64(3))
	expect(t, `local function f(a, ...) return a, ... end
		return f(1, 2, 3)`, int64(1), int64(2), int64(3))
	expect(t, `local function f(...) local t = {...} return #t end
		return f('a', 'b')`, int64(2))
}

func TestMetatableIndexChain(t *testing.T) {
	expect(t, `
		local a = setmetatable({}, {__index = {x = 1}})
		local b = setmetatable({}, {__index = a})
		return b.x`, int64(1))
	expect(t, `
		local t = setmetatable({}, {__index = function(_, k) return k .. '!' end})
		return t.hi`, "hi!")
}

func TestMetamethodExclusivity(t *testing.T) {
	// a present key never consults __index
	expect(t, `
		local hits = 0
		local t = setmetatable({x = 1}, {__index = function() hits = hits + 1 end})
		local _ = t.x
		return hits`, int64(0))
	// __newindex fires only for absent keys
	expect(t, `
		local log = {}
		local t = setmetatable({x = 1}, {__newindex = function(t, k, v) log[#log+1] = k end})
		t.x = 2
		t.y = 3
		return t.x, #log, log[1]`, int64(2), int64(1), "y")
}

func TestArithMetamethods(t *testing.T) {
	expect(t, `
		local mt = {__add = function(a, b) return 'added' end}
		local t = setmetatable({}, mt)
		return t + 1, 1 + t`, "added", "added")
	expect(t, `
		local mt = {__call = function(self, a) return a * 2 end}
		local t = setmetatable({}, mt)
		return t(21)`, int64(42))
}

func TestCloseOrdering(t *testing.T) {
	expect(t, `
		local log = {}
		do
			local a <close> = setmetatable({}, {__close = function() log[#log+1] = 'a' end})
			local b <close> = setmetatable({}, {__close = function() log[#log+1] = 'b' end})
		end
		return log[1], log[2]`, "b", "a")

	// break unwinds the scope too
	expect(t, `
		local log = {}
		for i = 1, 3 do
			local x <close> = setmetatable({}, {__close = function() log[#log+1] = i end})
			if i == 2 then break end
		end
		return #log, log[1], log[2]`, int64(2), int64(1), int64(2))

	// __close receives the error in flight
	expect(t, `
		local seen
		local ok, err = pcall(function()
			local x <close> = setmetatable({}, {__close = function(_, e) seen = e end})
			error('boom', 0)
		end)
		return ok, err, seen`, false, "boom", "boom")
}

func TestTailCall(t *testing.T) {
	expect(t, `
		local function f(n)
			if n == 0 then return 'ok' end
			return f(n - 1)
		end
		return f(1000000)`, "ok")
}

func TestIntegerOverflowWrap(t *testing.T) {
	expect(t, `return math.maxinteger + 1 == math.mininteger`, true)
	expect(t, `return math.mininteger - 1 == math.maxinteger`, true)
}

func TestGotoBackward(t *testing.T) {
	expect(t, `
		local n = 0
		::top::
		n = n + 1
		if n < 3 then goto top end
		return n`, int64(3))
}

func TestGotoContinuePattern(t *testing.T) {
	expect(t, `
		local sum = 0
		for i = 1, 5 do
			if i % 2 == 0 then goto continue end
			sum = sum + i
			::continue::
		end
		return sum`, int64(9))
}

func TestGenericFor(t *testing.T) {
	expect(t, `
		local t = {10, 20, 30}
		local sum = 0
		for i, v in ipairs(t) do sum = sum + i * v end
		return sum`, int64(140))
	expect(t, `
		local t = {a = 1, b = 2, c = 3}
		local n, sum = 0, 0
		for _, v in pairs(t) do n = n + 1 sum = sum + v end
		return n, sum`, int64(3), int64(6))
}

func TestNumericForSemantics(t *testing.T) {
	expect(t, `
		local n = 0
		for i = 1, 10, 2 do n = n + 1 end
		return n`, int64(5))
	expect(t, `
		local last
		for i = 3, 1, -1 do last = i end
		return last`, int64(1))
	// a float operand switches the control variable to float
	expect(t, `
		local kind
		for i = 1, 2, 0.5 do kind = math.type(i) end
		return kind`, "float")
	expectError(t, `for i = 1, 10, 0 do end`, "'for' step is zero")
}

func TestUpvalueCapture(t *testing.T) {
	expect(t, `
		local function counter()
			local n = 0
			return function() n = n + 1 return n end
		end
		local c = counter()
		c() c()
		return c()`, int64(3))

	// loop variables are fresh per iteration
	expect(t, `
		local fns = {}
		for i = 1, 3 do fns[i] = function() return i end end
		return fns[1](), fns[2](), fns[3]()`, int64(1), int64(2), int64(3))

	// two closures over the same local share its box
	expect(t, `
		local x = 0
		local function get() return x end
		local function set(v) x = v end
		set(42)
		return get()`, int64(42))
}

func TestEnvResolution(t *testing.T) {
	expect(t, `x = 5 return _G.x, _ENV.x`, int64(5), int64(5))
	expect(t, `
		local _ENV = {y = 7}
		return y`, int64(7))
	expect(t, `local x = 1 do local x = 2 end return x`, int64(1))
}

func TestStringMethods(t *testing.T) {
	expect(t, `return ('hello'):upper()`, "HELLO")
	expect(t, `local s = 'hello' return s:sub(2, 4), #s`, "ell", int64(5))
	expect(t, `return ('abc'):byte(1, 3)`, int64(97), int64(98), int64(99))
}

func TestConcat(t *testing.T) {
	expect(t, `return 'a' .. 'b' .. 1 .. 2.5`, "ab12.5")
	expect(t, `
		local mt = {__concat = function(a, b) return 'cat' end}
		local t = setmetatable({}, mt)
		return t .. 'x', 'x' .. t`, "cat", "cat")
	expectError(t, `return {} .. 'x'`, "attempt to concatenate a table value")
}

func TestRuntimeErrors(t *testing.T) {
	expectError(t, `local x = nil return x.y`, "attempt to index a nil value")
	expectError(t, `local f = 5 f()`, "attempt to call a number value")
	expectError(t, `return 1 // 0`, "attempt to perform 'n//0'")
	expectError(t, `return 1 % 0`, "attempt to perform 'n%0'")
	expectError(t, `return 1.5 | 2`, "number has no integer representation")
	expectError(t, `return {} + 1`, "attempt to perform arithmetic on a table value")
	expectError(t, `return {} < {}`, "attempt to compare two table values")
}

func TestErrorPositionPrefix(t *testing.T) {
	_, err := tryString("local x\n\nreturn x.y")
	if err == nil || !strings.Contains(err.Error(), "test:3:") {
		t.Fatalf("expected position prefix test:3:, got %v", err)
	}
}

func TestBitwise(t *testing.T) {
	expect(t, `return 0xF0 | 0x0F, 0xFF & 0x0F, 5 ~ 3, ~0`,
		int64(0xFF), int64(0x0F), int64(6), int64(-1))
	expect(t, `return 1 << 10, 1024 >> 10, 1 << 64, -1 >> 1`,
		int64(1024), int64(1), int64(0), int64(0x7FFFFFFFFFFFFFFF))
}

func TestRepeatUntil(t *testing.T) {
	// the until expression sees the body's locals
	expect(t, `
		local n = 0
		repeat
			local done = n >= 3
			n = n + 1
		until done
		return n`, int64(4))
}
