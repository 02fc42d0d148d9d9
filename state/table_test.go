package state

import "testing"

func TestTableBorder(t *testing.T) {
	expect(t, `return #{}`, int64(0))
	expect(t, `return #{1, 2, 3}`, int64(3))
	expect(t, `local t = {1, 2, 3} t[3] = nil return #t`, int64(2))
	expect(t, `local t = {} t[1] = 'a' t[2] = 'b' return #t`, int64(2))
	// filling the hole joins the parts
	expect(t, `local t = {1} t[3] = 3 t[2] = 2 return #t`, int64(3))
}

func TestTableKeys(t *testing.T) {
	// float keys with integer values collapse onto integer keys
	expect(t, `local t = {} t[1.0] = 'x' return t[1]`, "x")
	expect(t, `local t = {[2.5] = 'y'} return t[2.5]`, "y")
	expectError(t, `local t = {} t[nil] = 1`, "table index is nil")
	expectError(t, `local t = {} t[0/0] = 1`, "table index is NaN")
}

func TestNilRemovesKey(t *testing.T) {
	expect(t, `
		local t = {a = 1}
		t.a = nil
		local n = 0
		for _ in pairs(t) do n = n + 1 end
		return n, t.a`, int64(0), nil)
}

func TestNextIteration(t *testing.T) {
	expect(t, `
		local t = {10, 20, x = 30}
		local sum = 0
		local k, v = next(t)
		while k do
			sum = sum + v
			k, v = next(t, k)
		end
		return sum`, int64(60))
	expect(t, `return next({})`, nil)
}

func TestArrayPartOrder(t *testing.T) {
	expect(t, `
		local t = {'a', 'b', 'c'}
		local order = ''
		for i, v in ipairs(t) do order = order .. v end
		return order`, "abc")
}

func TestProtectedMetatable(t *testing.T) {
	expectError(t, `
		local t = setmetatable({}, {__metatable = 'locked'})
		setmetatable(t, {})`, "cannot change a protected metatable")
	expect(t, `
		local t = setmetatable({}, {__metatable = 'locked'})
		return getmetatable(t)`, "locked")
}

func TestRawAccessors(t *testing.T) {
	expect(t, `
		local t = setmetatable({}, {__index = function() return 'meta' end})
		return t.x, rawget(t, 'x')`, "meta", nil)
	expect(t, `
		local t = setmetatable({}, {__newindex = function() end})
		rawset(t, 'x', 1)
		return t.x`, int64(1))
	expect(t, `
		local t = setmetatable({1, 2}, {__len = function() return 99 end})
		return #t, rawlen(t)`, int64(99), int64(2))
}

func TestEqMetamethod(t *testing.T) {
	expect(t, `
		local mt = {__eq = function() return true end}
		local a = setmetatable({}, mt)
		local b = setmetatable({}, mt)
		return a == b, a ~= b, rawequal(a, b)`, true, false, false)
	// __eq is not consulted across types
	expect(t, `
		local a = setmetatable({}, {__eq = function() return true end})
		return a == 1`, false)
}
