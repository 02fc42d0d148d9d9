package state

import "testing"

func TestCoroutineBasic(t *testing.T) {
	expect(t, `
		local c = coroutine.create(function(x)
			local y = coroutine.yield(x + 1)
			return y * 2
		end)
		local ok, a = coroutine.resume(c, 10)
		local ok2, b = coroutine.resume(c, 5)
		return a, b`, int64(11), int64(10))
}

func TestCoroutineStatusWords(t *testing.T) {
	expect(t, `
		local c
		c = coroutine.create(function()
			coroutine.yield(coroutine.status(c))
		end)
		local before = coroutine.status(c)
		local _, inside = coroutine.resume(c)
		local after = coroutine.status(c)
		coroutine.resume(c)
		local done = coroutine.status(c)
		return before, inside, after, done`,
		"suspended", "running", "suspended", "dead")
}

func TestCoroutineNested(t *testing.T) {
	// while the inner coroutine runs, the outer one is 'normal'
	expect(t, `
		local outer
		local inner = coroutine.create(function()
			return coroutine.status(outer)
		end)
		outer = coroutine.create(function()
			local _, s = coroutine.resume(inner)
			return s
		end)
		local _, s = coroutine.resume(outer)
		return s`, "normal")
}

func TestResumeDeadCoroutine(t *testing.T) {
	expect(t, `
		local c = coroutine.create(function() end)
		coroutine.resume(c)
		local ok, err = coroutine.resume(c)
		return ok, err`, false, "cannot resume dead coroutine")
}

func TestYieldOutsideCoroutine(t *testing.T) {
	expect(t, `
		local ok, err = pcall(coroutine.yield)
		return ok, err`, false, "attempt to yield from outside a coroutine")
}

func TestPCallNonYieldable(t *testing.T) {
	expect(t, `
		local c = coroutine.wrap(function()
			local ok, err = pcall(coroutine.yield)
			return ok, err
		end)
		local ok, err = c()
		return ok, err`, false, "attempt to yield from outside a coroutine")
	expect(t, `
		local yieldable
		local c = coroutine.create(function()
			yieldable = coroutine.isyieldable()
		end)
		coroutine.resume(c)
		return yieldable, coroutine.isyieldable()`, true, false)
}

func TestCoroutineErrorPropagation(t *testing.T) {
	expect(t, `
		local c = coroutine.create(function() error('inner', 0) end)
		local ok, err = coroutine.resume(c)
		return ok, err, coroutine.status(c)`, false, "inner", "dead")
}

func TestCoroutineWrap(t *testing.T) {
	expect(t, `
		local gen = coroutine.wrap(function()
			for i = 1, 3 do coroutine.yield(i) end
		end)
		return gen(), gen(), gen()`, int64(1), int64(2), int64(3))
	// wrap propagates errors to the caller
	expect(t, `
		local f = coroutine.wrap(function() error('bang', 0) end)
		local ok, err = pcall(f)
		return ok, err`, false, "bang")
}

func TestCoroutineValuesThroughYield(t *testing.T) {
	expect(t, `
		local c = coroutine.create(function(a, b)
			local x, y = coroutine.yield(a + b, a - b)
			return x * y
		end)
		local _, s, d = coroutine.resume(c, 10, 4)
		local _, p = coroutine.resume(c, 2, 3)
		return s, d, p`, int64(14), int64(6), int64(6))
}

func TestCoroutineLIFO(t *testing.T) {
	// resumes and yields pair up strictly; globals mutate only while the
	// owner runs
	expect(t, `
		local trace = {}
		local function mark(s) trace[#trace+1] = s end
		local a = coroutine.create(function()
			mark('a1')
			coroutine.yield()
			mark('a2')
		end)
		local b = coroutine.create(function()
			mark('b1')
			coroutine.yield()
			mark('b2')
		end)
		coroutine.resume(a)
		coroutine.resume(b)
		coroutine.resume(a)
		coroutine.resume(b)
		return table.concat(trace, ',')`, "a1,b1,a2,b2")
}

func TestCoroutineClose(t *testing.T) {
	expect(t, `
		local closed = false
		local c = coroutine.create(function()
			local x <close> = setmetatable({}, {__close = function() closed = true end})
			coroutine.yield()
		end)
		coroutine.resume(c)
		local ok = coroutine.close(c)
		return ok, closed, coroutine.status(c)`, true, true, "dead")
	expect(t, `
		local c = coroutine.create(function() end)
		return coroutine.close(c), coroutine.status(c)`, true, "dead")
}

func TestRunningCoroutine(t *testing.T) {
	expect(t, `
		local _, main = coroutine.running()
		local inner
		local c = coroutine.create(function()
			local _, m = coroutine.running()
			inner = m
		end)
		coroutine.resume(c)
		return main, inner`, true, false)
}
