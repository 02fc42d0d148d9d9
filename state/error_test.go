package state

import (
	"strings"
	"testing"

	"github.com/lollipopkit/lua54/stdlib"
)

func TestPCall(t *testing.T) {
	expect(t, `return pcall(function() return 1, 2 end)`, true, int64(1), int64(2))
	expect(t, `
		local ok, err = pcall(function() error('oops') end)
		return ok, err`, false, "test:2: oops")
	expect(t, `
		local ok, err = pcall(function() error({code = 42}) end)
		return ok, err.code`, false, int64(42))
}

func TestErrorLevels(t *testing.T) {
	// level 0: no position prefix
	expect(t, `
		local ok, err = pcall(function() error('plain', 0) end)
		return err`, "plain")
	// non-string values are never decorated
	expect(t, `
		local ok, err = pcall(function() error(42) end)
		return err`, int64(42))
}

func TestXPCall(t *testing.T) {
	expect(t, `
		local ok, err = xpcall(function() error('x', 0) end, function(e)
			return 'handled: ' .. e
		end)
		return ok, err`, false, "handled: x")
	expect(t, `return xpcall(function() return 'fine' end, function() end)`,
		true, "fine")
}

func TestNestedPCall(t *testing.T) {
	expect(t, `
		local ok1, err1 = pcall(function()
			local ok2, err2 = pcall(function() error('inner', 0) end)
			error('outer: ' .. tostring(ok2) .. '/' .. err2, 0)
		end)
		return ok1, err1`, false, "outer: false/inner")
}

func TestAssert(t *testing.T) {
	expect(t, `return assert(42, 'unused')`, int64(42), "unused")
	expect(t, `
		local ok, err = pcall(function() assert(false, 'custom') end)
		return ok, err`, false, "custom")
	expect(t, `
		local ok, err = pcall(function() assert(nil) end)
		return ok, err`, false, "test:3: assertion failed!")
}

func TestControlFlowNotCaughtByPCall(t *testing.T) {
	// break/return inside the protected function behave normally
	expect(t, `
		local ok, v = pcall(function()
			for i = 1, 10 do
				if i == 3 then break end
			end
			return 'done'
		end)
		return ok, v`, true, "done")
}

func TestStackOverflowCaught(t *testing.T) {
	vals := runString(t, `
		local function f() return 1 + f() end
		local ok, err = pcall(f)
		return ok, err`)
	if vals[0] != false {
		t.Fatalf("expected overflow failure, got %#v", vals)
	}
	if s, _ := vals[1].(string); !strings.Contains(s, "stack overflow") {
		t.Fatalf("expected stack overflow error, got %#v", vals[1])
	}
}

func TestTracebackAttached(t *testing.T) {
	ls := New()
	stdlib.OpenLibs(ls)
	c, err := ls.Load([]byte("local function f() error('deep') end\nf()"), "tb", "t", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, rerr := ls.ExecuteChunk(c, nil)
	if rerr == nil {
		t.Fatal("expected error")
	}
	formatted := ls.FormatError(rerr)
	if !strings.Contains(formatted, "stack traceback:") {
		t.Fatalf("no traceback in %q", formatted)
	}
	if !strings.Contains(formatted, "tb:1: deep") {
		t.Fatalf("bad message in %q", formatted)
	}
}

func TestConstRejectedAtLoad(t *testing.T) {
	ls := New()
	_, err := ls.Load([]byte("local x <const> = 1 x = 2"), "c", "t", nil)
	if err == nil || !strings.Contains(err.Error(), "const") {
		t.Fatalf("expected const error, got %v", err)
	}
}

func TestGotoScopeRejectedAtLoad(t *testing.T) {
	ls := New()
	_, err := ls.Load([]byte("do goto L; local x = 1; ::L:: end"), "g", "t", nil)
	if err == nil {
		t.Fatal("expected load error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "jumps into the scope of local 'x'") {
		t.Fatalf("unexpected message %q", msg)
	}

	// a backward jump over a declaration is fine
	_, err = ls.Load([]byte("do ::L:: local x = 1 goto L end"), "g", "t", nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestMultipleCloseRejected(t *testing.T) {
	ls := New()
	_, err := ls.Load([]byte("local a <close>, b <close> = nil, nil"), "c", "t", nil)
	if err == nil || !strings.Contains(err.Error(), "multiple to-be-closed") {
		t.Fatalf("expected close error, got %v", err)
	}
}

func TestNonClosableValueRejected(t *testing.T) {
	expectError(t, `local x <close> = {}`, "non-closable value")
	// false and nil are allowed
	expect(t, `
		do local x <close> = false end
		return 'ok'`, "ok")
}
