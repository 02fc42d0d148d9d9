package state

import (
	"strings"
	"testing"

	"github.com/lollipopkit/lua54/stdlib"
)

func TestLoadString(t *testing.T) {
	expect(t, `
		local f = load('return 1 + 1')
		return f()`, int64(2))
	expect(t, `
		local f, err = load('return +')
		return f, err ~= nil`, nil, true)
}

func TestLoadWithEnv(t *testing.T) {
	expect(t, `
		local env = {x = 10}
		local f = load('return x', 'chunk', 't', env)
		return f()`, int64(10))
	// the sandbox env has no globals
	expect(t, `
		local f = load('return print', 'chunk', 't', {})
		return f()`, nil)
}

func TestLoadReaderFunction(t *testing.T) {
	expect(t, `
		local parts = {'return ', '40', ' + 2'}
		local i = 0
		local f = load(function()
			i = i + 1
			return parts[i]
		end)
		return f()`, int64(42))
}

func TestDumpRoundTrip(t *testing.T) {
	expect(t, `
		local function add(a, b) return a + b end
		local bin = string.dump(add)
		local f = load(bin)
		return f(2, 3)`, int64(5))
}

func TestDumpPreservesUpvalues(t *testing.T) {
	expect(t, `
		local base = 100
		local function addBase(n) return base + n end
		local f = load(string.dump(addBase))
		return f(5)`, int64(105))
}

func TestDumpHeaderVerified(t *testing.T) {
	// corrupting the header must be rejected, not crash
	expect(t, `
		local bin = string.dump(function() return 1 end)
		local truncated = bin:sub(1, 10)
		local f, err = load(truncated)
		return f, err ~= nil`, nil, true)
}

func TestLoadModeRestrictions(t *testing.T) {
	expect(t, `
		local bin = string.dump(function() end)
		local f, err = load(bin, 'c', 't')
		return f == nil, err`, true, "c: attempt to load a binary chunk")
	expect(t, `
		local f, err = load('return 1', 'c', 'b')
		return f == nil, err`, true, "c: attempt to load a text chunk")
}

func TestChunkIsVararg(t *testing.T) {
	ls := New()
	stdlib.OpenLibs(ls)
	c, err := ls.Load([]byte("return ..."), "va", "t", nil)
	if err != nil {
		t.Fatal(err)
	}
	vals, rerr := ls.ExecuteChunk(c, []any{int64(1), "two"})
	if rerr != nil {
		t.Fatal(rerr)
	}
	if len(vals) != 2 || vals[0] != int64(1) || vals[1] != "two" {
		t.Fatalf("got %#v", vals)
	}
}

func TestSyntaxErrorFormat(t *testing.T) {
	ls := New()
	_, err := ls.Load([]byte("local = 5"), "bad", "t", nil)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !strings.HasPrefix(err.Error(), "bad:1:") {
		t.Fatalf("missing position: %q", err.Error())
	}
}
