package stdlib

import (
	. "github.com/lollipopkit/lua54/api"
)

var coFuncs = map[string]GoFunction{
	"create":      coCreate,
	"resume":      coResume,
	"yield":       coYield,
	"status":      coStatus,
	"isyieldable": coYieldable,
	"running":     coRunning,
	"wrap":        coWrap,
	"close":       coClose,
}

func OpenCoroutineLib(ls State) {
	ls.Globals().Set("coroutine", ls.NewLib(coFuncs))
}

// coroutine.create (f)
// http://www.lua.org/manual/5.4/manual.html#pdf-coroutine.create
func coCreate(ls State, args []any) ([]any, error) {
	f := checkFunction(ls, args, 1, "create")
	co := ls.NewCoroutine(f)
	if co == nil {
		return nil, argError(1, "create", "cannot create coroutine")
	}
	return one(co), nil
}

// coroutine.resume (co [, val1, ···])
// Returns (true, values…) on yield or return, (false, err) on failure.
func coResume(ls State, args []any) ([]any, error) {
	co := argValue(args, 1)
	if ls.TypeOf(co) != LUA_TTHREAD {
		return nil, argError(1, "resume", "coroutine expected")
	}
	values, err := ls.Resume(co, args[1:])
	if err != nil {
		return []any{false, errorValue(err)}, nil
	}
	return append([]any{true}, values...), nil
}

// coroutine.yield (···)
func coYield(ls State, args []any) ([]any, error) {
	return ls.Yield(args)
}

// coroutine.status (co)
func coStatus(ls State, args []any) ([]any, error) {
	co := argValue(args, 1)
	if ls.TypeOf(co) != LUA_TTHREAD {
		return nil, argError(1, "status", "coroutine expected")
	}
	return one(ls.CoroutineStatus(co)), nil
}

// coroutine.isyieldable ()
func coYieldable(ls State, args []any) ([]any, error) {
	return one(ls.IsYieldable()), nil
}

// coroutine.running ()
func coRunning(ls State, args []any) ([]any, error) {
	co, isMain := ls.Running()
	return []any{co, isMain}, nil
}

// coroutine.wrap (f)
// The wrapper resumes and propagates errors instead of returning a flag.
func coWrap(ls State, args []any) ([]any, error) {
	f := checkFunction(ls, args, 1, "wrap")
	co := ls.NewCoroutine(f)

	wrapper := func(ls State, args []any) ([]any, error) {
		values, err := ls.Resume(co, args)
		if err != nil {
			return nil, err
		}
		return values, nil
	}
	return one(ls.NewFunction(wrapper)), nil
}

// coroutine.close (co)
func coClose(ls State, args []any) ([]any, error) {
	co := argValue(args, 1)
	if ls.TypeOf(co) != LUA_TTHREAD {
		return nil, argError(1, "close", "coroutine expected")
	}
	if err := ls.CloseCoroutine(co); err != nil {
		return []any{false, errorValue(err)}, nil
	}
	return one(true), nil
}
