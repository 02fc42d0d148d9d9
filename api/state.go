package api

// GoFunction is a host function callable from Lua. It receives the already
// expanded argument list and returns its results, or an error to be raised
// in the caller.
type GoFunction func(ls State, args []any) ([]any, error)

// Table is the host view of a Lua table.
type Table interface {
	// Get returns the value stored at key, without consulting metamethods.
	Get(key any) any
	// Set stores val at key, without consulting metamethods. It fails on a
	// nil or NaN key.
	Set(key, val any) error
	// Len returns a border of the array part.
	Len() int
	// Next returns the key/value pair following key (nil starts the
	// iteration). ok is false when the iteration is exhausted.
	Next(key any) (nextKey, val any, ok bool)
	Metatable() Table
	SetMetatable(mt Table)
}

// State is the interface the standard library programs against. A State is
// also a Lua value: it is the thread (coroutine) type.
type State interface {
	/* value model */
	TypeOf(v any) LuaType
	TypeName(v any) string
	ToBoolean(v any) bool
	// ToStringMeta converts v the way tostring does, honoring __tostring
	// and __name.
	ToStringMeta(v any) (string, error)
	ToNumber(v any) (any, bool)
	ToInteger(v any) (int64, bool)
	RawEqual(a, b any) bool

	/* tables and operators */
	NewTable(nArr, nRec int) Table
	// Index is t[k] with full __index dispatch.
	Index(t, k any) (any, error)
	// SetIndex is t[k] = v with full __newindex dispatch.
	SetIndex(t, k, v any) error
	// Len is #v with __len dispatch.
	Len(v any) (any, error)
	// Concat is a .. b with __concat dispatch.
	Concat(a, b any) (any, error)
	// Compare applies ==, < or <= with metamethod dispatch.
	Compare(a, b any, op CompareOp) (bool, error)
	GetMetatable(v any) Table
	SetMetatable(v any, mt Table) error
	GetMetafield(v any, name string) any

	/* calls and errors */
	Call(fn any, args []any) ([]any, error)
	// PCall is Call with errors caught below the current frame.
	PCall(fn any, args []any) ([]any, error)
	XPCall(fn, handler any, args []any) ([]any, error)
	// NewError builds the error raised by error(v, level): a string v gets
	// the position prefix for the given call level.
	NewError(v any, level int) error
	Traceback(msg string) string

	/* environments */
	Globals() Table
	Registry() Table

	/* loading and running */
	LoadChunk(chunk []byte, chunkName, mode string, env Table) (any, error)
	Dump(fn any) ([]byte, error)
	// RunChunk is the driver entry point: a protected call of a loaded
	// chunk, with queued finalizers drained afterwards.
	RunChunk(fn any, args []any) ([]any, error)
	// FormatError renders a runtime error with its traceback for CLI
	// reporting.
	FormatError(err error) string

	/* library installation */
	Register(name string, fn GoFunction)
	NewLib(funcs map[string]GoFunction) Table
	// NewFunction wraps a host function into a callable Lua value.
	NewFunction(fn GoFunction) any

	/* coroutines */
	NewCoroutine(fn any) any
	Resume(co any, args []any) ([]any, error)
	Yield(args []any) ([]any, error)
	CoroutineStatus(co any) string
	CloseCoroutine(co any) error
	IsYieldable() bool
	// Running returns the current coroutine and whether it is the main one.
	Running() (any, bool)

	/* gc */
	GC()
}
