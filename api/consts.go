package api

import "math"

const LUA_MULTRET = -1

const (
	LUA_MAXINTEGER = math.MaxInt64
	LUA_MININTEGER = math.MinInt64
)

/* basic types */
type LuaType = int

const (
	LUA_TNONE LuaType = iota - 1 // -1
	LUA_TNIL
	LUA_TBOOLEAN
	LUA_TNUMBER
	LUA_TSTRING
	LUA_TTABLE
	LUA_TFUNCTION
	LUA_TUSERDATA
	LUA_TTHREAD
)

/* arithmetic operators */
type ArithOp = int

const (
	LUA_OPADD  ArithOp = iota // +
	LUA_OPSUB                 // -
	LUA_OPMUL                 // *
	LUA_OPMOD                 // %
	LUA_OPPOW                 // ^
	LUA_OPDIV                 // /
	LUA_OPIDIV                // //
	LUA_OPBAND                // &
	LUA_OPBOR                 // |
	LUA_OPBXOR                // ~
	LUA_OPSHL                 // <<
	LUA_OPSHR                 // >>
	LUA_OPUNM                 // - (unary)
	LUA_OPBNOT                // ~ (unary)
)

/* comparison operators */
type CompareOp = int

const (
	LUA_OPEQ CompareOp = iota // ==
	LUA_OPLT                  // <
	LUA_OPLE                  // <=
)

/* coroutine status */
type ThreadStatus = int

const (
	CO_SUSPENDED ThreadStatus = iota
	CO_RUNNING
	CO_NORMAL
	CO_DEAD
)

func StatusName(s ThreadStatus) string {
	switch s {
	case CO_SUSPENDED:
		return "suspended"
	case CO_RUNNING:
		return "running"
	case CO_NORMAL:
		return "normal"
	default:
		return "dead"
	}
}
