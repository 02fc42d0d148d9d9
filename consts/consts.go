package consts

import "os"

const (
	VERSION = "0.1.0"
	// LangVersion is the surface language implemented.
	LangVersion = "Lua 5.4"
)

var (
	Debug = os.Getenv("LUA_DEBUG") != ""
)
