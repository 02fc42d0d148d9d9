package stdlib

import (
	. "github.com/lollipopkit/lua54/api"
)

// OpenLibs installs the whole standard library on the state's globals.
func OpenLibs(ls State) {
	OpenBaseLib(ls)
	OpenStringLib(ls)
	OpenTableLib(ls)
	OpenMathLib(ls)
	OpenOsLib(ls)
	OpenCoroutineLib(ls)
	OpenJsonLib(ls)
	OpenReLib(ls)
}
