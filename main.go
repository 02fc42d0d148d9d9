package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lollipopkit/lua54/consts"
	"github.com/lollipopkit/lua54/repl"
)

var (
	execStat    = flag.String("e", "", "execute string 'stat'")
	interactive = flag.Bool("i", false, "enter interactive mode after executing script")
	showVersion = flag.Bool("v", false, "show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s  (lua54 %s)\n", consts.LangVersion, consts.VERSION)
		return
	}

	if *execStat != "" {
		os.Exit(runSource(*execStat, "=(command line)", flag.Args()))
	}

	file := flag.Arg(0)
	if file == "" {
		repl.Repl()
		return
	}

	code := runFile(file, flag.Args()[1:])
	if *interactive {
		repl.Repl()
	}
	os.Exit(code)
}
