package main

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/logger"
	"github.com/lollipopkit/lua54/state"
	"github.com/lollipopkit/lua54/stdlib"
	"github.com/lollipopkit/lua54/term"
	"github.com/lollipopkit/lua54/utils"
)

// exit codes of the driver
const (
	exitOK      = 0
	exitRuntime = 1
	exitSyntax  = 2
)

// runFile executes a script, keeping a dumped copy of the compiled chunk
// in the temp dir keyed by source hash so unchanged scripts skip the
// parser.
func runFile(file string, scriptArgs []string) int {
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lua: cannot open %s\n", file)
		return exitSyntax
	}

	ls := newState(file, scriptArgs)

	compiledFile := path.Join(os.TempDir(), utils.Sha256(data)+".luac")
	if compiled, err := os.ReadFile(compiledFile); err == nil {
		if fn, lerr := ls.LoadChunk(compiled, "@"+file, "b", nil); lerr == nil {
			logger.I("using cached chunk for %s", file)
			return runLoaded(ls, fn, scriptArgs)
		}
		term.Warn("stale compiled chunk for %s, recompiling", file)
	}

	fn, lerr := ls.LoadChunk(data, "@"+file, "t", nil)
	if lerr != nil {
		fmt.Fprintf(os.Stderr, "lua: %s\n", lerr.Error())
		return exitSyntax
	}
	if dumped, derr := ls.Dump(fn); derr == nil {
		if werr := os.WriteFile(compiledFile, dumped, 0644); werr != nil {
			logger.W("cannot cache compiled chunk: %s", werr.Error())
		}
	}
	return runLoaded(ls, fn, scriptArgs)
}

func runSource(source, chunkName string, scriptArgs []string) int {
	ls := newState(chunkName, scriptArgs)
	fn, lerr := ls.LoadChunk([]byte(source), chunkName, "t", nil)
	if lerr != nil {
		fmt.Fprintf(os.Stderr, "lua: %s\n", lerr.Error())
		return exitSyntax
	}
	return runLoaded(ls, fn, scriptArgs)
}

func newState(scriptName string, scriptArgs []string) api.State {
	ls := state.New()
	stdlib.OpenLibs(ls)

	// the standard arg table: arg[0] is the script, positives its args
	arg := ls.NewTable(len(scriptArgs), 1)
	arg.Set(int64(0), scriptName)
	for i, a := range scriptArgs {
		arg.Set(int64(i+1), a)
	}
	ls.Globals().Set("arg", arg)
	return ls
}

func runLoaded(ls api.State, fn any, scriptArgs []string) int {
	args := make([]any, len(scriptArgs))
	for i, a := range scriptArgs {
		args[i] = a
	}

	if _, err := ls.RunChunk(fn, args); err != nil {
		var rt *api.RuntimeError
		if errors.As(err, &rt) {
			fmt.Fprintf(os.Stderr, "lua: %s\n", ls.FormatError(rt))
		} else {
			fmt.Fprintf(os.Stderr, "lua: %s\n", err.Error())
		}
		return exitRuntime
	}
	return exitOK
}
