package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lollipopkit/lua54/api"
	"github.com/lollipopkit/lua54/consts"
	"github.com/lollipopkit/lua54/state"
	"github.com/lollipopkit/lua54/stdlib"
	"github.com/lollipopkit/lua54/term"
)

var historyPath = filepath.Join(os.TempDir(), ".lua54_history")

// Repl runs the interactive loop: expression lines print their results,
// incomplete chunks continue on the next line.
func Repl() {
	ls := state.New()
	stdlib.OpenLibs(ls)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyPath,
		InterruptPrompt: "^C",
	})
	if err != nil {
		term.Err("repl: %s", err.Error())
		return
	}
	defer rl.Close()

	term.Cyan("%s  (lua54 %s)", consts.LangVersion, consts.VERSION)

	var pending []string
	for {
		if len(pending) > 0 {
			rl.SetPrompt(">> ")
		} else {
			rl.SetPrompt("> ")
		}

		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			return
		}
		if strings.TrimSpace(line) == "" && len(pending) == 0 {
			continue
		}

		pending = append(pending, line)
		chunk := strings.Join(pending, "\n")
		if runLine(ls, chunk) {
			pending = nil
		}
	}
}

// runLine loads and runs one REPL chunk. It reports false when the chunk
// is incomplete and should keep accumulating lines.
func runLine(ls api.State, chunk string) bool {
	// try as an expression first so `1+1` prints 2
	fn, lerr := ls.LoadChunk([]byte("return "+chunk), "=stdin", "t", nil)
	if lerr != nil {
		fn, lerr = ls.LoadChunk([]byte(chunk), "=stdin", "t", nil)
	}
	if lerr != nil {
		if incomplete(lerr) {
			return false
		}
		term.Red("%s", lerr.Error())
		return true
	}

	results, rerr := ls.RunChunk(fn, nil)
	if rerr != nil {
		term.Red("%s", ls.FormatError(rerr))
		return true
	}
	printResults(ls, results)
	return true
}

// incomplete mirrors the lua.c trick: a chunk is continuable when the
// failure happened at the very end of the input.
func incomplete(err error) bool {
	return strings.HasSuffix(err.Error(), "near '<eof>'")
}

func printResults(ls api.State, results []any) {
	if len(results) == 0 {
		return
	}
	parts := make([]string, len(results))
	for i, v := range results {
		s, err := ls.ToStringMeta(v)
		if err != nil {
			s = "?"
		}
		parts[i] = s
	}

	line := strings.Join(parts, "\t")
	if size, err := term.Size(); err == nil && size.Width > 8 && len(line) > size.Width {
		line = line[:size.Width-4] + " ..."
	}
	fmt.Println(line)
}
