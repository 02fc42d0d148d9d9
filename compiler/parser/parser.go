package parser

import (
	"encoding/json"
	"os"

	. "github.com/lollipopkit/lua54/compiler/ast"
	. "github.com/lollipopkit/lua54/compiler/lexer"
	"github.com/lollipopkit/lua54/consts"
)

/* recursive descent parser */

// Parse compiles chunk into its AST. The returned error is a *lexer.Error
// carrying the chunk name and line of the failure.
func Parse(chunk, chunkName string) (block *Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*Error); ok {
				block, err = nil, le
				return
			}
			panic(r)
		}
	}()

	lexer := NewLexer(chunk, chunkName)
	block = parseBlock(lexer)
	lexer.NextTokenOfKind(TOKEN_EOF)

	if err := Check(block, chunkName); err != nil {
		return nil, err
	}

	if consts.Debug {
		data, err := json.MarshalIndent(block, "", "  ")
		if err == nil {
			os.WriteFile(chunkName+".ast.json", data, 0644)
		}
	}
	return block, nil
}
