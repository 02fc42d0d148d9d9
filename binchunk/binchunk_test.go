package binchunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lollipopkit/lua54/compiler/ast"
	"github.com/lollipopkit/lua54/compiler/parser"
)

func parseBody(t *testing.T, src string) *Chunk {
	t.Helper()
	block, err := parser.Parse(src, "test")
	require.NoError(t, err)
	c := &Chunk{Source: "test", IsVararg: true}
	c.Block = encodeBlock(block)
	return c
}

func TestDumpUndumpRoundTrip(t *testing.T) {
	src := `
		local function fib(n)
			if n < 2 then return n end
			return fib(n - 1) + fib(n - 2)
		end
		for i = 1, 3 do
			x = {fib(i), [i] = 'v', s = 'str', f = 1.5, neg = -2}
		end
		::top::
		goto top
	`
	block, err := parser.Parse(src, "test")
	require.NoError(t, err)

	chunk := &Chunk{
		Source:   "test",
		IsVararg: true,
		Upvalues: []Upvalue{{Name: "up", Val: "captured"}},
	}
	data, err := Dump(chunk, block)
	require.NoError(t, err)
	assert.True(t, IsBinaryChunk(data))

	decoded, decodedBlock, _, err := Undump(data)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, "test", decoded.Source)
	assert.True(t, decoded.IsVararg)
	require.Len(t, decoded.Upvalues, 1)
	assert.Equal(t, "captured", decoded.Upvalues[0].Val)

	// re-encoding the decoded tree must be stable
	again, err := Dump(decoded, decodedBlock)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestHeaderLayout(t *testing.T) {
	data := DumpSource("return 1")
	// Lua 5.4 signature: ESC "Lua" 0x54 0x00 LUAC_DATA
	assert.Equal(t, byte(0x1b), data[0])
	assert.Equal(t, "Lua", string(data[1:4]))
	assert.Equal(t, byte(0x54), data[4])
	assert.Equal(t, byte(0x00), data[5])
	assert.Equal(t, []byte{0x19, 0x93, '\r', '\n', 0x1a, '\n'}, data[6:12])
	// size bytes
	assert.Equal(t, []byte{4, 8, 8}, data[12:15])
}

func TestUndumpTruncated(t *testing.T) {
	data := DumpSource("return 1")
	_, _, _, err := Undump(data[:10])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestUndumpCorruptHeader(t *testing.T) {
	data := DumpSource("return 1")
	// flip the endianness marker
	data[16], data[17] = data[17], data[16]
	_, _, _, err := Undump(data)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestUndumpSourceFallback(t *testing.T) {
	data := DumpSource("return 42")
	chunk, block, src, err := Undump(data)
	require.NoError(t, err)
	assert.Nil(t, chunk)
	assert.Nil(t, block)
	assert.Equal(t, "return 42", src)
}

func TestIntegerPrecisionSurvives(t *testing.T) {
	c := parseBody(t, "return 9007199254740993") // 2^53 + 1
	data, err := Dump(c, mustDecode(t, c.Block))
	require.NoError(t, err)
	_, block, _, err := Undump(data)
	require.NoError(t, err)
	again := encodeBlock(block)
	assert.Equal(t, c.Block, again)
}

func mustDecode(t *testing.T, v any) *ast.Block {
	t.Helper()
	block, err := decodeBlock(v)
	require.NoError(t, err)
	return block
}
