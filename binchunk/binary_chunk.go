package binchunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/lollipopkit/lua54/compiler/ast"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

const (
	// "\x1BLua" + version 5.4 + format 0 + LUAC_DATA
	signature = "\x1bLua\x54\x00\x19\x93\r\n\x1a\n"

	sizeInstruction = 4
	sizeInteger     = 8
	sizeNumber      = 8

	luacInt = 0x5678
	luacNum = 370.5

	astPrefix = "AST:"
	srcPrefix = "SRC:"
)

var (
	ErrTruncated = errors.New("binary chunk truncated")
	ErrFormat    = errors.New("bad binary chunk format")
)

// Upvalue is a named upvalue captured at dump time. Only scalar values
// survive a dump; anything else is recorded as nil and rebound by name at
// load time when the destination environment has it.
type Upvalue struct {
	Name string `json:"n"`
	Val  any    `json:"v"`
}

// Chunk is the serialized form of a closure: its body as an AST plus the
// captured upvalues.
type Chunk struct {
	Source   string    `json:"s"`
	ParList  []string  `json:"ps"`
	IsVararg bool      `json:"iv"`
	Block    any       `json:"b"` // encoded ast, see astjson.go
	Upvalues []Upvalue `json:"us"`
}

// IsBinaryChunk reports whether data carries the binary chunk signature.
func IsBinaryChunk(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == signature[:4]
}

func headerLen() int {
	return len(signature) + 3 + sizeInteger + sizeNumber
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString(signature)
	buf.WriteByte(sizeInstruction)
	buf.WriteByte(sizeInteger)
	buf.WriteByte(sizeNumber)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(luacInt))
	buf.Write(b[:])
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(luacNum))
	buf.Write(b[:])
}

func checkHeader(data []byte) error {
	if len(data) < headerLen() {
		return ErrTruncated
	}
	if string(data[:len(signature)]) != signature {
		return ErrFormat
	}
	p := len(signature)
	if data[p] != sizeInstruction || data[p+1] != sizeInteger || data[p+2] != sizeNumber {
		return ErrFormat
	}
	p += 3
	if binary.LittleEndian.Uint64(data[p:]) != uint64(luacInt) {
		// an integrity check doubling as an endianness marker
		return ErrFormat
	}
	p += sizeInteger
	if math.Float64frombits(binary.LittleEndian.Uint64(data[p:])) != luacNum {
		return ErrFormat
	}
	return nil
}

// Dump serializes a closure body plus upvalues behind the Lua 5.4 header.
func Dump(c *Chunk, body *ast.Block) ([]byte, error) {
	c.Block = encodeBlock(body)
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(headerLen() + len(astPrefix) + len(payload))
	writeHeader(&buf)
	buf.WriteString(astPrefix)
	buf.Write(payload)
	return buf.Bytes(), nil
}

// DumpSource wraps plain source behind the header; the fallback format for
// bodies that cannot be re-encoded.
func DumpSource(source string) []byte {
	var buf bytes.Buffer
	writeHeader(&buf)
	buf.WriteString(srcPrefix)
	buf.WriteString(source)
	return buf.Bytes()
}

// Undump verifies the header and reconstructs the chunk. For an SRC
// payload the returned chunk is nil and the source is returned instead.
func Undump(data []byte) (*Chunk, *ast.Block, string, error) {
	if err := checkHeader(data); err != nil {
		return nil, nil, "", err
	}
	payload := data[headerLen():]

	switch {
	case bytes.HasPrefix(payload, []byte(astPrefix)):
		var c Chunk
		if err := json.Unmarshal(payload[len(astPrefix):], &c); err != nil {
			return nil, nil, "", ErrTruncated
		}
		block, err := decodeBlock(c.Block)
		if err != nil {
			return nil, nil, "", err
		}
		return &c, block, "", nil
	case bytes.HasPrefix(payload, []byte(srcPrefix)):
		return nil, nil, string(payload[len(srcPrefix):]), nil
	}
	return nil, nil, "", ErrTruncated
}
