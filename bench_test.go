package main

import (
	"os"
	"strings"
	"testing"
)

const benchFile = "test/basic.lua"

func TestScripts(t *testing.T) {
	files, err := os.ReadDir("test")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".lua") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			if code := runFile("test/"+name, nil); code != 0 {
				t.Fatalf("%s exited with %d", name, code)
			}
		})
	}
}

func BenchmarkRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runFile(benchFile, nil)
	}
}
