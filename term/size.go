package term

import (
	"os"

	"golang.org/x/term"
)

type termSize struct {
	Height int
	Width  int
}

func Size() (*termSize, error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return nil, err
	}
	return &termSize{Height: h, Width: w}, nil
}
