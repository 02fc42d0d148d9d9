package term

import (
	"fmt"
	"os"
)

const (
	RED     = "\033[91m"
	YELLOW  = "\033[93m"
	CYAN    = "\033[96m"
	NOCOLOR = "\033[0m"
)

const (
	warn = YELLOW + "[WAR]" + NOCOLOR + " "
	err  = RED + "[ERR]" + NOCOLOR + " "
)

func print(s string) {
	os.Stdout.WriteString(s)
}

func printf(format string, args ...any) {
	f := fmt.Sprintf(format+"\n", args...)
	print(f)
}

func Warn(format string, args ...any) {
	printf(warn+format, args...)
}

func Err(format string, args ...any) {
	printf(err+format, args...)
}

func Red(format string, args ...any) {
	printf(RED+format+NOCOLOR, args...)
}

func Cyan(format string, args ...any) {
	printf(CYAN+format+NOCOLOR, args...)
}
