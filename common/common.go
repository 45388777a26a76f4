package common

import (
	"fmt"
	"log/slog"
	"os"
)

func FailAndExit(code int, msg string) {
	slog.Error(msg)
	os.Exit(code)
}

func FailAndExitf(code int, format string, args ...any) {
	FailAndExit(code, fmt.Sprintf(format, args...))
}
