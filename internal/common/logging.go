package common

import (
	"io"
	"log"
	"os"
)

var (
	logger = log.New(os.Stderr, "[jvgate] ", log.LstdFlags|log.Lmicroseconds)
)

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// SetLogOutput redirects diagnostic logging, e.g. to a rotating file sink.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}
