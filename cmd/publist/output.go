package main

import (
	"fmt"
	"os"
)

// exitWithError prints an error to stderr and exits with the given code.
func exitWithError(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}
