package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/DohaRamadan/jabref/internal/debug"
)

func main() {
	err := newRootCmd().Execute()
	debug.Close()
	if err == nil {
		return
	}
	if !errors.Is(err, errCheckFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
