package main

import (
	"log"

	"github.com/forge-cli/forge/cli/cmd"
)

func main() {
	defer func() {
		// Recover is a built-in function that regains control of a panicking goroutine.
		// Is case our program panics, recover function will capture the value given to
		// panic function and resume normal execution (handling this error below).
		if r := recover(); r != nil {
			log.Fatalf("Unhandled internal error: %s", r)
		}
	}()

	cmd.Execute()
}
