// Package main provides the entry point for the boatbus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/telnet2/go-practice/go-boatbus/cmd/boatbus/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
