// Package main is the entry point for the mediares CLI.
package main

import (
	"os"

	"github.com/AnyUserName/mediares/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
