package main

import (
	"os"

	"github.com/msto63/rexbot/cmd/rexbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
