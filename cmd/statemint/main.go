package main

import (
	"os"

	"github.com/statemint-dev/statemint/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
