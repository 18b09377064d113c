package main

import (
	"os"

	"github.com/phrazzld/scry-flashcards/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
