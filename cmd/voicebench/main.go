package main

import (
	"os"

	"github.com/callscope/voicebench/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
