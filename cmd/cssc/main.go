package main

import (
	"os"

	"github.com/cwbudde/cssc/cmd/cssc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
