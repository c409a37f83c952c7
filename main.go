package main

import (
	"os"

	"github.com/vihananand1/pdf-speak-out/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
