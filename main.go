package main

import (
	"os"

	"github.com/akarpov/flashka/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
