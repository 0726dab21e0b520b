package main

import (
	"os"

	"github.com/Levi-LMN/Trivia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
