package main

import (
	"os"

	"noteboard/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
