package main

import (
	"os"

	"github.com/patchcycle/bumpver/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
