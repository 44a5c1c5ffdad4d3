package main

import (
	"os"

	"github.com/akolanti/kbcurator/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
