package main

import (
	"os"

	"github.com/miwamasa/xsdcoverage/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
