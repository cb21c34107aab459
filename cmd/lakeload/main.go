package main

import (
	"os"

	"lakeload/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
