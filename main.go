package main

import (
	"os"

	"github.com/scan-io-git/scantriage/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
