// Package main implements the main entry point for a Commodore 6502 program analyzer
package main

import (
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrosniff/internal/cli"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	if err := cli.Execute(ctx, version, commit, date); err != nil {
		os.Exit(1)
	}
}
