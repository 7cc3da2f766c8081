// Package main is the entry point for the docmark CLI. It delegates
// all functionality to the internal/cli package.
package main

import (
	"github.com/tsawler/docmark/internal/cli"
)

func main() {
	cli.Execute(cli.NewRootCommand())
}
