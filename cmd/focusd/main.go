// Package main is the single-binary entrypoint for focusd.
package main

import "github.com/focuai/focusd/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
