// Package main is the single-binary entrypoint for nursequest.
package main

import "github.com/nursequest/nursequest/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
