// Package main provides the entry point for the resist CLI.
package main

import "github.com/NeboLoop/resist-go-sdk/cmd/resist/cmd"

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version, commit)
}
