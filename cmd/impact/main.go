// Package main is the entry point for the impact CLI.
package main

import "github.com/ImpactDevelopment/impact-cli/internal/cli"

func main() {
	cli.Execute()
}
