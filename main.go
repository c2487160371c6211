// Package main is the entry point for the stagepatch CLI.
package main

import "stagepatch.dev/pkg/stagepatch/cmd"

func main() {
	cmd.Execute()
}
