// Package main provides the rtyaml CLI tool.
//
// Usage:
//
//	rtyaml <command> [arguments]
//
// Commands:
//
//	fmt       Normalize YAML files in place
//	print     Print a YAML file
//	get       Print the value at a JSON Pointer
//	set       Store a value at a JSON Pointer
//	delete    Remove the value at a JSON Pointer
//	watch     Re-print a file whenever it changes
package main

import "github.com/yacchi/rtyaml/cmd/rtyaml/commands"

func main() {
	commands.Execute(Version)
}
