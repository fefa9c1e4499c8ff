// The main package for the gplay-api executable.
package main

import (
	"github.com/JakeFAU/gplay-api/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
