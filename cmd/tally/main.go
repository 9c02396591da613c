// Command tally is a set of small record-keeping tools (contacts,
// inventory, library, bank, shapes and a calculator) sharing one storage
// backend.
package main

import "github.com/mesh-intelligence/tally/internal/cli"

func main() {
	cli.Execute()
}
