// Command taskbook manages a local task tracker stored in SQLite.
package main

import (
	"os"

	"github.com/mesh-intelligence/taskbook/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
