// Command importjobs imports the work job catalog from a spreadsheet export,
// either into the server's Postgres database or into a local SQLite file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
