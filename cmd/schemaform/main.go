// Command schemaform renders, validates and lints schema-driven forms from
// the command line.
package main

import (
	"os"
)

func main() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}
