// SPDX-License-Identifier: EPL-2.0

// Command ldsp runs a sketch on an audio backend.
//
// Usage:
//
//	ldsp run [-f config.yaml] [--backend malgo|oto|headless] [--sketch NAME]
//	         [--duration D] [--assets DIR] [--keys]
//	ldsp devices
//	ldsp sketches
package main

import (
	"fmt"
	"os"

	"github.com/ik5/ldsp/cmd/ldsp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
