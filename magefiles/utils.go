//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// goCmd runs a go subcommand from the module root. Output is streamed when
// mage runs verbose, and printed on failure otherwise.
func goCmd(args ...string) error {
	fmt.Printf("Executing: go %s\n", strings.Join(args, " "))
	if mg.Verbose() {
		return sh.RunV("go", args...)
	}
	out, err := sh.Output("go", args...)
	if err != nil {
		fmt.Println("... failed command output:")
		fmt.Println(out)
		return fmt.Errorf("error executing go %s: %w", args[0], err)
	}
	return nil
}
