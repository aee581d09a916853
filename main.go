package main

import (
	"fmt"
	"os"

	"github.com/roblourens/php-language-server/cmd"
)

// A production build of this binary must call cmd.SetParser with a real
// AST provider before cmd.Execute runs; the module itself never links a
// parser implementation (SPEC_FULL.md §1, §6).
func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
