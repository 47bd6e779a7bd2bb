// Command primecart drives the PrimeCart storefront state from the shell.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/primecart/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands report their own failures through the output formatter;
	// anything else (bad flags, wrong argument count) is printed here.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
