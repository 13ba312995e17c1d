package main

import (
	"errors"
	"os"

	"code.cloudfoundry.org/permstore/cmd"
	flags "github.com/jessevdk/go-flags"
)

func main() {
	parser := cmd.NewParser(&cmd.Options{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
