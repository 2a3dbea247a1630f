package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hoistpack/hoistpack/internal/exitcode"
	"github.com/hoistpack/hoistpack/internal/js_parser"
	"github.com/hoistpack/hoistpack/internal/js_printer"
)

var parseCmd = &cobra.Command{
	Use:   "parse file.js",
	Short: "Parse a module and print it back without transforming",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	source, log, err := sourceFromFile(cmd, args[0])
	if err != nil {
		return err
	}

	module, ok := js_parser.Parse(log, source)
	if !ok {
		return exitcode.Printed
	}

	_, err = os.Stdout.Write(js_printer.Print(module))
	return err
}
