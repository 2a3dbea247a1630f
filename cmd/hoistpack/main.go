package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hoistpack/hoistpack/internal/exitcode"
)

var rootCmd = &cobra.Command{
	Use:   "hoistpack",
	Short: "Scope hoisting transform for JavaScript modules",
	Long: `hoistpack parses one JavaScript module and rewrites it for scope
hoisting: top-level bindings are renamed to be globally unique, imports and
requires become synthesized dependency edges, and exports become uniquely
named variables a linker can concatenate without a wrapper.`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")

	rootCmd.AddCommand(hoistCmd)
	rootCmd.AddCommand(parseCmd)

	if err := rootCmd.Execute(); err != nil {
		if err.Error() != "" {
			os.Stderr.WriteString("error: " + err.Error() + "\n")
		}
		os.Exit(exitcode.Get(err))
	}
}
