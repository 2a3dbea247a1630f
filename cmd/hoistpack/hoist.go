package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoistpack/hoistpack/internal/exitcode"
	"github.com/hoistpack/hoistpack/internal/hoist"
	"github.com/hoistpack/hoistpack/internal/js_parser"
	"github.com/hoistpack/hoistpack/internal/js_printer"
	"github.com/hoistpack/hoistpack/internal/logger"
)

var hoistCmd = &cobra.Command{
	Use:   "hoist [flags] file.js",
	Short: "Hoist one module and print the rewritten code",
	Args:  cobra.ExactArgs(1),
	RunE:  runHoist,
}

func init() {
	hoistCmd.Flags().String("module-id", "", "unique id prefixed to synthesized names (default: derived from the file name)")
	hoistCmd.Flags().Bool("trace", false, "report why optimizations were skipped")
	hoistCmd.Flags().Bool("summary", false, "print the import/export summary as JSON instead of code")
}

func runHoist(cmd *cobra.Command, args []string) error {
	moduleID, _ := cmd.Flags().GetString("module-id")
	trace, _ := cmd.Flags().GetBool("trace")
	summary, _ := cmd.Flags().GetBool("summary")

	if moduleID == "" {
		moduleID = moduleIDFromPath(args[0])
	}

	source, log, err := sourceFromFile(cmd, args[0])
	if err != nil {
		return err
	}

	module, ok := js_parser.Parse(log, source)
	if !ok {
		return exitcode.Printed
	}

	out, result, bailouts, diagnostics := hoist.Hoist(module, &source, hoist.Options{
		ModuleID:      moduleID,
		TraceBailouts: trace,
	})
	for _, msg := range diagnostics {
		log.AddMsg(msg)
	}
	if trace {
		for _, b := range bailouts {
			fmt.Fprintf(os.Stderr, "%s: skipped optimization at offset %d: %s (%s)\n",
				source.PrettyPath, b.Loc.Start, b.Reason.Message(), b.Reason)
		}
	}
	if len(diagnostics) > 0 {
		return exitcode.Printed
	}

	if summary {
		return writeSummary(os.Stdout, moduleID, result, bailouts)
	}
	_, err = os.Stdout.Write(js_printer.Print(out))
	return err
}

func sourceFromFile(cmd *cobra.Command, path string) (logger.Source, logger.Log, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return logger.Source{}, logger.Log{}, err
	}

	color := logger.ColorIfTerminal
	switch flag, _ := cmd.Root().PersistentFlags().GetString("color"); flag {
	case "on":
		color = logger.ColorAlways
	case "off":
		color = logger.ColorNever
	}

	source := logger.Source{
		PrettyPath:     path,
		IdentifierName: moduleIDFromPath(path),
		Contents:       string(contents),
	}
	log := logger.NewStderrLog(logger.StderrOptions{
		IncludeSource: true,
		Color:         color,
	})
	return source, log, nil
}

// moduleIDFromPath derives a readable id from the file name. Ids only need to
// be unique per invocation here; a bundler driving the library would assign
// content hashes instead.
func moduleIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var sb strings.Builder
	for _, c := range base {
		if c == '_' || c == '$' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9' && sb.Len() > 0) {
			sb.WriteRune(c)
		}
	}
	if sb.Len() == 0 {
		return "m"
	}
	return sb.String()
}

type summaryOutput struct {
	ModuleID         string                 `json:"moduleId"`
	ImportedSymbols  []hoist.ImportedSymbol `json:"importedSymbols"`
	ExportedSymbols  []hoist.ExportedSymbol `json:"exportedSymbols"`
	ReExports        []hoist.ImportedSymbol `json:"reExports"`
	SelfReferences   []string               `json:"selfReferences,omitempty"`
	WrappedRequires  []string               `json:"wrappedRequires,omitempty"`
	DynamicImports   map[string]string      `json:"dynamicImports,omitempty"`
	StaticCJSExports bool                   `json:"staticCjsExports"`
	HasCJSExports    bool                   `json:"hasCjsExports"`
	IsESM            bool                   `json:"isEsm"`
	ShouldWrap       bool                   `json:"shouldWrap"`
	Bailouts         []bailoutOutput        `json:"bailouts,omitempty"`
}

type bailoutOutput struct {
	Offset  int32  `json:"offset"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func writeSummary(f *os.File, moduleID string, result hoist.HoistResult, bailouts []hoist.Bailout) error {
	out := summaryOutput{
		ModuleID:         moduleID,
		ImportedSymbols:  result.ImportedSymbols,
		ExportedSymbols:  result.ExportedSymbols,
		ReExports:        result.ReExports,
		SelfReferences:   sortedKeys(result.SelfReferences),
		WrappedRequires:  sortedKeys(result.WrappedRequires),
		DynamicImports:   result.DynamicImports,
		StaticCJSExports: result.StaticCJSExports,
		HasCJSExports:    result.HasCJSExports,
		IsESM:            result.IsESM,
		ShouldWrap:       result.ShouldWrap,
	}
	for _, b := range bailouts {
		out.Bailouts = append(out.Bailouts, bailoutOutput{
			Offset:  b.Loc.Start,
			Reason:  b.Reason.String(),
			Message: b.Reason.Message(),
		})
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
