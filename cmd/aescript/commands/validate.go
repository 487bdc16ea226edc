package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/panyam/aescript/loader"
	"github.com/panyam/aescript/parser"
)

var (
	validateWorkers   int
	validateFormat    string
	validateBasePath  string
	validateMaxErrors int
)

var validateCmd = &cobra.Command{
	Use:   "validate <tree.json|dir...>",
	Short: "Checks script parse trees against the host object model",
	Long: `The validate command loads one or more ESTree JSON parse trees and checks
each script against the catalog. A directory argument stands for the .json
files directly inside it. Every finding is printed grouped by file.
The command exits with status 1 when any script produced a diagnostic or
could not be loaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	AddCommand(validateCmd)
	validateCmd.Flags().IntVarP(&validateWorkers, "workers", "w", 0, "Concurrent scripts (default: AESCRIPT_WORKERS or the number of CPUs)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format: text or json")
	validateCmd.Flags().StringVar(&validateBasePath, "base", "", "Directory relative paths are resolved against")
	validateCmd.Flags().IntVar(&validateMaxErrors, "max-errors", 0, "Stop reporting after this many diagnostics per script (0 is unlimited)")
}

// FileReport is the outcome for one input in --format json.
type FileReport struct {
	File        string                `json:"file"`
	Error       string                `json:"error,omitempty"`
	Diagnostics loader.DiagnosticList `json:"diagnostics"`
	Dropped     int                   `json:"dropped,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateFormat != "text" && validateFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", validateFormat)
	}
	workers := validateWorkers
	if workers <= 0 {
		workers = envInt("AESCRIPT_WORKERS")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	checker, err := newChecker(loader.WithMaxErrors(validateMaxErrors))
	if err != nil {
		return err
	}

	paths, err := loader.ExpandPaths(loader.NewLocalFS(validateBasePath), args, ".json")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ldr := loader.NewLoader(parser.Adapter{}, nil, validateBasePath)
	loaded, err := ldr.LoadAll(ctx, paths, workers)
	if err != nil {
		return err
	}

	reports := make([]FileReport, len(loaded))
	var scripts []*loader.Script
	var index []int
	for i, res := range loaded {
		reports[i] = FileReport{File: res.Path, Diagnostics: loader.DiagnosticList{}}
		if res.Err != nil {
			reports[i].Error = res.Err.Error()
			continue
		}
		scripts = append(scripts, res.Script)
		index = append(index, i)
	}

	results, err := checker.RunAll(ctx, scripts, workers)
	if err != nil {
		return err
	}
	failed := false
	for j, res := range results {
		if len(res.Diagnostics) > 0 {
			reports[index[j]].Diagnostics = res.Diagnostics
			reports[index[j]].Dropped = res.Dropped
			failed = true
		}
	}
	for _, r := range reports {
		failed = failed || r.Error != ""
	}

	out := cmd.OutOrStdout()
	if validateFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printReports(out, reports)
	}
	if failed {
		return ErrDiagnosticsFound
	}
	return nil
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	okLabel      = color.New(color.FgGreen)
)

func printReports(w io.Writer, reports []FileReport) {
	total := 0
	for _, r := range reports {
		switch {
		case r.Error != "":
			total++
			fmt.Fprintf(w, "%s: %s %s\n", r.File, errorLabel.Sprint("error:"), r.Error)
		case len(r.Diagnostics) == 0:
			fmt.Fprintf(w, "%s: %s\n", r.File, okLabel.Sprint("ok"))
		default:
			total += len(r.Diagnostics) + r.Dropped
			for _, d := range r.Diagnostics {
				fmt.Fprintf(w, "%s:%s: %s\n", r.File, d.Pos.LineColStr(), formatDiagnostic(d))
			}
			if r.Dropped > 0 {
				fmt.Fprintf(w, "%s: ... %d more not shown\n", r.File, r.Dropped)
			}
		}
	}
	fmt.Fprintf(w, "%d file(s) checked, %d problem(s)\n", len(reports), total)
}

func formatDiagnostic(d *loader.Diagnostic) string {
	label := errorLabel.Sprint("error:")
	if d.Severity == loader.SeverityWarning {
		label = warningLabel.Sprint("warning:")
	}
	out := fmt.Sprintf("%s [%s] %s", label, d.Code, d.Message)
	if len(d.Suggestions) > 0 {
		out += " (did you mean: " + strings.Join(d.Suggestions, ", ") + ")"
	}
	return out
}
