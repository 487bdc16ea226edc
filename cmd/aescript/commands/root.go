package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ErrDiagnosticsFound is returned by validate when any script produced a
// diagnostic or failed to load. The findings have already been printed.
var ErrDiagnosticsFound = errors.New("diagnostics found")

// Global flags. Empty values fall back to the AESCRIPT_* environment.
var (
	envFile    string
	schemaArgs []string
	logLevel   string
	logFormat  string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "aescript",
	Short: "aescript statically checks After Effects scripts",
	Long: `aescript validates ExtendScript automation scripts against a catalog of the
host object model: unknown types and members, argument counts, value shapes,
read-only assignments and effect/property match names. Scripts are read as
ESTree JSON parse trees produced by a JavaScript front-end.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrDiagnosticsFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", "", "Environment file to load (default: AESCRIPT_ENV_FILE or .env)")
	flags.StringSliceVar(&schemaArgs, "schema", nil, "Extra YAML catalog files layered over the built-in one (default: AESCRIPT_SCHEMA)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default: AESCRIPT_LOG_LEVEL or warn)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured output (also AESCRIPT_NO_COLOR)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
