package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panyam/aescript/loader"
	"github.com/panyam/aescript/matchnames"
)

var (
	suggestDistance int
	suggestTop      int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <namespace> <name>",
	Short: "Checks a match name and lists the nearest registered ones",
	Long: `Reports whether name is a registered match name in the namespace (effect,
layer, property or any). Unknown names are ranked against the registered
ones by edit distance.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns := matchnames.NamespaceNone
		if args[0] != "any" {
			var err error
			if ns, err = matchnames.ParseNamespace(args[0]); err != nil {
				return err
			}
		}
		checker, err := newChecker(loader.WithMatchNameSuggestions(suggestDistance, suggestTop))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		name := args[1]
		if checker.IsKnownMatchName(ns, name) {
			if ns == matchnames.NamespaceNone {
				ns, _ = checker.Registry().Lookup(name)
			}
			fmt.Fprintf(out, "'%s' is a known %s match name\n", name, ns)
			return nil
		}
		suggestions := checker.SuggestMatchName(ns, name)
		if len(suggestions) == 0 {
			fmt.Fprintf(out, "'%s' is not a known match name and nothing similar is registered\n", name)
			return nil
		}
		fmt.Fprintln(out, matchnames.FormatSuggestions(ns, name, suggestions))
		return nil
	},
}

func init() {
	AddCommand(suggestCmd)
	suggestCmd.Flags().IntVar(&suggestDistance, "distance", matchnames.DefaultMaxDistance, "Maximum edit distance of a suggestion")
	suggestCmd.Flags().IntVar(&suggestTop, "top", matchnames.DefaultTopK, "Maximum number of suggestions (0 is unlimited)")
}
