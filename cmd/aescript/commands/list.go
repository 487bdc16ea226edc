package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panyam/aescript/matchnames"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [types|globals|effects|layers|properties]",
	Short: "Lists entities defined in the catalog",
	Long: `Lists the host types (the default), the global objects, or the registered
match names of one namespace.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"types", "globals", "effects", "layers", "properties"},
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := newChecker()
		if err != nil {
			return err
		}
		store := checker.Store()

		entity := "types"
		if len(args) > 0 {
			entity = args[0]
		}
		var items []string
		switch entity {
		case "types":
			items = store.TypeNames()
		case "globals":
			for _, name := range store.GlobalNames() {
				t, _ := store.Global(name)
				items = append(items, name+": "+t)
			}
		default:
			ns, err := matchnames.ParseNamespace(entity)
			if err != nil {
				return fmt.Errorf("unknown entity %q", entity)
			}
			items = checker.Registry().Names(ns)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			if items == nil {
				items = []string{}
			}
			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		for _, item := range items {
			fmt.Fprintln(out, item)
		}
		return nil
	},
}

func init() {
	AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as a JSON array")
}
