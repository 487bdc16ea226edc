package commands

import (
	"fmt"
	"io"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/spf13/cobra"

	"github.com/panyam/aescript/loader"
	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/schema"
)

var describeCmd = &cobra.Command{
	Use:   "describe <type> [member]",
	Short: "Shows the members of a host type or the rule of one member",
	Long: `Without a member, describe lists the type's parent chain, constructor,
properties and methods (own and inherited). With a member it prints the
property's value rule or the method's signature.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := newChecker()
		if err != nil {
			return err
		}
		store := checker.Store()
		t, ok := store.Type(args[0])
		if !ok {
			return unknownName("type", args[0], store.TypeNames())
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			describeType(out, store, t)
			return nil
		}
		member := args[1]
		if rule, ok := store.Property(t.Name, member); ok {
			fmt.Fprintf(out, "%s.%s: %s\n", t.Name, member, rule.Describe())
			return nil
		}
		if m, ok := store.Method(t.Name, member); ok {
			fmt.Fprintf(out, "%s.%s\n", t.Name, signature(m))
			return nil
		}
		return unknownName(t.Name+" member", member, store.MemberNames(t.Name))
	},
}

func init() {
	AddCommand(describeCmd)
}

func unknownName(what, name string, candidates []string) error {
	opts := loader.DefaultMemberSuggestions
	near := matchnames.Names(matchnames.Rank(candidates, name, opts.MaxDistance, opts.TopK))
	if len(near) == 0 {
		return fmt.Errorf("unknown %s '%s'", what, name)
	}
	return fmt.Errorf("unknown %s '%s' (did you mean: %s)", what, name, strings.Join(near, ", "))
}

func describeType(w io.Writer, store *schema.Store, t *schema.TypeDescriptor) {
	header := t.Name
	if target, ok := store.AliasTarget(t.Name); ok {
		header += " (alias of " + target + ")"
	}
	for p := t.Parent; p != ""; {
		header += " < " + p
		parent, ok := store.Type(p)
		if !ok {
			break
		}
		p = parent.Parent
	}
	fmt.Fprintln(w, header)
	if t.Caps != 0 {
		fmt.Fprintf(w, "  capabilities: %s\n", t.Caps)
	}
	if t.ElementType != "" {
		fmt.Fprintf(w, "  elements: %s\n", t.ElementType)
	}
	if t.Constructor != nil {
		fmt.Fprintf(w, "  new %s\n", signature(t.Constructor))
	}

	for owner := t; owner != nil; {
		props := owner.PropertyNames()
		methods := owner.MethodNames()
		switch {
		case len(props)+len(methods) == 0:
		case owner == t:
			fmt.Fprintln(w, "  members:")
		default:
			fmt.Fprintf(w, "  inherited from %s:\n", owner.Name)
		}
		for _, name := range props {
			rule, _ := owner.Property(name)
			fmt.Fprintf(w, "    %s: %s\n", name, rule.Describe())
		}
		for _, name := range methods {
			m, _ := owner.Method(name)
			fmt.Fprintf(w, "    %s\n", signature(m))
		}
		owner, _ = store.Type(owner.Parent)
	}
}

// signature renders e.g. "addComp(String, 1d [4, 30000], ...) -> CompItem".
func signature(m *schema.MethodSignature) string {
	params := make([]int, m.ParamCount)
	for i := range params {
		params[i] = i
	}
	args := gfn.Map(params, func(i int) string {
		if ns := m.MatchName(i); ns != matchnames.NamespaceNone {
			return ns.String() + " match name"
		}
		return m.Param(i).Describe()
	})
	out := m.Name + "(" + strings.Join(args, ", ") + ")"
	if m.Returns != "" {
		out += " -> " + m.Returns
	}
	return out
}
