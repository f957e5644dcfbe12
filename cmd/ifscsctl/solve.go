package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/ifscs/internal/wire"
	"github.com/gitrdm/ifscs/pkg/setcs"
)

var cycleBudget int

var solveCmd = &cobra.Command{
	Use:   "solve <file>",
	Short: "Solve a constraint system and print least-solution results for its queries",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().IntVar(&cycleBudget, "cycle-budget", 0, "override the cycle-detection budget (0 keeps the library default)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	sys, err := wire.Load(args[0])
	if err != nil {
		return err
	}

	opts := []setcs.Option[string, string]{setcs.WithLogger[string, string](log)}
	if cycleBudget > 0 {
		opts = append(opts, setcs.WithCycleBudget[string, string](cycleBudget))
	}

	solved, err := setcs.Solve(sys.Constraints, opts...)
	if err != nil {
		var ns setcs.NoSolution[string, string]
		if errors.As(err, &ns) {
			fmt.Println("no solution:", ns.Inclusion)
			return nil
		}
		return err
	}

	queries := sys.Queries
	if len(queries) == 0 {
		queries = collectVariables(sys.Constraints)
	}
	for _, v := range queries {
		terms, err := setcs.LeastSolution(solved, v)
		if err != nil {
			return err
		}
		fmt.Printf("%s = {", v)
		for i, t := range terms {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(t.String())
		}
		fmt.Println("}")
	}
	return nil
}

// collectVariables returns every distinct variable that stands directly
// as one side of an inclusion in s, in first-appearance order, used as
// the query list when a file omits one explicitly. Variables nested
// inside constructed terms are not collected.
func collectVariables(s setcs.ConstraintSystem[string, string]) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(e setcs.Expr[string, string]) {
		if e.IsVariable() && !seen[e.Variable()] {
			seen[e.Variable()] = true
			out = append(out, e.Variable())
		}
	}
	for _, inc := range s.Inclusions() {
		add(inc.LHS)
		add(inc.RHS)
	}
	return out
}
