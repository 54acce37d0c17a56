package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// matchCmd shows which ledger row a file name resolves to.
var matchCmd = &cobra.Command{
	Use:   "match <file name>",
	Short: "Resolve a Dropbox file name against the ledger without writing",
	Long: `Reads the ledger and the saved file bindings and prints the row a comment
on the given file would be written to, with its match score. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	RootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx := context.Background()
	states, err := a.stateStore(ctx)
	if err != nil {
		return err
	}
	orch, err := a.orchestrator(ctx, states, nil)
	if err != nil {
		return err
	}

	row, score, err := orch.Preview(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if row == nil {
		fmt.Fprintf(out, "no match for %q (threshold %.2f)\n", args[0], a.cfg.Match.Threshold)
		return nil
	}
	fmt.Fprintf(out, "row %d  %q  score %.2f\n", row.RowNumber, row.Title, score)
	return nil
}
