package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditLimit int

// auditCmd is the parent command for the audit database.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the audit database",
}

// auditListCmd prints the most recent audit entries.
var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent audit entries",
	RunE:  runAuditList,
}

func init() {
	auditListCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Number of entries to show")
	auditCmd.AddCommand(auditListCmd)
	RootCmd.AddCommand(auditCmd)
}

func runAuditList(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx := context.Background()
	repo, err := a.auditRepository(ctx)
	if err != nil {
		return err
	}
	if repo == nil {
		return errors.New("audit database is disabled (set DATABASE_ENABLED=true)")
	}

	entries, err := repo.Recent(ctx, auditLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOGGED AT\tFILE\tCOMMENTER\tROW\tSCORE\tCYCLE")
	for _, e := range entries {
		row := "-"
		if e.Matched() {
			row = fmt.Sprint(e.MatchedRow)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			e.LoggedAt.Format("2006-01-02 15:04:05"), e.FileName, e.Commenter, row, e.Score, e.CycleID)
	}
	return tw.Flush()
}
