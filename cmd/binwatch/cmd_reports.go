package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"smartbin-backend/internal/models"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List and resolve public reports",
	RunE:  runReportsList,
}

var reportsResolveCmd = &cobra.Command{
	Use:   "resolve <report-id>",
	Short: "Mark a report resolved",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsResolve,
}

var (
	reportsStatus  string
	resolvedBy     string
	resolutionNote string
)

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsResolveCmd)

	reportsCmd.Flags().StringVar(&reportsStatus, "status", "", "filter by status (pending, in_progress, resolved, rejected)")
	reportsResolveCmd.Flags().StringVar(&resolvedBy, "by", "", "who resolved the report")
	reportsResolveCmd.Flags().StringVar(&resolutionNote, "notes", "", "resolution notes")
	reportsResolveCmd.MarkFlagRequired("by")
}

func runReportsList(cmd *cobra.Command, args []string) error {
	reports, err := newAPIClient().ListReports(cmd.Context(), reportsStatus)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tSTATUS\tBIN\tCREATED\tDESCRIPTION")
	for _, r := range reports {
		bin := "-"
		if r.BinID != nil {
			bin = *r.BinID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.ReportType, r.Priority, r.Status, bin, r.CreatedAt, r.Description)
	}
	w.Flush()
	return nil
}

func runReportsResolve(cmd *cobra.Command, args []string) error {
	report, err := newAPIClient().ResolveReport(cmd.Context(), args[0], models.ResolveReportRequest{
		ResolvedBy:      resolvedBy,
		ResolutionNotes: resolutionNote,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Report %s resolved by %s\n", report.ID, resolvedBy)
	return nil
}
