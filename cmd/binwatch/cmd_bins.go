package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"smartbin-backend/internal/client"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/services"
)

var binsCmd = &cobra.Command{
	Use:   "bins",
	Short: "List bins with their fill status",
	Long:  `Fetch the active bins from the API, falling back to the sensor gateway.`,
	RunE:  runBins,
}

var binsFullOnly bool

func init() {
	rootCmd.AddCommand(binsCmd)
	binsCmd.Flags().BoolVar(&binsFullOnly, "full", false, "only show bins at or above the full threshold")
}

func runBins(cmd *cobra.Command, args []string) error {
	chain := client.NewBinChain(newAPIClient(), deviceURL, nil)
	bins, source, err := chain.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	if binsFullOnly {
		full := bins[:0]
		for _, bin := range bins {
			if services.IsFull(bin.Level) {
				full = append(full, bin)
			}
		}
		bins = full
	}

	printBins(bins)

	stats := services.SummarizeBins(bins)
	fmt.Printf("\n%d bins (source: %s) - %d full, %d empty, average %d%%\n",
		stats.Total, source, stats.Full, stats.Empty, stats.AverageLevel)
	return nil
}

func printBins(bins []models.BinResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BIN\tLEVEL\tSTATUS\tTYPE\tSENSOR\tAREA\tUPDATED")
	for _, bin := range bins {
		fill := services.Classify(bin.Level)
		fmt.Fprintf(w, "%s\t%d%%\t%s\t%s\t%s\t%s\t%s\n",
			bin.BinID, bin.Level, fill.Label, bin.Type, bin.SensorStatus, bin.Area, bin.LastUpdated)
	}
	w.Flush()
}
