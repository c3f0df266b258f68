package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smartbin-backend/internal/client"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/monitor"
	"smartbin-backend/internal/services"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch bins live and print alerts",
	Long: `Poll bins and reports on independent timers. Every bin poll is diffed
against the previous one and threshold crossings are printed as alerts.`,
	RunE: runMonitor,
}

var (
	monitorBinInterval    time.Duration
	monitorReportInterval time.Duration
)

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorBinInterval, "interval", monitor.DefaultBinInterval, "bin poll interval")
	monitorCmd.Flags().DurationVar(&monitorReportInterval, "reports-interval", monitor.DefaultReportInterval, "report poll interval")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	api := newAPIClient()
	chain := client.NewBinChain(api, deviceURL, nil)

	fetchReports := func(ctx context.Context) ([]models.ReportResponse, string, error) {
		reports, err := api.ListReports(ctx, models.ReportStatusPending)
		return reports, "api", err
	}

	m := monitor.New(chain.Fetch, fetchReports, monitor.Options{
		BinInterval:    monitorBinInterval,
		ReportInterval: monitorReportInterval,
		OnBins: func(bins []models.BinResponse, source string, err error) {
			stats := services.SummarizeBins(bins)
			stale := ""
			if err != nil {
				stale = " (stale)"
			}
			fmt.Printf("[%s] %d bins from %s%s - %d full, average %d%%\n",
				time.Now().Format("15:04:05"), stats.Total, source, stale, stats.Full, stats.AverageLevel)
		},
		OnAlert: func(alert models.Alert) {
			icon := "⚠️ "
			if alert.Severity == models.SeverityCritical {
				icon = "🚨"
			}
			fmt.Printf("%s %s: %s\n", icon, alert.Kind, alert.Message)
		},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m.Start(ctx)
	<-ctx.Done()
	m.Stop()

	if reports, _, ok := m.Reports(); ok {
		fmt.Printf("%d pending reports\n", len(reports))
	}
	fmt.Printf("%d alerts raised this session\n", m.Alerts().Count())
	return nil
}
