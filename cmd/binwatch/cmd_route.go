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

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Show the collection route",
	Long: `Show the prioritized collection route. When the API cannot build it,
the route is computed locally from whatever bin data is reachable.`,
	RunE: runRoute,
}

var routeOptimize string

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().StringVar(&routeOptimize, "optimize", "", `set to "distance" to visit bins nearest-first`)
}

func runRoute(cmd *cobra.Command, args []string) error {
	api := newAPIClient()

	route, err := api.CollectionRoute(cmd.Context(), routeOptimize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "API route unavailable (%v), computing locally\n", err)
		route, err = localRoute(cmd, api)
		if err != nil {
			return err
		}
	}

	printRoute(route)
	return nil
}

func localRoute(cmd *cobra.Command, api *client.Client) (*models.CollectionRoute, error) {
	bins, _, err := client.NewBinChain(api, deviceURL, nil).Fetch(cmd.Context())
	if err != nil {
		return nil, err
	}

	depot := services.GetDepotLocation()
	stops := services.BuildRoute(bins)
	if routeOptimize == "distance" {
		stops = services.NewRouteOptimizer().OptimizeRoute(stops, depot)
	}
	total := services.AnnotateDistances(stops, depot)

	estimated := 0
	if n := len(stops); n > 0 {
		estimated = stops[n-1].EstimatedMinutes
	}
	return &models.CollectionRoute{
		Stops:           stops,
		TotalStops:      len(stops),
		TotalDistanceKm: total,
		EstimatedTotal:  estimated,
	}, nil
}

func printRoute(route *models.CollectionRoute) {
	if route.TotalStops == 0 {
		fmt.Println("No bins need collection.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tBIN\tLEVEL\tPRIORITY\tTYPE\tLEG KM\tETA MIN\tADDRESS")
	for _, stop := range route.Stops {
		leg := "-"
		if stop.DistanceFromPreviousKm != nil {
			leg = fmt.Sprintf("%.2f", *stop.DistanceFromPreviousKm)
		}
		fmt.Fprintf(w, "%d\t%s\t%d%%\t%s\t%s\t%s\t%d\t%s\n",
			stop.Order, stop.BinID, stop.Level, stop.Priority, stop.Type, leg, stop.EstimatedMinutes, stop.Location.Address)
	}
	w.Flush()

	fmt.Printf("\n%d stops, %.2f km, about %d minutes\n", route.TotalStops, route.TotalDistanceKm, route.EstimatedTotal)
}
