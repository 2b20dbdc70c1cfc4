package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/KaramelBytes/citybike-cli/internal/cleaning"
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/pipeline"
	"github.com/KaramelBytes/citybike-cli/internal/pricing"
	"github.com/spf13/cobra"
)

var (
	faresTier      string
	faresThreshold float64
	faresOutput    string
)

var faresCmd = &cobra.Command{
	Use:   "fares",
	Short: "Quote a fare for every cleaned trip and summarise revenue per tier",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		threshold := c.OutlierThreshold
		if cmd.Flags().Changed("outlier-threshold") {
			threshold = faresThreshold
		}
		tariff := pipeline.TariffFrom(c)
		if err := tariff.Validate(); err != nil {
			return err
		}

		in, _, err := pipeline.Load(c)
		if err != nil {
			return err
		}
		cleaned, err := cleaning.Clean(cleaning.Input{Trips: in.Trips})
		if err != nil {
			return err
		}

		var quotes []pricing.Quote
		if faresTier == "" {
			quotes, err = tariff.QuoteTrips(cleaned.Trips, threshold)
		} else {
			tier, perr := pricing.ParseTier(faresTier)
			if perr != nil {
				return perr
			}
			quotes, err = tariff.QuoteTier(cleaned.Trips, tier, threshold)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "tier\ttrips\trevenue\tavg_fare\tsuspicious")
		for _, s := range pricing.Summarize(quotes) {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%d\n", s.Tier, s.Trips, s.Revenue, s.AvgFare, s.Suspicious)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if faresOutput != "" {
			rows := make([][]string, len(quotes))
			for i, q := range quotes {
				rows[i] = []string{q.TripID, q.UserType, string(q.Tier), strconv.FormatFloat(q.Fare, 'f', 2, 64), strconv.FormatBool(q.Suspicious)}
			}
			t := dataset.NewTable("fares", []string{"trip_id", "user_type", "tier", "fare", "suspicious"}, rows)
			if err := t.WriteCSV(faresOutput); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %d quotes to %s\n", len(quotes), faresOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(faresCmd)
	faresCmd.Flags().StringVar(&faresTier, "tier", "", "price every trip at one tier: casual | member | peak | distance")
	faresCmd.Flags().Float64Var(&faresThreshold, "outlier-threshold", 3.0, "|z| threshold for suspicious fares (overrides config)")
	faresCmd.Flags().StringVarP(&faresOutput, "output", "o", "", "optional CSV path for per-trip quotes")
}
