package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/citybike-cli/internal/cleaning"
	"github.com/KaramelBytes/citybike-cli/internal/dataset"
	"github.com/KaramelBytes/citybike-cli/internal/numeric"
	"github.com/spf13/cobra"
)

var (
	distHaversine bool
	distOutput    string
)

var distancesCmd = &cobra.Command{
	Use:   "distances",
	Short: "Compute the pairwise distance matrix between stations",
	Long: `Compute pairwise station distances from the cleaned stations table. The default
is planar distance in degrees; --haversine gives great-circle kilometres.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		raw, err := dataset.Read(c.Path(c.StationsFile))
		if err != nil {
			return fmt.Errorf("load stations: %w", err)
		}
		if err := raw.Require(dataset.RequiredStationColumns...); err != nil {
			return err
		}
		stations, _ := cleaning.CleanStations(raw)
		if len(stations) == 0 {
			return fmt.Errorf("no stations with valid coordinates")
		}

		lat := make([]float64, len(stations))
		lon := make([]float64, len(stations))
		for i, s := range stations {
			lat[i], lon[i] = s.Latitude, s.Longitude
		}
		matrix := numeric.DistanceMatrix
		if distHaversine {
			matrix = numeric.HaversineMatrix
		}
		m, err := matrix(lat, lon)
		if err != nil {
			return err
		}

		header := []string{dataset.ColStationID}
		for _, s := range stations {
			header = append(header, s.StationID)
		}
		rows := make([][]string, len(stations))
		for i, s := range stations {
			row := []string{s.StationID}
			for _, d := range m[i] {
				row = append(row, fmt.Sprintf("%.4f", d))
			}
			rows[i] = row
		}

		if distOutput != "" {
			if err := dataset.NewTable("distances", header, rows).WriteCSV(distOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %dx%d matrix to %s\n", len(stations), len(stations), distOutput)
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
		for _, r := range append([][]string{header}, rows...) {
			for _, v := range r {
				fmt.Fprint(tw, v, "\t")
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(distancesCmd)
	distancesCmd.Flags().BoolVar(&distHaversine, "haversine", false, "great-circle distance in km instead of planar degrees")
	distancesCmd.Flags().StringVarP(&distOutput, "output", "o", "", "optional CSV path for the matrix")
}
