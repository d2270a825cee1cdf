// Command insightsctl regenerates and inspects chat insight charts offline.
package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/chatlens/insights/charts"
	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/db"
	"github.com/chatlens/insights/normalize"
	"github.com/chatlens/insights/store"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataFolder string
	rootCmd := &cobra.Command{
		Use:   "insightsctl",
		Short: "Regenerate and inspect chat insight charts",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dataFolder != "" {
				return os.Setenv("DATA_FOLDER", dataFolder)
			}
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataFolder, "data-folder", "", "Data folder (default: $DATA_FOLDER)")

	rootCmd.AddCommand(newRegenerateCmd(), newInspectCmd(), newFragmentsCmd(), newImportCmd())
	return rootCmd
}

func newRegenerateCmd() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "regenerate [contact...]",
		Short: "Export charts JSON for the given contacts, or for all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cmp.Or(outputDir, filepath.Join(store.DataFolder(), consts.ChartDataDir))
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Generating charts for all contacts in %s\n", dir)
				return charts.ExportAll(dir)
			}
			for _, id := range args {
				if err := charts.ExportChartsJSON(id, dir); err != nil {
					return fmt.Errorf("contact %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", charts.ChartsFilePath(dir, id))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: $DATA_FOLDER/"+consts.ChartDataDir+")")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <contact>",
		Short: "Print the activity summary and which charts can be built",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := charts.LoadDashboard(args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"contact": d.ContactID,
					"summary": d.Summary,
					"charts":  d.IDs(),
				})
			}
			printInspection(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func printInspection(w io.Writer, d charts.Dashboard) {
	fmt.Fprintf(w, "Contact: %s\n\n", d.ContactID)
	if s := d.Summary; s != nil {
		printSummary(w, *s)
	} else {
		fmt.Fprintln(w, "No activity summary (basic statistics incomplete)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Charts:")
	built := d.IDs()
	for _, id := range charts.AllIDs() {
		mark := "-"
		if slices.Contains(built, id) {
			mark = "+"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, id)
	}
	if d.Heatmap != nil {
		fmt.Fprintf(w, "\nHeatmap years: %v (showing %s)\n", d.Heatmap.Partition.AvailableYears, d.Heatmap.Partition.SelectedYear)
	}
}

func printSummary(w io.Writer, s normalize.ActivitySummary) {
	fmt.Fprintf(w, "Total messages: %d\n", s.TotalMessages)
	fmt.Fprintf(w, "Active days:    %d", s.ActiveDays)
	if s.FirstDay != "" {
		fmt.Fprintf(w, " (%s to %s)", s.FirstDay, s.LastDay)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Per active day: %.1f\n", s.PerActiveDay)
	if s.BusiestDay != "" {
		fmt.Fprintf(w, "Busiest day:    %s\n", s.BusiestDay)
	}
	fmt.Fprintf(w, "Busiest hour:   %02d:00\n", s.BusiestHour)
	if s.BusiestWeekday != "" {
		fmt.Fprintf(w, "Busiest day of week: %s\n", consts.WeekdayNames[s.BusiestWeekday])
	}
}

func newFragmentsCmd() *cobra.Command {
	var dbPath string
	var since time.Duration
	cmd := &cobra.Command{
		Use:   "fragments",
		Short: "List the latest fragment of each contact, kind and name in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbFile := cmp.Or(dbPath, filepath.Join(cmp.Or(store.DataFolder(), "."), consts.DatabaseFile))
			dbConn, err := db.OpenDB(dbFile)
			if err != nil {
				return fmt.Errorf("opening database %s: %w", dbFile, err)
			}
			defer func() { _ = dbConn.Close() }()

			var from time.Time
			if since > 0 {
				from = time.Now().Add(-since)
			}
			rows, err := db.SelectLatest(dbConn, from)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			count := 0
			for f := range rows {
				fmt.Fprintf(w, "%s  %-20s %-12s %-20s %6d bytes\n",
					f.Time.Format(consts.DateTimeFormat), f.ContactID, f.Kind, f.Name, len(f.Data))
				count++
			}
			fmt.Fprintf(w, "%d fragments\n", count)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to insights.db (default: $DATA_FOLDER/insights.db or ./insights.db)")
	cmd.Flags().DurationVar(&since, "since", 0, "Only fragments received within this duration")
	return cmd
}
