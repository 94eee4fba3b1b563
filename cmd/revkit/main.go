package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"revkit/adapters/excel"
	"revkit/adapters/ons"
	"revkit/adapters/postgres"
	"revkit/app"
	"revkit/domain/core"
	"revkit/internal"
	"revkit/internal/config"
	"revkit/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "revkit",
		Short: "GDP revisions toolkit: fetch vintages, build revision triangles and series",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newProcessCmd(),
		newIndicatorsCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [indicator...]",
		Short: "Fetch the latest release and process one or all indicators",
		Long: `Fetch each indicator's current release from the publisher, normalize the
revisions triangles, derive the revision series and write processed workbooks.

Example: revkit run headline_qgdp headline_mgdp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}

			indicators, err := selectIndicators(args)
			if err != nil {
				return err
			}

			archive, closeDB, err := openArchive(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			writer := excel.NewBundleWriter(cfg.Output.Dir, logger)
			pipeline := app.NewPipeline(writer, archive, logger)

			sources := func(ind app.Indicator) ports.VintageSource {
				return ons.NewSource(ind.LandingURL, ind.ExpectedFile,
					cfg.Fetch.Timeout, cfg.Fetch.UserAgent, logger)
			}

			reports := pipeline.RunAll(context.Background(), indicators, sources)
			printReports(cmd, reports)

			for _, r := range reports {
				if r.Status == ports.RunFailed {
					return fmt.Errorf("one or more indicators failed")
				}
			}
			return nil
		},
	}
}

func newProcessCmd() *cobra.Command {
	var indicatorName string

	cmd := &cobra.Command{
		Use:   "process <workbook>...",
		Short: "Process already-downloaded workbooks through an indicator's pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}

			ind, ok := app.FindIndicator(indicatorName, app.DefaultIndicators())
			if !ok {
				return fmt.Errorf("unknown indicator: %s", indicatorName)
			}
			// File filters would reject arbitrary local filenames.
			ind.FileFilters = nil

			writer := excel.NewBundleWriter(cfg.Output.Dir, logger)
			pipeline := app.NewPipeline(writer, nil, logger)

			report, err := pipeline.Run(context.Background(), ind, excel.NewLocalSource(args...))
			if err != nil {
				return err
			}
			printReports(cmd, []*app.RunReport{report})
			return nil
		},
	}

	cmd.Flags().StringVar(&indicatorName, "indicator", "headline_qgdp", "indicator configuration to apply")
	return cmd
}

func newIndicatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "List configured indicators",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tLANDING PAGE")
			for _, ind := range app.DefaultIndicators() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ind.Name, ind.Layout.PeriodKind, ind.LandingURL)
			}
			return w.Flush()
		},
	}
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs <indicator>",
		Short: "Show recent archived runs for an indicator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.DB.URL == "" {
				return fmt.Errorf("DATABASE_URL is not set; run archive is disabled")
			}

			archive, closeDB, err := openArchive(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			runs, err := archive.Recent(context.Background(), args[0], limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tRELEASE\tSTATUS\tDATASETS\tPERIODS")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					r.StartedAt.Format("2006-01-02 15:04"), r.Release, r.Status, r.Datasets, r.Periods)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show")
	return cmd
}

func bootstrap() (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewDefaultLogger(), nil
}

func selectIndicators(names []string) ([]app.Indicator, error) {
	all := app.DefaultIndicators()
	if len(names) == 0 {
		return all, nil
	}

	var out []app.Indicator
	for _, name := range names {
		ind, ok := app.FindIndicator(name, all)
		if !ok {
			return nil, fmt.Errorf("unknown indicator: %s", name)
		}
		out = append(out, ind)
	}
	return out, nil
}

func openArchive(cfg *config.Config, logger *internal.Logger) (ports.RunArchive, func(), error) {
	if cfg.DB.URL == "" {
		return nil, func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.DB.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to run archive: %w", err)
	}
	logger.Info("Run archive enabled")
	return postgres.NewRunArchive(db), func() { db.Close() }, nil
}

func printReports(cmd *cobra.Command, reports []*app.RunReport) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDICATOR\tRELEASE\tSTATUS\tDATASET\tPERIODS\tOUTPUT")
	for _, r := range reports {
		if len(r.Datasets) == 0 {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\n", r.Indicator, r.Release.Label, r.Status)
			continue
		}
		for _, d := range r.Datasets {
			out := d.Path
			if d.Err != nil {
				label := "ERROR"
				if core.IsNormalizationError(d.Err) {
					label = "MALFORMED"
				}
				out = label + ": " + d.Err.Error()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				r.Indicator, r.Release.Label, r.Status, d.Name, d.Periods, out)
		}
	}
	w.Flush()
}
