package main

import (
	"os"
	"time"

	"sdexindex/internal/adapters/ingest/horizon"
	"sdexindex/internal/core/offer"
	"sdexindex/internal/core/version"
	"sdexindex/internal/modkit/module"
	"sdexindex/internal/platform/config"
	"sdexindex/internal/platform/logger"
	ingestmod "sdexindex/internal/services/ingest/module"
	"sdexindex/internal/services/ingest/repo"

	"github.com/spf13/cobra"
)

var (
	migrateFirst bool
	fetchCursor  string
	fetchLimit   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll Horizon and drain offers until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(st)

		if migrateFirst {
			if err := repo.EnsureSchema(ctx, st.PG, st.CH); err != nil {
				return err
			}
		}

		ports := module.MustPortsOf[ingestmod.Ports](newIngest(st))
		logger.Get().Info().Str("version", version.Info(serviceName).Version).Msg("indexer starting")
		return ports.Runner.Run(ctx)
	},
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Drain from the stored cursor once and print a report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(st)

		if migrateFirst {
			if err := repo.EnsureSchema(ctx, st.PG, st.CH); err != nil {
				return err
			}
		}

		ports := module.MustPortsOf[ingestmod.Ports](newIngest(st))
		rep, err := ports.Runner.RunOnce(ctx)
		printReport(os.Stdout, rep)
		return err
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and validate one page of offers without touching storage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := ingestmod.FromConfig(config.New())
		client := horizon.NewClient(opts.Horizon)

		limit := fetchLimit
		if limit <= 0 || limit > horizon.MaxLimit {
			limit = horizon.MaxLimit
		}

		start := time.Now()
		page, err := client.FetchOffers(cmd.Context(), uint32(limit), fetchCursor)
		if err != nil {
			return err
		}
		offers, errs := offer.FromRecords(horizon.RawRecords(page.Records()))
		next, _ := page.NextCursor()
		printFetch(os.Stdout, fetchSummary{
			Source:   client.BaseURL(),
			Cursor:   fetchCursor,
			Next:     next,
			Offers:   offers,
			Errors:   errs,
			Duration: time.Since(start),
		})
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ingest tables in postgres and clickhouse",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(st)

		if err := repo.EnsureSchema(ctx, st.PG, st.CH); err != nil {
			return err
		}
		logger.Get().Info().Bool("clickhouse", st.CH != nil).Msg("schema ensured")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the stored cursor and table sizes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(st)

		ports := module.MustPortsOf[ingestmod.Ports](newIngest(st))
		s, err := ports.Status.Status(ctx)
		if err != nil {
			return err
		}
		printStatus(os.Stdout, s, time.Now())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, onceCmd} {
		c.Flags().BoolVar(&migrateFirst, "migrate", false, "ensure the schema before draining")
	}
	fetchCmd.Flags().StringVar(&fetchCursor, "cursor", "", "paging token to start after")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", horizon.MaxLimit, "page size, 1 to 200")
}
