package cli

import (
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/tokennotifs/gainerbot/binance"
	"github.com/tokennotifs/gainerbot/bot"
	"github.com/tokennotifs/gainerbot/chart"
	"github.com/tokennotifs/gainerbot/logging"
	"github.com/tokennotifs/gainerbot/scan"
	"github.com/tokennotifs/gainerbot/twitter"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan the market, render the chart, and post the summary",
		Long: `Run one full pass: rank the top pairs by volume, find the biggest
positive hourly mover, render its candlestick chart, and post the summary.

Dry run is active by default; pass --dry-run=false or set DRY_RUN=false to
post for real. Downstream failures (no winner, chart errors, post rejection)
are logged and do not fail the process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Cfg

			log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			log = log.With().Str("run_id", ulid.Make().String()).Logger()
			log.Info().Bool("dry_run", cfg.DryRun).Msg("starting run")

			delay, err := cfg.ParseScanDelay()
			if err != nil {
				return err
			}

			scanner := scan.New(binance.NewClient(), scan.Options{
				Quote:       cfg.Quote,
				TopCount:    cfg.TopCount,
				Interval:    binance.Interval(cfg.Interval),
				CandleCount: cfg.CandleCount,
				Delay:       delay,
			}, log)

			runner := &bot.Runner{
				Scanner:  scanner,
				Renderer: chart.NewRenderer(),
				Poster: twitter.NewClient(twitter.Credentials{
					APIKey:       cfg.Twitter.APIKey,
					APISecret:    cfg.Twitter.APISecret,
					AccessToken:  cfg.Twitter.AccessToken,
					AccessSecret: cfg.Twitter.AccessSecret,
				}, log, twitter.WithMaxRetries(cfg.MaxRetries)),
				DryRun:    cfg.DryRun,
				ChartPath: cfg.ChartPath,
				Log:       log,
			}

			out := runner.Run(cmd.Context())
			log.Info().
				Bool("posted", out.Posted).
				Int("candidates", len(out.Candidates)).
				Msg("run finished")
			return nil
		},
	}
}
