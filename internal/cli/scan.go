package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokennotifs/gainerbot/binance"
	"github.com/tokennotifs/gainerbot/logging"
	"github.com/tokennotifs/gainerbot/scan"
)

func newScanCmd(rc *RootConfig) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Report the top hourly gainers without posting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Cfg

			log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

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

			candidates := scanner.Scan(cmd.Context())
			if len(candidates) == 0 {
				fmt.Println("no positive hourly movers")
				return nil
			}

			for i, c := range scan.TopN(candidates, top) {
				fmt.Printf("%d. %s: +%.2f%%\n", i+1, c.Symbol, c.Gain.ChangePercent)
			}
			fmt.Println()
			fmt.Println(scan.ComposeTweet(candidates[0]))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "How many leaders to print")
	return cmd
}
