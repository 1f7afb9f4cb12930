package cli

import (
	"cyrus/internal/common"
	"cyrus/internal/history"
	"cyrus/internal/types"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past tailoring sessions",
	Long: `Fetch your persisted tailoring sessions from the service, newest first.
Use --show to open one session in detail. A failed fetch shows an empty list
rather than an error; history is a convenience surface, not a source of truth.
History sessions are read-only: deep rewrites are only available on a live run.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if historyConfig.OutputFormat == "" {
			historyConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(historyConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runHistory,
}

var (
	historyConfig common.CommandConfig
	historyShow   int
)

func init() {
	historyCmd.Flags().StringVarP(&historyConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	historyCmd.Flags().StringVar(&historyConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	historyCmd.Flags().IntVar(&historyShow, "show", 0, "Show one session in detail (1-based index)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)
	om := getObservabilityFromContext(ctx)

	client := newAPIClient(ctx)
	defer client.Close()

	store := history.NewStore(client, logger)
	sessions := store.Load(ctx)
	om.GetMetrics().RecordBusinessMetric(ctx, "history_fetched", true, om)

	outputHandler := common.NewOutputHandler(logger)

	if historyShow > 0 {
		session, err := store.Select(historyShow - 1)
		if err != nil {
			return err
		}
		return outputHandler.HandleOutput(session, historyConfig)
	}

	return outputHandler.HandleOutput(types.SessionList{Sessions: sessions}, historyConfig)
}
