package cli

import (
	"fmt"

	"cyrus/internal/common"
	"cyrus/internal/types"

	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess [job-description-file]",
	Short: "Predict the online assessment for a job description",
	Long: `Predict which company the job description belongs to, the assessment tier,
and the likely test pattern with per-section difficulty and focus topics.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if assessConfig.OutputFormat == "" {
			assessConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(assessConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAssess,
}

var assessConfig common.CommandConfig

func init() {
	assessCmd.Flags().StringVarP(&assessConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	assessCmd.Flags().StringVar(&assessConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)
	om := getObservabilityFromContext(ctx)

	client := newAPIClient(ctx)
	defer client.Close()

	createInput := func(contents []string) (types.AssessmentInput, error) {
		if len(contents) != 1 {
			return types.AssessmentInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.AssessmentInput{TargetJD: contents[0]}, nil
	}

	logDetails := func(input types.AssessmentInput, cfg common.CommandConfig) {
		logger.Info("Starting assessment prediction",
			"jd_chars", len(input.TargetJD),
			"output_format", cfg.OutputFormat)
	}

	err := common.RunAPICommand(
		ctx,
		logger,
		assessConfig,
		args,
		createInput,
		client.AssessmentPrep,
		logDetails,
	)

	om.GetMetrics().RecordBusinessMetric(ctx, "prep_artifact", err == nil, om)
	if err != nil {
		return fmt.Errorf("failed to predict assessment: %w", err)
	}
	logger.Info("Assessment prediction completed successfully")
	return nil
}
