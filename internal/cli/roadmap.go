package cli

import (
	"fmt"

	"cyrus/internal/common"
	"cyrus/internal/types"

	"github.com/spf13/cobra"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap [resume-text-file] [job-description-file]",
	Short: "Build a skill-gap roadmap toward a job description",
	Long: `Compare your resume against a job description and get back the skills you
are missing, weighted by impact, each with a suggested learning path.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if roadmapConfig.OutputFormat == "" {
			roadmapConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(roadmapConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRoadmap,
}

var roadmapConfig common.CommandConfig

func init() {
	roadmapCmd.Flags().StringVarP(&roadmapConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	roadmapCmd.Flags().StringVar(&roadmapConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)
	om := getObservabilityFromContext(ctx)

	client := newAPIClient(ctx)
	defer client.Close()

	createInput := func(contents []string) (types.RoadmapInput, error) {
		if len(contents) != 2 {
			return types.RoadmapInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.RoadmapInput{
			MasterResumeText: contents[0],
			TargetJD:         contents[1],
		}, nil
	}

	logDetails := func(input types.RoadmapInput, cfg common.CommandConfig) {
		logger.Info("Starting career roadmap",
			"resume_chars", len(input.MasterResumeText),
			"jd_chars", len(input.TargetJD),
			"output_format", cfg.OutputFormat)
	}

	err := common.RunAPICommand(
		ctx,
		logger,
		roadmapConfig,
		args,
		createInput,
		client.CareerRoadmap,
		logDetails,
	)

	om.GetMetrics().RecordBusinessMetric(ctx, "prep_artifact", err == nil, om)
	if err != nil {
		return fmt.Errorf("failed to build career roadmap: %w", err)
	}
	logger.Info("Career roadmap completed successfully")
	return nil
}
