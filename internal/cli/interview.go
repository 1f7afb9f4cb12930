package cli

import (
	"fmt"
	"strings"

	"cyrus/internal/common"
	"cyrus/internal/types"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [project-description-file]",
	Short: "Predict interviewer questions for a project",
	Long: `Generate predicted interview questions for one of your projects, with the
interviewer's intent and a hint for answering each. The project description is
read from a file; title and tech stack come from flags.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if interviewConfig.OutputFormat == "" {
			interviewConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if interviewTitle == "" {
			return fmt.Errorf("--title is required")
		}
		return common.ValidateOutputFormat(interviewConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runInterview,
}

var (
	interviewConfig common.CommandConfig
	interviewTitle  string
	interviewTech   string
	interviewGithub string
)

func init() {
	interviewCmd.Flags().StringVarP(&interviewConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	interviewCmd.Flags().StringVar(&interviewConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	interviewCmd.Flags().StringVar(&interviewTitle, "title", "", "Project title")
	interviewCmd.Flags().StringVar(&interviewTech, "tech", "", "Comma-separated tech stack")
	interviewCmd.Flags().StringVar(&interviewGithub, "github", "", "GitHub URL for the project")
}

func runInterview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)
	om := getObservabilityFromContext(ctx)

	client := newAPIClient(ctx)
	defer client.Close()

	createInput := func(contents []string) (types.InterviewPrepInput, error) {
		if len(contents) != 1 {
			return types.InterviewPrepInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}

		var techStack []string
		for _, tech := range strings.Split(interviewTech, ",") {
			if tech = strings.TrimSpace(tech); tech != "" {
				techStack = append(techStack, tech)
			}
		}

		return types.InterviewPrepInput{
			ProjectTitle:       interviewTitle,
			ProjectDescription: contents[0],
			TechStack:          techStack,
			GithubURL:          interviewGithub,
		}, nil
	}

	logDetails := func(input types.InterviewPrepInput, cfg common.CommandConfig) {
		logger.Info("Starting interview prep",
			"project", input.ProjectTitle,
			"tech_stack", len(input.TechStack),
			"output_format", cfg.OutputFormat)
	}

	err := common.RunAPICommand(
		ctx,
		logger,
		interviewConfig,
		args,
		createInput,
		client.InterviewPrep,
		logDetails,
	)

	om.GetMetrics().RecordBusinessMetric(ctx, "prep_artifact", err == nil, om)
	if err != nil {
		return fmt.Errorf("failed to generate interview prep: %w", err)
	}
	logger.Info("Interview prep completed successfully")
	return nil
}
