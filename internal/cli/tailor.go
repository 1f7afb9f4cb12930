package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"cyrus/internal/api"
	"cyrus/internal/common"
	"cyrus/internal/errors"
	"cyrus/internal/progress"
	"cyrus/internal/results"
	"cyrus/internal/types"
	"cyrus/internal/upload"
	"cyrus/internal/workflow"

	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor [resume-pdf] [job-description-file]",
	Short: "Tailor a resume for a specific job description",
	Long: `Upload a resume PDF, parse it, and generate ATS-scored tailored bullets
for the given job description. The command walks the full workflow: upload,
describe, results. Use --rewrite to run deep rewrites on individual bullets
(or all of them); rewrites run concurrently and each bullet fails or succeeds
on its own.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if tailorConfig.OutputFormat == "" {
			tailorConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(tailorConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runTailor,
}

var (
	tailorConfig   common.CommandConfig
	rewriteSpec    string
	rewriteDetails bool
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	tailorCmd.Flags().StringVar(&tailorConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	tailorCmd.Flags().StringVar(&rewriteSpec, "rewrite", "", "Bullets to deep-rewrite: 'all' or comma-separated indices (1-based)")
	tailorCmd.Flags().BoolVar(&rewriteDetails, "rewrite-details", false, "Include honesty checks and mapping logic for each rewrite")

	// Add completion for format flag
	_ = tailorCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runTailor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	om := getObservabilityFromContext(ctx)

	client := newAPIClient(ctx)
	defer client.Close()

	wf := workflow.NewManager(logger)
	uploader := upload.NewUploader(client, cfg.App.MaxUploadSize, logger)

	// Step 1: upload. Simulated progress goes to stderr so piped output stays
	// clean.
	uploadResult, err := uploader.Upload(ctx, args[0], func(percent int) {
		fmt.Fprintf(os.Stderr, "\rUploading resume... %3d%%", percent)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr)
		return err
	}
	fmt.Fprintf(os.Stderr, "\rUploaded %s (%d sections parsed)\n",
		uploadResult.Filename, len(uploadResult.ParsedResume.Sections))

	om.GetMetrics().RecordBusinessMetric(ctx, "resume_uploaded", true, om)
	wf.SetUploadResult(uploadResult)

	// Step 2: describe
	fileProcessor := common.NewFileProcessor(logger)
	jdText, err := fileProcessor.ReadFile(args[1])
	if err != nil {
		return err
	}
	wf.SetJobDescription(jdText)

	logger.Info("Starting bullet generation",
		"jd_words", workflow.WordCount(jdText),
		"output_format", tailorConfig.OutputFormat)

	input, err := wf.BeginGeneration()
	if err != nil {
		return err
	}

	result, err := client.GenerateBullets(ctx, input)
	if err != nil {
		wf.FailGeneration(err)
		om.GetMetrics().RecordBusinessMetric(ctx, "bullets_generated", false, om)
		return err
	}
	generation := wf.CompleteGeneration(result)
	om.GetMetrics().RecordBusinessMetric(ctx, "bullets_generated", true, om)

	// Step 3: results. Rewrites run concurrently, one goroutine per bullet.
	tracker := results.NewTracker(logger)
	tracker.SetGeneration(generation)

	if rewriteSpec != "" {
		if err := runRewrites(ctx, cmd, client, wf, tracker, result); err != nil {
			return err
		}
	}

	if tailorConfig.OutputFormat == "text" && tailorConfig.OutputFile == "" {
		animateScore(ctx, result.ATSScores)
	}

	// Substitute resolved rewrites into the displayed bullets
	display := result
	display.Bullets = make([]types.Bullet, len(result.Bullets))
	copy(display.Bullets, result.Bullets)
	for i := range display.Bullets {
		display.Bullets[i].Rewritten = tracker.PreferredText(i, result.Bullets[i])
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(display, tailorConfig); err != nil {
		return err
	}

	if rewriteDetails {
		for i := range result.Bullets {
			state := tracker.State(i)
			if state.Status == results.StatusResolved {
				if err := outputHandler.HandleOutput(state.Outcome, tailorConfig); err != nil {
					return err
				}
			}
		}
	}

	logger.Info("Resume tailoring completed successfully",
		"bullets", len(result.Bullets),
		"ats_before", result.ATSScores.BeforeScore,
		"ats_after", result.ATSScores.AfterScore)
	return nil
}

// runRewrites fires one deep rewrite per requested bullet index and waits for
// all of them. Each index resolves or fails independently; a failed rewrite
// never blocks the others.
func runRewrites(ctx context.Context, cmd *cobra.Command, client *api.Client, wf *workflow.Manager, tracker *results.Tracker, result types.TailoringResult) error {
	logger := getLoggerFromContext(cmd.Context())
	om := getObservabilityFromContext(cmd.Context())

	indices, err := parseRewriteIndices(rewriteSpec, len(result.Bullets))
	if err != nil {
		return err
	}

	masterText := wf.MasterResumeText()
	jdText := wf.JobDescription()

	var wg sync.WaitGroup
	for _, index := range indices {
		tag, err := tracker.Begin(index)
		if err != nil {
			logger.Warn("Skipping duplicate rewrite submission", "bullet_index", index)
			continue
		}

		wg.Add(1)
		go func(index int, tag uint64) {
			defer wg.Done()

			outcome, err := client.RewriteBullet(ctx, types.RewriteBulletInput{
				MasterResumeText: masterText,
				TargetJD:         jdText,
				TargetExperience: result.Bullets[index].SourceText(),
			})
			if err != nil {
				tracker.Fail(index, tag, err)
				om.GetMetrics().RecordBusinessMetric(ctx, "bullet_rewritten", false, om)
				logger.LogError(err, "Deep rewrite failed", "bullet_index", index)
				return
			}

			tracker.Resolve(index, tag, outcome)
			om.GetMetrics().RecordBusinessMetric(ctx, "bullet_rewritten", true, om)
		}(index, tag)
	}
	wg.Wait()

	return nil
}

// parseRewriteIndices expands the --rewrite spec into zero-based bullet
// indices. "all" selects every bullet; otherwise a comma-separated list of
// 1-based positions.
func parseRewriteIndices(spec string, bulletCount int) ([]int, error) {
	if spec == "all" {
		indices := make([]int, bulletCount)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	seen := make(map[int]bool)
	var indices []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("Invalid bullet index: %q", part), err)
		}
		if n < 1 || n > bulletCount {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("Bullet index %d out of range (have %d bullets)", n, bulletCount), nil)
		}
		if !seen[n-1] {
			seen[n-1] = true
			indices = append(indices, n-1)
		}
	}
	sort.Ints(indices)

	return indices, nil
}

// animateScore counts the after-score up from the before-score on stderr
func animateScore(ctx context.Context, scores types.ATSScores) {
	progress.CountUp(ctx, scores.BeforeScore, scores.AfterScore, func(value int) {
		fmt.Fprintf(os.Stderr, "\rATS match: %3d%%", value)
	})
	fmt.Fprintln(os.Stderr)
}
