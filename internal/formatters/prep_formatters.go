package formatters

import (
	"fmt"
	"strings"

	"cyrus/internal/types"
)

// InterviewTextFormatter handles text formatting for interview prep results
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.InterviewPrepOutput)
	if !ok {
		return "", fmt.Errorf("expected InterviewPrepOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW PREP ===\n\n")
	if result.ProjectSummary != "" {
		output.WriteString("Project Summary:\n")
		output.WriteString(result.ProjectSummary)
		output.WriteString("\n\n")
	}

	for i, q := range result.InterviewPrep {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, q.Category, q.Question))
		output.WriteString(fmt.Sprintf("   Why they ask: %s\n", q.Intent))
		output.WriteString(fmt.Sprintf("   Hint: %s\n\n", q.HintForStudent))
	}

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "InterviewPrepOutput"
}

// InterviewMarkdownFormatter handles markdown formatting for interview prep results
type InterviewMarkdownFormatter struct{}

func (imf *InterviewMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.InterviewPrepOutput)
	if !ok {
		return "", fmt.Errorf("expected InterviewPrepOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Prep\n\n")
	if result.ProjectSummary != "" {
		output.WriteString("## Project Summary\n\n")
		output.WriteString(result.ProjectSummary)
		output.WriteString("\n\n")
	}

	for i, q := range result.InterviewPrep {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, q.Question))
		output.WriteString(fmt.Sprintf("**Category:** %s\n\n", q.Category))
		output.WriteString(fmt.Sprintf("**Why they ask:** %s\n\n", q.Intent))
		output.WriteString(fmt.Sprintf("**Hint:** %s\n\n", q.HintForStudent))
	}

	return output.String(), nil
}

func (imf *InterviewMarkdownFormatter) SupportedType() string {
	return "InterviewPrepOutput"
}

// AssessmentTextFormatter handles text formatting for assessment predictions
type AssessmentTextFormatter struct{}

func (atf *AssessmentTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AssessmentOutput)
	if !ok {
		return "", fmt.Errorf("expected AssessmentOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ASSESSMENT PREDICTION ===\n\n")
	output.WriteString(fmt.Sprintf("Predicted Company: %s\n", result.PredictedCompany))
	output.WriteString(fmt.Sprintf("Assessment Tier: %s\n", result.AssessmentTier))
	output.WriteString(fmt.Sprintf("Provider: %s\n\n", result.TestPattern.Provider))

	for _, section := range result.TestPattern.Sections {
		output.WriteString(fmt.Sprintf("- %s (%s)\n", section.Name, section.Difficulty))
		if len(section.FocusTopics) > 0 {
			output.WriteString(fmt.Sprintf("  Topics: %s\n", strings.Join(section.FocusTopics, ", ")))
		}
		if len(section.Languages) > 0 {
			output.WriteString(fmt.Sprintf("  Languages: %s\n", strings.Join(section.Languages, ", ")))
		}
	}

	if result.PreparationRoadmap != "" {
		output.WriteString("\nPreparation Roadmap:\n")
		output.WriteString(result.PreparationRoadmap)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (atf *AssessmentTextFormatter) SupportedType() string {
	return "AssessmentOutput"
}

// AssessmentMarkdownFormatter handles markdown formatting for assessment predictions
type AssessmentMarkdownFormatter struct{}

func (amf *AssessmentMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AssessmentOutput)
	if !ok {
		return "", fmt.Errorf("expected AssessmentOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Assessment Prediction\n\n")
	output.WriteString(fmt.Sprintf("**Predicted Company:** %s\n\n", result.PredictedCompany))
	output.WriteString(fmt.Sprintf("**Assessment Tier:** %s\n\n", result.AssessmentTier))
	output.WriteString(fmt.Sprintf("**Provider:** %s\n\n", result.TestPattern.Provider))

	output.WriteString("## Sections\n\n")
	for _, section := range result.TestPattern.Sections {
		output.WriteString(fmt.Sprintf("### %s\n\n", section.Name))
		output.WriteString(fmt.Sprintf("**Difficulty:** %s\n\n", section.Difficulty))
		if len(section.FocusTopics) > 0 {
			output.WriteString(fmt.Sprintf("**Topics:** %s\n\n", strings.Join(section.FocusTopics, ", ")))
		}
		if len(section.Languages) > 0 {
			output.WriteString(fmt.Sprintf("**Languages:** %s\n\n", strings.Join(section.Languages, ", ")))
		}
	}

	if result.PreparationRoadmap != "" {
		output.WriteString("## Preparation Roadmap\n\n")
		output.WriteString(result.PreparationRoadmap)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (amf *AssessmentMarkdownFormatter) SupportedType() string {
	return "AssessmentOutput"
}

// RoadmapTextFormatter handles text formatting for career roadmaps
type RoadmapTextFormatter struct{}

func (rtf *RoadmapTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RoadmapOutput)
	if !ok {
		return "", fmt.Errorf("expected RoadmapOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CAREER ROADMAP ===\n\n")
	if result.OverallReadinessSummary != "" {
		output.WriteString(result.OverallReadinessSummary)
		output.WriteString("\n\n")
	}

	if len(result.IdentifiedGaps) == 0 {
		output.WriteString("No skill gaps identified.\n")
		return output.String(), nil
	}

	for i, gap := range result.IdentifiedGaps {
		output.WriteString(fmt.Sprintf("%d. %s (impact %.1f, seen %dx in JD)\n",
			i+1, gap.Skill, gap.ImpactScore, gap.Frequency))
		for _, res := range gap.LearningPath {
			output.WriteString(fmt.Sprintf("   - %s: %s", res.Provider, res.ResourceName))
			if res.EstimatedTime != "" {
				output.WriteString(fmt.Sprintf(" (%s)", res.EstimatedTime))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *RoadmapTextFormatter) SupportedType() string {
	return "RoadmapOutput"
}

// RoadmapMarkdownFormatter handles markdown formatting for career roadmaps
type RoadmapMarkdownFormatter struct{}

func (rmf *RoadmapMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RoadmapOutput)
	if !ok {
		return "", fmt.Errorf("expected RoadmapOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Career Roadmap\n\n")
	if result.OverallReadinessSummary != "" {
		output.WriteString(result.OverallReadinessSummary)
		output.WriteString("\n\n")
	}

	if len(result.IdentifiedGaps) == 0 {
		output.WriteString("No skill gaps identified.\n")
		return output.String(), nil
	}

	for _, gap := range result.IdentifiedGaps {
		output.WriteString(fmt.Sprintf("## %s\n\n", gap.Skill))
		output.WriteString(fmt.Sprintf("**Impact:** %.1f  **Frequency:** %dx\n\n", gap.ImpactScore, gap.Frequency))
		if len(gap.LearningPath) > 0 {
			output.WriteString("**Learning Path:**\n\n")
			for _, res := range gap.LearningPath {
				output.WriteString(fmt.Sprintf("- %s: %s", res.Provider, res.ResourceName))
				if res.EstimatedTime != "" {
					output.WriteString(fmt.Sprintf(" (%s)", res.EstimatedTime))
				}
				output.WriteString("\n")
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (rmf *RoadmapMarkdownFormatter) SupportedType() string {
	return "RoadmapOutput"
}
