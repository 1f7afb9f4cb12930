package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"cyrus/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "TailoringResult", &TailoringTextFormatter{})
	registry.RegisterFormatter("markdown", "TailoringResult", &TailoringMarkdownFormatter{})
	registry.RegisterFormatter("text", "RewriteOutcome", &RewriteTextFormatter{})
	registry.RegisterFormatter("markdown", "RewriteOutcome", &RewriteMarkdownFormatter{})
	registry.RegisterFormatter("text", "SessionList", &SessionListTextFormatter{})
	registry.RegisterFormatter("markdown", "SessionList", &SessionListMarkdownFormatter{})
	registry.RegisterFormatter("text", "Session", &SessionTextFormatter{})
	registry.RegisterFormatter("markdown", "Session", &SessionMarkdownFormatter{})
	registry.RegisterFormatter("text", "InterviewPrepOutput", &InterviewTextFormatter{})
	registry.RegisterFormatter("markdown", "InterviewPrepOutput", &InterviewMarkdownFormatter{})
	registry.RegisterFormatter("text", "AssessmentOutput", &AssessmentTextFormatter{})
	registry.RegisterFormatter("markdown", "AssessmentOutput", &AssessmentMarkdownFormatter{})
	registry.RegisterFormatter("text", "RoadmapOutput", &RoadmapTextFormatter{})
	registry.RegisterFormatter("markdown", "RoadmapOutput", &RoadmapMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.TailoringResult:
		return "TailoringResult"
	case types.RewriteOutcome:
		return "RewriteOutcome"
	case types.SessionList:
		return "SessionList"
	case types.Session:
		return "Session"
	case types.InterviewPrepOutput:
		return "InterviewPrepOutput"
	case types.AssessmentOutput:
		return "AssessmentOutput"
	case types.RoadmapOutput:
		return "RoadmapOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// writeScores renders the before/after ATS scores; the improvement badge only
// appears when the delta is strictly positive
func writeScores(output *strings.Builder, scores types.ATSScores, markdown bool) {
	if markdown {
		output.WriteString(fmt.Sprintf("**ATS Match:** %d%% → %d%%", scores.BeforeScore, scores.AfterScore))
		if delta := scores.Improvement(); delta > 0 {
			output.WriteString(fmt.Sprintf(" _(+%d%%)_", delta))
		}
		output.WriteString("\n\n")
		return
	}

	output.WriteString(fmt.Sprintf("ATS Match: %d%% -> %d%%", scores.BeforeScore, scores.AfterScore))
	if delta := scores.Improvement(); delta > 0 {
		output.WriteString(fmt.Sprintf(" (+%d%%)", delta))
	}
	output.WriteString("\n")
}

// TailoringTextFormatter handles text formatting for tailoring results
type TailoringTextFormatter struct{}

func (ttf *TailoringTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailoringResult)
	if !ok {
		return "", fmt.Errorf("expected TailoringResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TAILORED BULLETS ===\n\n")
	if len(result.Bullets) == 0 {
		output.WriteString("No bullets generated.\n\n")
	}
	for i, bullet := range result.Bullets {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet.Rewritten))
		if bullet.Original != "" {
			output.WriteString(fmt.Sprintf("   Original: %s\n", bullet.Original))
		}
		if len(bullet.JDKeywordsUsed) > 0 {
			output.WriteString(fmt.Sprintf("   Keywords: %s\n", strings.Join(bullet.JDKeywordsUsed, ", ")))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== ATS SCORES ===\n")
	writeScores(&output, result.ATSScores, false)
	output.WriteString("\n")
	if len(result.ATSScores.MatchedKeywords) > 0 {
		output.WriteString("Matched Keywords:\n")
		for _, kw := range result.ATSScores.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.ATSScores.NewMatchesFromBullets) > 0 {
		output.WriteString("New Matches From Bullets:\n")
		for _, kw := range result.ATSScores.NewMatchesFromBullets {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.ATSScores.MissingKeywords) > 0 {
		output.WriteString("Still Missing:\n")
		for _, kw := range result.ATSScores.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== MATCH ANALYSIS ===\n")
	writeMatchAnalysisText(&output, result.MatchAnalysis)

	return output.String(), nil
}

func (ttf *TailoringTextFormatter) SupportedType() string {
	return "TailoringResult"
}

func writeMatchAnalysisText(output *strings.Builder, analysis types.MatchAnalysis) {
	if len(analysis.StrongMatches) > 0 {
		output.WriteString("Strong Matches:\n")
		for _, m := range analysis.StrongMatches {
			output.WriteString(fmt.Sprintf("- %s\n", m))
		}
		output.WriteString("\n")
	}
	if len(analysis.PartialMatches) > 0 {
		output.WriteString("Partial Matches:\n")
		for _, m := range analysis.PartialMatches {
			output.WriteString(fmt.Sprintf("- %s\n", m))
		}
		output.WriteString("\n")
	}
	if len(analysis.Gaps) > 0 {
		output.WriteString("Gaps:\n")
		for _, g := range analysis.Gaps {
			output.WriteString(fmt.Sprintf("- %s\n", g))
		}
		output.WriteString("\n")
	}
}

// TailoringMarkdownFormatter handles markdown formatting for tailoring results
type TailoringMarkdownFormatter struct{}

func (tmf *TailoringMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailoringResult)
	if !ok {
		return "", fmt.Errorf("expected TailoringResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Tailored Bullets\n\n")
	if len(result.Bullets) == 0 {
		output.WriteString("_No bullets generated._\n")
	}
	for i, bullet := range result.Bullets {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet.Rewritten))
		if bullet.Original != "" {
			output.WriteString(fmt.Sprintf("   - _Original:_ %s\n", bullet.Original))
		}
		if len(bullet.JDKeywordsUsed) > 0 {
			output.WriteString(fmt.Sprintf("   - _Keywords:_ %s\n", strings.Join(bullet.JDKeywordsUsed, ", ")))
		}
	}
	output.WriteString("\n")

	output.WriteString("## ATS Scores\n\n")
	writeScores(&output, result.ATSScores, true)
	if len(result.ATSScores.MatchedKeywords) > 0 {
		output.WriteString("### Matched Keywords\n")
		for _, kw := range result.ATSScores.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.ATSScores.NewMatchesFromBullets) > 0 {
		output.WriteString("### New Matches From Bullets\n")
		for _, kw := range result.ATSScores.NewMatchesFromBullets {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.ATSScores.MissingKeywords) > 0 {
		output.WriteString("### Still Missing\n")
		for _, kw := range result.ATSScores.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Match Analysis\n\n")
	if len(result.MatchAnalysis.StrongMatches) > 0 {
		output.WriteString("### Strong Matches\n")
		for _, m := range result.MatchAnalysis.StrongMatches {
			output.WriteString(fmt.Sprintf("- %s\n", m))
		}
		output.WriteString("\n")
	}
	if len(result.MatchAnalysis.PartialMatches) > 0 {
		output.WriteString("### Partial Matches\n")
		for _, m := range result.MatchAnalysis.PartialMatches {
			output.WriteString(fmt.Sprintf("- %s\n", m))
		}
		output.WriteString("\n")
	}
	if len(result.MatchAnalysis.Gaps) > 0 {
		output.WriteString("### Gaps\n")
		for _, g := range result.MatchAnalysis.Gaps {
			output.WriteString(fmt.Sprintf("- %s\n", g))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (tmf *TailoringMarkdownFormatter) SupportedType() string {
	return "TailoringResult"
}

// RewriteTextFormatter handles text formatting for deep rewrite outcomes
type RewriteTextFormatter struct{}

func (rtf *RewriteTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RewriteOutcome)
	if !ok {
		return "", fmt.Errorf("expected RewriteOutcome, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== DEEP REWRITE ===\n\n")
	output.WriteString(result.OptimizedBullet)
	output.WriteString("\n\n")
	output.WriteString(fmt.Sprintf("Honesty Check: %s\n", result.HonestyCheck))
	if result.OriginalSourceSnippet != "" {
		output.WriteString(fmt.Sprintf("Source: %s\n", result.OriginalSourceSnippet))
	}
	if result.MappingLogic != "" {
		output.WriteString(fmt.Sprintf("Mapping: %s\n", result.MappingLogic))
	}

	return output.String(), nil
}

func (rtf *RewriteTextFormatter) SupportedType() string {
	return "RewriteOutcome"
}

// RewriteMarkdownFormatter handles markdown formatting for deep rewrite outcomes
type RewriteMarkdownFormatter struct{}

func (rmf *RewriteMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RewriteOutcome)
	if !ok {
		return "", fmt.Errorf("expected RewriteOutcome, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Deep Rewrite\n\n")
	output.WriteString(result.OptimizedBullet)
	output.WriteString("\n\n")
	output.WriteString(fmt.Sprintf("**Honesty Check:** %s\n\n", result.HonestyCheck))
	if result.OriginalSourceSnippet != "" {
		output.WriteString(fmt.Sprintf("**Source:** %s\n\n", result.OriginalSourceSnippet))
	}
	if result.MappingLogic != "" {
		output.WriteString(fmt.Sprintf("**Mapping:** %s\n", result.MappingLogic))
	}

	return output.String(), nil
}

func (rmf *RewriteMarkdownFormatter) SupportedType() string {
	return "RewriteOutcome"
}

// SessionListTextFormatter handles text formatting for the history list
type SessionListTextFormatter struct{}

func (slf *SessionListTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SessionList)
	if !ok {
		return "", fmt.Errorf("expected SessionList, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SESSION HISTORY ===\n\n")
	if len(result.Sessions) == 0 {
		output.WriteString("No sessions yet.\n")
		return output.String(), nil
	}

	for i, session := range result.Sessions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, session.CreatedAt))
		output.WriteString(fmt.Sprintf("   %s\n", session.Snippet()))
		output.WriteString(fmt.Sprintf("   Bullets: %d  ATS: %d%% -> %d%%\n\n",
			len(session.Bullets), session.ATSScores.BeforeScore, session.ATSScores.AfterScore))
	}

	return output.String(), nil
}

func (slf *SessionListTextFormatter) SupportedType() string {
	return "SessionList"
}

// SessionListMarkdownFormatter handles markdown formatting for the history list
type SessionListMarkdownFormatter struct{}

func (slmf *SessionListMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SessionList)
	if !ok {
		return "", fmt.Errorf("expected SessionList, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Session History\n\n")
	if len(result.Sessions) == 0 {
		output.WriteString("No sessions yet.\n")
		return output.String(), nil
	}

	for i, session := range result.Sessions {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, session.CreatedAt))
		output.WriteString(fmt.Sprintf("> %s\n\n", session.Snippet()))
		output.WriteString(fmt.Sprintf("**Bullets:** %d  **ATS:** %d%% → %d%%\n\n",
			len(session.Bullets), session.ATSScores.BeforeScore, session.ATSScores.AfterScore))
	}

	return output.String(), nil
}

func (slmf *SessionListMarkdownFormatter) SupportedType() string {
	return "SessionList"
}

// SessionTextFormatter handles text formatting for a single history session
type SessionTextFormatter struct{}

func (stf *SessionTextFormatter) Format(data any) (string, error) {
	session, ok := data.(types.Session)
	if !ok {
		return "", fmt.Errorf("expected Session, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SESSION ===\n\n")
	output.WriteString(fmt.Sprintf("Created: %s\n\n", session.CreatedAt))
	output.WriteString("Job Description:\n")
	output.WriteString(session.JDText)
	output.WriteString("\n\n")

	output.WriteString("Bullets:\n")
	for i, bullet := range session.Bullets {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet.Rewritten))
	}
	output.WriteString("\n")

	writeScores(&output, session.ATSScores, false)
	output.WriteString("\n")
	writeMatchAnalysisText(&output, session.MatchAnalysis)

	return output.String(), nil
}

func (stf *SessionTextFormatter) SupportedType() string {
	return "Session"
}

// SessionMarkdownFormatter handles markdown formatting for a single history session
type SessionMarkdownFormatter struct{}

func (smf *SessionMarkdownFormatter) Format(data any) (string, error) {
	session, ok := data.(types.Session)
	if !ok {
		return "", fmt.Errorf("expected Session, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Session\n\n")
	output.WriteString(fmt.Sprintf("**Created:** %s\n\n", session.CreatedAt))
	output.WriteString("## Job Description\n\n")
	output.WriteString(session.JDText)
	output.WriteString("\n\n")

	output.WriteString("## Bullets\n\n")
	for i, bullet := range session.Bullets {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet.Rewritten))
	}
	output.WriteString("\n")

	output.WriteString("## ATS Scores\n\n")
	writeScores(&output, session.ATSScores, true)

	return output.String(), nil
}

func (smf *SessionMarkdownFormatter) SupportedType() string {
	return "Session"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
