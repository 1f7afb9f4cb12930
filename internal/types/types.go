package types

// ParsedResume is the structured representation returned by the upload
// endpoint. Sections maps a heading to its extracted text; the client never
// mutates it, only passes it back on generation calls.
type ParsedResume struct {
	Sections map[string]string `json:"sections"`
	RawText  string            `json:"raw_text,omitempty"`
}

// UploadResult is the response of a resume upload
type UploadResult struct {
	ParsedResume ParsedResume `json:"parsed_resume"`
	Filename     string       `json:"filename"`
}

// GenerateBulletsInput represents the input for a generation call
type GenerateBulletsInput struct {
	ParsedResume ParsedResume `json:"parsed_resume"`
	JDText       string       `json:"jd_text"`
}

// ATSScores holds the before/after keyword-match percentages and the keyword
// breakdown. Scores are percentages in [0,100]; after may be lower than before.
type ATSScores struct {
	BeforeScore           int      `json:"before_score"`
	AfterScore            int      `json:"after_score"`
	MatchedKeywords       []string `json:"matched_keywords"`
	NewMatchesFromBullets []string `json:"new_matches_from_bullets"`
	MissingKeywords       []string `json:"missing_keywords"`
}

// Improvement returns the score delta. Display code shows a badge only when
// this is strictly positive.
func (s ATSScores) Improvement() int {
	return s.AfterScore - s.BeforeScore
}

// Bullet is one tailored achievement line. The index in the enclosing slice is
// its identity for all per-bullet operations; there is no separate id.
type Bullet struct {
	Original       string   `json:"original,omitempty"`
	Rewritten      string   `json:"rewritten"`
	JDKeywordsUsed []string `json:"jd_keywords_used,omitempty"`
	Rationale      string   `json:"rationale,omitempty"`
}

// SourceText returns the text a deep rewrite should start from: the original
// resume line when present, else the already-tailored text.
func (b Bullet) SourceText() string {
	if b.Original != "" {
		return b.Original
	}
	return b.Rewritten
}

// MatchAnalysis breaks JD requirements down by how well the resume covers them
type MatchAnalysis struct {
	StrongMatches  []string `json:"strong_matches,omitempty"`
	PartialMatches []string `json:"partial_matches,omitempty"`
	Gaps           []string `json:"gaps,omitempty"`
}

// TailoringResult is the response of one generation call. It is replaced
// wholesale on every successful generation and discarded on reset.
type TailoringResult struct {
	Bullets       []Bullet      `json:"bullets"`
	ATSScores     ATSScores     `json:"ats_scores"`
	MatchAnalysis MatchAnalysis `json:"match_analysis"`
	JDKeywords    []string      `json:"jd_keywords,omitempty"`
}

// RewriteBulletInput represents the input for a per-bullet deep rewrite
type RewriteBulletInput struct {
	MasterResumeText string `json:"master_resume_text"`
	TargetJD         string `json:"target_jd"`
	TargetExperience string `json:"target_experience"`
}

// RewriteOutcome is the result of one deep rewrite. HonestyCheck is the
// service's pass/fail label for whether the rewrite stayed within the user's
// real experience.
type RewriteOutcome struct {
	OptimizedBullet       string `json:"optimized_bullet"`
	HonestyCheck          string `json:"honesty_check"`
	OriginalSourceSnippet string `json:"original_source_snippet,omitempty"`
	MappingLogic          string `json:"mapping_logic,omitempty"`
}

// Session is one persisted tailoring run retrieved from history. It is
// immutable once fetched.
type Session struct {
	ID            string        `json:"id"`
	CreatedAt     string        `json:"created_at"`
	JDText        string        `json:"jd_text"`
	JDSnippet     string        `json:"jd_snippet,omitempty"`
	Bullets       []Bullet      `json:"bullets"`
	ATSScores     ATSScores     `json:"ats_scores"`
	MatchAnalysis MatchAnalysis `json:"match_analysis"`
	JDKeywords    []string      `json:"jd_keywords,omitempty"`
}

// Snippet returns the stored JD snippet, falling back to a prefix of the full
// JD text the way the history list renders cards.
func (s Session) Snippet() string {
	if s.JDSnippet != "" {
		return s.JDSnippet
	}
	const max = 120
	if len(s.JDText) > max {
		return s.JDText[:max]
	}
	return s.JDText
}

// SessionList is the response of the history list call
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// InterviewPrepInput represents the input for interview question generation
type InterviewPrepInput struct {
	ProjectTitle       string   `json:"project_title"`
	ProjectDescription string   `json:"project_description"`
	TechStack          []string `json:"tech_stack"`
	GithubURL          string   `json:"github_url,omitempty"`
}

// InterviewQuestion is one predicted interviewer question with coaching hints
type InterviewQuestion struct {
	Category       string `json:"category"`
	Question       string `json:"question"`
	Intent         string `json:"intent"`
	HintForStudent string `json:"hint_for_student"`
}

// InterviewPrepOutput represents the interview prep response
type InterviewPrepOutput struct {
	ProjectSummary string              `json:"project_summary,omitempty"`
	InterviewPrep  []InterviewQuestion `json:"interview_prep"`
}

// AssessmentInput represents the input for assessment prediction
type AssessmentInput struct {
	TargetJD string `json:"target_jd"`
}

// AssessmentSection is one predicted section of an online assessment
type AssessmentSection struct {
	Name        string   `json:"name"`
	Difficulty  string   `json:"difficulty"`
	FocusTopics []string `json:"focus_topics,omitempty"`
	Languages   []string `json:"languages,omitempty"`
}

// TestPattern describes the predicted assessment provider and its sections
type TestPattern struct {
	Provider string              `json:"provider"`
	Sections []AssessmentSection `json:"sections"`
}

// AssessmentOutput represents the assessment prediction response
type AssessmentOutput struct {
	PredictedCompany   string      `json:"predicted_company"`
	AssessmentTier     string      `json:"assessment_tier"`
	TestPattern        TestPattern `json:"test_pattern"`
	PreparationRoadmap string      `json:"preparation_roadmap,omitempty"`
}

// RoadmapInput represents the input for career roadmap generation
type RoadmapInput struct {
	MasterResumeText string `json:"master_resume_text"`
	TargetJD         string `json:"target_jd"`
}

// LearningResource is one step of a gap's learning path
type LearningResource struct {
	Provider        string `json:"provider"`
	ResourceName    string `json:"resource_name"`
	LinkPlaceholder string `json:"link_placeholder,omitempty"`
	EstimatedTime   string `json:"estimated_time,omitempty"`
}

// SkillGap is one missing skill with its weight and a suggested learning path
type SkillGap struct {
	Skill        string             `json:"skill"`
	Frequency    int                `json:"frequency"`
	ImpactScore  float64            `json:"impact_score"`
	LearningPath []LearningResource `json:"learning_path"`
}

// RoadmapOutput represents the career roadmap response
type RoadmapOutput struct {
	OverallReadinessSummary string     `json:"overall_readiness_summary,omitempty"`
	IdentifiedGaps          []SkillGap `json:"identified_gaps"`
}
