package formatters

import (
	"strings"
	"testing"

	"cyrus/internal/types"
)

func TestScoreImprovementBadge(t *testing.T) {
	tests := []struct {
		name        string
		scores      types.ATSScores
		expectBadge bool
	}{
		{"positive delta shows badge", types.ATSScores{BeforeScore: 45, AfterScore: 82}, true},
		{"zero delta hides badge", types.ATSScores{BeforeScore: 70, AfterScore: 70}, false},
		{"negative delta hides badge", types.ATSScores{BeforeScore: 80, AfterScore: 75}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := types.TailoringResult{ATSScores: tt.scores}

			text, err := (&TailoringTextFormatter{}).Format(result)
			if err != nil {
				t.Fatalf("text format failed: %v", err)
			}
			if got := strings.Contains(text, "(+"); got != tt.expectBadge {
				t.Errorf("text badge present = %v, want %v\noutput: %s", got, tt.expectBadge, text)
			}

			md, err := (&TailoringMarkdownFormatter{}).Format(result)
			if err != nil {
				t.Fatalf("markdown format failed: %v", err)
			}
			if got := strings.Contains(md, "_(+"); got != tt.expectBadge {
				t.Errorf("markdown badge present = %v, want %v", got, tt.expectBadge)
			}
		})
	}
}

func TestTailoringEmptyBullets(t *testing.T) {
	result := types.TailoringResult{}

	text, err := (&TailoringTextFormatter{}).Format(result)
	if err != nil {
		t.Fatalf("text format failed: %v", err)
	}
	if !strings.Contains(text, "No bullets generated.") {
		t.Errorf("text output missing empty-state message:\n%s", text)
	}

	md, err := (&TailoringMarkdownFormatter{}).Format(result)
	if err != nil {
		t.Fatalf("markdown format failed: %v", err)
	}
	if !strings.Contains(md, "_No bullets generated._") {
		t.Errorf("markdown output missing empty-state message:\n%s", md)
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		data     any
		format   string
		contains string
	}{
		{
			name:     "tailoring result text",
			data:     types.TailoringResult{Bullets: []types.Bullet{{Rewritten: "Shipped a cache layer"}}},
			format:   "text",
			contains: "Shipped a cache layer",
		},
		{
			name:     "rewrite outcome text",
			data:     types.RewriteOutcome{OptimizedBullet: "Cut p99 latency 40%", HonestyCheck: "Grounded in the resume"},
			format:   "text",
			contains: "Honesty Check: Grounded in the resume",
		},
		{
			name:     "session list markdown",
			data:     types.SessionList{Sessions: []types.Session{{CreatedAt: "2026-08-01", JDSnippet: "Backend role"}}},
			format:   "markdown",
			contains: "Backend role",
		},
		{
			name:     "interview output text",
			data:     types.InterviewPrepOutput{InterviewPrep: []types.InterviewQuestion{{Question: "Why this architecture?"}}},
			format:   "text",
			contains: "Why this architecture?",
		},
		{
			name:     "json falls back to generic formatter",
			data:     types.RoadmapInput{TargetJD: "backend"},
			format:   "json",
			contains: `"target_jd"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if !strings.Contains(output, tt.contains) {
				t.Errorf("output missing %q:\n%s", tt.contains, output)
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()
	if _, err := registry.Format(types.TailoringResult{}, "yaml"); err == nil {
		t.Error("expected error for unregistered format")
	}
}

func TestSessionListEmpty(t *testing.T) {
	output, err := (&SessionListTextFormatter{}).Format(types.SessionList{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "No sessions yet.") {
		t.Errorf("empty list output = %q, want empty-state message", output)
	}
}

func TestSessionSnippetFallback(t *testing.T) {
	long := strings.Repeat("senior backend engineer ", 10)
	session := types.Session{JDText: long}

	output, err := (&SessionListTextFormatter{}).Format(types.SessionList{Sessions: []types.Session{session}})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(output, long) {
		t.Error("list output should carry a truncated snippet, not the full JD")
	}
}
