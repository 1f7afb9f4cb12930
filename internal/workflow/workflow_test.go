package workflow

import (
	stderrors "errors"
	"testing"

	"cyrus/internal/errors"
	"cyrus/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger, _ := errors.New("error")
	return NewManager(logger)
}

func sampleUpload() types.UploadResult {
	return types.UploadResult{
		Filename: "resume.pdf",
		ParsedResume: types.ParsedResume{
			Sections: map[string]string{
				"Experience": "Built things",
				"Education":  "Studied things",
			},
		},
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"only whitespace", "  \t\n  ", 0},
		{"single word", "engineer", 1},
		{"multiple words", "senior backend engineer", 3},
		{"collapses runs of whitespace", "a  b\t\tc\n\nd", 4},
		{"leading and trailing space", "  hello world  ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.text); got != tt.expected {
				t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestStepString(t *testing.T) {
	tests := []struct {
		step     Step
		expected string
	}{
		{StepUpload, "upload"},
		{StepDescribe, "describe"},
		{StepResults, "results"},
		{Step(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.step.String(); got != tt.expected {
			t.Errorf("Step(%d).String() = %q, want %q", tt.step, got, tt.expected)
		}
	}
}

func TestBeginGenerationGuards(t *testing.T) {
	t.Run("rejects without upload", func(t *testing.T) {
		m := newTestManager(t)
		m.SetJobDescription("some job description")

		_, err := m.BeginGeneration()
		if err == nil {
			t.Fatal("expected error without upload")
		}
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeInvalidRequest {
			t.Errorf("expected %s, got %v", errors.ErrCodeInvalidRequest, err)
		}
	})

	t.Run("rejects whitespace-only job description", func(t *testing.T) {
		m := newTestManager(t)
		m.SetUploadResult(sampleUpload())
		m.SetJobDescription("   \n\t ")

		_, err := m.BeginGeneration()
		if err == nil {
			t.Fatal("expected error for empty job description")
		}
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeEmptyJD {
			t.Errorf("expected %s, got %v", errors.ErrCodeEmptyJD, err)
		}
	})

	t.Run("rejects concurrent generation", func(t *testing.T) {
		m := newTestManager(t)
		m.SetUploadResult(sampleUpload())
		m.SetJobDescription("backend role")

		if _, err := m.BeginGeneration(); err != nil {
			t.Fatalf("first BeginGeneration failed: %v", err)
		}
		if _, err := m.BeginGeneration(); err == nil {
			t.Fatal("expected error for generation already in flight")
		}
	})

	t.Run("returns resume and jd on success", func(t *testing.T) {
		m := newTestManager(t)
		m.SetUploadResult(sampleUpload())
		m.SetJobDescription("backend role")

		input, err := m.BeginGeneration()
		if err != nil {
			t.Fatalf("BeginGeneration failed: %v", err)
		}
		if input.JDText != "backend role" {
			t.Errorf("JDText = %q, want %q", input.JDText, "backend role")
		}
		if len(input.ParsedResume.Sections) != 2 {
			t.Errorf("expected 2 sections, got %d", len(input.ParsedResume.Sections))
		}
	})
}

func TestCanGenerate(t *testing.T) {
	m := newTestManager(t)
	if m.CanGenerate() {
		t.Error("fresh workflow should not be able to generate")
	}

	m.SetUploadResult(sampleUpload())
	if m.CanGenerate() {
		t.Error("should not generate without a job description")
	}

	m.SetJobDescription("backend role")
	if !m.CanGenerate() {
		t.Error("should be able to generate with upload and jd")
	}

	if _, err := m.BeginGeneration(); err != nil {
		t.Fatalf("BeginGeneration failed: %v", err)
	}
	if m.CanGenerate() {
		t.Error("should not generate while one is in flight")
	}
}

func TestGenerationCounter(t *testing.T) {
	m := newTestManager(t)
	m.SetUploadResult(sampleUpload())
	m.SetJobDescription("backend role")

	if m.Generation() != 0 {
		t.Errorf("fresh generation = %d, want 0", m.Generation())
	}

	if _, err := m.BeginGeneration(); err != nil {
		t.Fatalf("BeginGeneration failed: %v", err)
	}
	first := m.CompleteGeneration(types.TailoringResult{})
	if first != 1 {
		t.Errorf("first generation = %d, want 1", first)
	}
	if m.Step() != StepResults {
		t.Errorf("step = %v, want results", m.Step())
	}

	if _, err := m.BeginGeneration(); err != nil {
		t.Fatalf("second BeginGeneration failed: %v", err)
	}
	second := m.CompleteGeneration(types.TailoringResult{})
	if second != 2 {
		t.Errorf("second generation = %d, want 2", second)
	}
}

func TestFailGenerationStaysOnDescribe(t *testing.T) {
	m := newTestManager(t)
	m.SetUploadResult(sampleUpload())
	m.SetJobDescription("backend role")

	if _, err := m.BeginGeneration(); err != nil {
		t.Fatalf("BeginGeneration failed: %v", err)
	}

	failure := stderrors.New("service unavailable")
	m.FailGeneration(failure)

	if m.Step() != StepDescribe {
		t.Errorf("step after failure = %v, want describe", m.Step())
	}
	if m.Generating() {
		t.Error("generating flag should clear after failure")
	}
	if m.Err() != failure {
		t.Errorf("Err() = %v, want %v", m.Err(), failure)
	}
	if !m.CanGenerate() {
		t.Error("should be able to retry after a failure")
	}

	m.DismissError()
	if m.Err() != nil {
		t.Error("error should clear on dismiss")
	}
}

func TestUploadClearsStaleError(t *testing.T) {
	m := newTestManager(t)
	m.SetUploadResult(sampleUpload())
	m.SetJobDescription("backend role")
	if _, err := m.BeginGeneration(); err != nil {
		t.Fatalf("BeginGeneration failed: %v", err)
	}
	m.FailGeneration(stderrors.New("boom"))

	m.SetUploadResult(sampleUpload())
	if m.Err() != nil {
		t.Error("uploading a new resume should clear the stale error")
	}
}

func TestMasterResumeText(t *testing.T) {
	t.Run("empty without upload", func(t *testing.T) {
		m := newTestManager(t)
		if got := m.MasterResumeText(); got != "" {
			t.Errorf("MasterResumeText() = %q, want empty", got)
		}
	})

	t.Run("prefers raw text", func(t *testing.T) {
		m := newTestManager(t)
		m.SetUploadResult(types.UploadResult{
			ParsedResume: types.ParsedResume{
				RawText:  "full raw extraction",
				Sections: map[string]string{"Experience": "ignored"},
			},
		})
		if got := m.MasterResumeText(); got != "full raw extraction" {
			t.Errorf("MasterResumeText() = %q, want raw text", got)
		}
	})

	t.Run("joins sections in stable order", func(t *testing.T) {
		m := newTestManager(t)
		m.SetUploadResult(types.UploadResult{
			ParsedResume: types.ParsedResume{
				Sections: map[string]string{
					"Experience": "Built things",
					"Education":  "Studied things",
				},
			},
		})
		expected := "Education\nStudied things\n\nExperience\nBuilt things"
		if got := m.MasterResumeText(); got != expected {
			t.Errorf("MasterResumeText() = %q, want %q", got, expected)
		}
	})
}

func TestResetPreservesGenerationCounter(t *testing.T) {
	m := newTestManager(t)
	m.SetUploadResult(sampleUpload())
	m.SetJobDescription("backend role")
	if _, err := m.BeginGeneration(); err != nil {
		t.Fatalf("BeginGeneration failed: %v", err)
	}
	generation := m.CompleteGeneration(types.TailoringResult{})

	m.Reset()

	if m.Step() != StepUpload {
		t.Errorf("step after reset = %v, want upload", m.Step())
	}
	if _, ok := m.UploadResult(); ok {
		t.Error("upload should clear on reset")
	}
	if m.JobDescription() != "" {
		t.Error("job description should clear on reset")
	}
	if _, ok := m.Result(); ok {
		t.Error("result should clear on reset")
	}
	if m.Generation() != generation {
		t.Errorf("generation after reset = %d, want %d (counter never resets)", m.Generation(), generation)
	}

	// Resetting twice is a no-op
	m.Reset()
	if m.Step() != StepUpload {
		t.Error("double reset should stay on upload")
	}
}
