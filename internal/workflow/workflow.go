// Package workflow holds the three-step tailoring state machine: upload,
// describe, results. It owns the forward transitions, the generation guards,
// the dismissible error slot, and the generation counter that invalidates
// per-bullet rewrite state when results are replaced.
package workflow

import (
	"sort"
	"strings"
	"sync"

	"cyrus/internal/errors"
	"cyrus/internal/types"
)

// Step identifies one stage of the tailoring workflow
type Step int

const (
	StepUpload Step = iota + 1
	StepDescribe
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepDescribe:
		return "describe"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// WordCount counts whitespace-separated words in trimmed text. An all-
// whitespace string counts zero.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Manager is the mutable session state for one tailoring run. Generation
// completions can arrive on goroutines, so every accessor locks.
type Manager struct {
	mu sync.Mutex

	step       Step
	upload     *types.UploadResult
	jdText     string
	generating bool
	generation uint64
	result     *types.TailoringResult
	lastErr    error

	logger *errors.Logger
}

// NewManager creates a workflow at the upload step
func NewManager(logger *errors.Logger) *Manager {
	return &Manager{
		step:   StepUpload,
		logger: logger,
	}
}

// Step returns the current workflow step
func (m *Manager) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// SetUploadResult stores a parsed resume and advances to the describe step.
// Any stale error from a previous attempt is cleared.
func (m *Manager) SetUploadResult(result types.UploadResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upload = &result
	m.lastErr = nil
	m.step = StepDescribe

	m.logger.Debug("Workflow advanced", "step", m.step.String(), "filename", result.Filename)
}

// UploadResult returns the parsed resume, if one has been uploaded
func (m *Manager) UploadResult() (types.UploadResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upload == nil {
		return types.UploadResult{}, false
	}
	return *m.upload, true
}

// MasterResumeText returns the full resume text used as rewrite grounding:
// the raw extraction when present, else the sections joined in stable order.
func (m *Manager) MasterResumeText() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upload == nil {
		return ""
	}
	if m.upload.ParsedResume.RawText != "" {
		return m.upload.ParsedResume.RawText
	}

	headings := make([]string, 0, len(m.upload.ParsedResume.Sections))
	for heading := range m.upload.ParsedResume.Sections {
		headings = append(headings, heading)
	}
	sort.Strings(headings)

	var b strings.Builder
	for _, heading := range headings {
		b.WriteString(heading)
		b.WriteString("\n")
		b.WriteString(m.upload.ParsedResume.Sections[heading])
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// SetJobDescription stores the target job description text
func (m *Manager) SetJobDescription(jd string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jdText = jd
}

// JobDescription returns the stored job description
func (m *Manager) JobDescription() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jdText
}

// CanGenerate reports whether a generation may start: a parsed resume exists,
// the job description has content beyond whitespace, and no generation is
// already running.
func (m *Manager) CanGenerate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canGenerateLocked()
}

func (m *Manager) canGenerateLocked() bool {
	return m.upload != nil && strings.TrimSpace(m.jdText) != "" && !m.generating
}

// BeginGeneration validates the guards and marks a generation in flight,
// returning the request input. Calls that fail a guard are no-ops with a
// descriptive error.
func (m *Manager) BeginGeneration() (types.GenerateBulletsInput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generating {
		return types.GenerateBulletsInput{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"A generation is already running", nil)
	}
	if m.upload == nil {
		return types.GenerateBulletsInput{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Upload a resume before generating", nil)
	}
	if strings.TrimSpace(m.jdText) == "" {
		return types.GenerateBulletsInput{}, errors.NewValidationError(errors.ErrCodeEmptyJD,
			"Paste a job description before generating", nil)
	}

	m.generating = true
	m.lastErr = nil

	return types.GenerateBulletsInput{
		ParsedResume: m.upload.ParsedResume,
		JDText:       m.jdText,
	}, nil
}

// CompleteGeneration replaces the tailoring result wholesale, bumps the
// generation counter, and advances to the results step. The returned
// generation tags per-bullet rewrite state; completions carrying an older tag
// are stale.
func (m *Manager) CompleteGeneration(result types.TailoringResult) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generating = false
	m.result = &result
	m.generation++
	m.step = StepResults

	m.logger.Debug("Generation completed",
		"generation", m.generation,
		"bullets", len(result.Bullets))

	return m.generation
}

// FailGeneration clears the in-flight flag and records a dismissible error.
// The workflow stays on the describe step so the user can retry.
func (m *Manager) FailGeneration(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generating = false
	m.lastErr = err
}

// Generating reports whether a generation is in flight
func (m *Manager) Generating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generating
}

// Result returns the current tailoring result, if any
func (m *Manager) Result() (types.TailoringResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.result == nil {
		return types.TailoringResult{}, false
	}
	return *m.result, true
}

// Generation returns the current generation counter. Zero means nothing has
// been generated yet.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Err returns the dismissible error, if one is set
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// DismissError clears the error slot without touching any other state
func (m *Manager) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
}

// Reset returns the workflow to a fresh upload step, discarding the parsed
// resume, job description, results, and error. The generation counter is NOT
// reset so rewrite completions from before the reset stay stale forever.
// Resetting an already-fresh workflow is a no-op.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.step = StepUpload
	m.upload = nil
	m.jdText = ""
	m.generating = false
	m.result = nil
	m.lastErr = nil

	m.logger.Debug("Workflow reset")
}
