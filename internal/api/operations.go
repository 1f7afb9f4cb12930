package api

import (
	"context"
	"net/http"
	"net/url"

	"cyrus/internal/errors"
	"cyrus/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// GenerateBullets asks the service to tailor the parsed resume against a job
// description. The previous result, if any, is the caller's to replace.
func (c *Client) GenerateBullets(ctx context.Context, input types.GenerateBulletsInput) (types.TailoringResult, error) {
	return executeAPIOperation[types.TailoringResult](
		c, ctx, OpGenerate, http.MethodPost, "/api/generate-bullets", input,
		attribute.Int("input.jd_length", len(input.JDText)),
		attribute.Int("input.sections", len(input.ParsedResume.Sections)),
	)
}

// RewriteBullet runs one deep rewrite. Callers fire these concurrently, one
// per bullet index; each call is independent on the wire.
func (c *Client) RewriteBullet(ctx context.Context, input types.RewriteBulletInput) (types.RewriteOutcome, error) {
	return executeAPIOperation[types.RewriteOutcome](
		c, ctx, OpRewrite, http.MethodPost, "/api/rewrite-bullet", input,
		attribute.Int("input.experience_length", len(input.TargetExperience)),
	)
}

// InterviewPrep generates predicted interviewer questions for a project
func (c *Client) InterviewPrep(ctx context.Context, input types.InterviewPrepInput) (types.InterviewPrepOutput, error) {
	return executeAPIOperation[types.InterviewPrepOutput](
		c, ctx, OpInterview, http.MethodPost, "/api/interview-prep", input,
		attribute.String("input.project", input.ProjectTitle),
	)
}

// AssessmentPrep predicts the online assessment for a job description
func (c *Client) AssessmentPrep(ctx context.Context, input types.AssessmentInput) (types.AssessmentOutput, error) {
	return executeAPIOperation[types.AssessmentOutput](
		c, ctx, OpAssessment, http.MethodPost, "/api/assessment-prep", input,
		attribute.Int("input.jd_length", len(input.TargetJD)),
	)
}

// CareerRoadmap builds a gap analysis with learning paths
func (c *Client) CareerRoadmap(ctx context.Context, input types.RoadmapInput) (types.RoadmapOutput, error) {
	return executeAPIOperation[types.RoadmapOutput](
		c, ctx, OpRoadmap, http.MethodPost, "/api/career-roadmap", input,
		attribute.Int("input.jd_length", len(input.TargetJD)),
	)
}

// ListSessions fetches the user's persisted tailoring sessions, newest first.
// Requires a resolved identity; anonymous clients have no history to fetch.
func (c *Client) ListSessions(ctx context.Context) (types.SessionList, error) {
	id := c.identity.Current()
	if id.UserID == "" {
		return types.SessionList{}, errors.NewValidationError(errors.ErrCodeMissingToken,
			"History requires a signed-in user", nil)
	}

	path := "/api/history?user_id=" + url.QueryEscape(id.UserID)
	return executeAPIOperation[types.SessionList](
		c, ctx, OpHistory, http.MethodGet, path, nil,
		attribute.String("history.user_id", id.UserID),
	)
}
