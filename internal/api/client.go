// Package api is the HTTP client for the remote tailoring service. All
// parsing, generation, and rewriting intelligence lives server-side; this
// package owns the wire contract, per-operation timeouts, retries, circuit
// breaking, and client-side pacing.
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"cyrus/internal/config"
	"cyrus/internal/errors"
	"cyrus/internal/identity"
	"cyrus/internal/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Operation types, used as keys for breakers, pacing, and error mapping
const (
	OpUpload     = "upload"
	OpGenerate   = "generate"
	OpRewrite    = "rewrite"
	OpHistory    = "history"
	OpInterview  = "interview"
	OpAssessment = "assessment"
	OpRoadmap    = "roadmap"
)

// Client talks to the remote tailoring service
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        *config.Config
	identity   *identity.Provider
	logger     *errors.Logger
	pacer      *Pacer
	breakers   map[string]*APICircuitBreaker
	opConfigs  map[string]config.OperationAPIConfig
	om         *observability.ObservabilityManager
}

// NewClient creates a client for the configured service. The base URL and
// credentials are injected here; nothing downstream reads ambient state. A nil
// observability manager disables per-operation metrics.
func NewClient(cfg *config.Config, id *identity.Provider, logger *errors.Logger, om *observability.ObservabilityManager) *Client {
	prepCfg := cfg.GetPrepConfig()
	opConfigs := map[string]config.OperationAPIConfig{
		OpUpload:     cfg.GetUploadConfig(),
		OpGenerate:   cfg.GetGenerateConfig(),
		OpRewrite:    cfg.GetRewriteConfig(),
		OpHistory:    cfg.GetHistoryConfig(),
		OpInterview:  prepCfg,
		OpAssessment: prepCfg,
		OpRoadmap:    prepCfg,
	}

	breakers := make(map[string]*APICircuitBreaker, len(opConfigs))
	for op := range opConfigs {
		opCfg := opConfigs[op]
		breakers[op] = NewAPICircuitBreaker(op, &opCfg, logger)
	}

	var pacer *Pacer
	if cfg.API.RateLimit.Enabled {
		pacer = NewPacer(cfg.API.RateLimit.RequestsPerMin, cfg.API.RateLimit.BurstCapacity, logger)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:       cfg,
		identity:  id,
		logger:    logger,
		pacer:     pacer,
		breakers:  breakers,
		opConfigs: opConfigs,
		om:        om,
	}
}

// Close releases client-side resources
func (c *Client) Close() {
	c.pacer.Close()
}

// GetCircuitBreakerStats returns per-operation circuit breaker statistics
func (c *Client) GetCircuitBreakerStats() map[string]any {
	stats := make(map[string]any, len(c.breakers))
	healthy := true
	for op, cb := range c.breakers {
		stats[op] = cb.GetStats()
		healthy = healthy && cb.IsHealthy()
	}
	stats["overall_healthy"] = healthy
	return stats
}

// statusError carries an HTTP failure with the service's best-effort detail
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("status %d: %s", e.status, e.detail)
	}
	return fmt.Sprintf("status %d", e.status)
}

// errorBody is the error envelope the service returns when it can
type errorBody struct {
	Detail string `json:"detail"`
}

// genericMessages are the user-facing fallbacks when the service gives no
// usable detail
var genericMessages = map[string]string{
	OpUpload:     "Failed to upload resume",
	OpGenerate:   "Failed to generate tailored bullets",
	OpRewrite:    "Deep rewrite failed",
	OpHistory:    "Failed to load history",
	OpInterview:  "Failed to generate interview prep",
	OpAssessment: "Failed to predict the assessment",
	OpRoadmap:    "Failed to build the career roadmap",
}

var errorCodes = map[string]string{
	OpUpload:   errors.ErrCodeUploadFailed,
	OpGenerate: errors.ErrCodeGenerationFailed,
	OpRewrite:  errors.ErrCodeRewriteFailed,
	OpHistory:  errors.ErrCodeHistoryFailed,
}

// wrapOperationError converts a transport-level failure into an AppError with
// the operation's code. A service-provided detail message wins over the
// generic fallback.
func wrapOperationError(operation string, err error) *errors.AppError {
	code, ok := errorCodes[operation]
	if !ok {
		code = errors.ErrCodeAPIFailed
	}

	message := genericMessages[operation]
	var se *statusError
	if stderrors.As(err, &se) && se.detail != "" {
		message = se.detail
	}

	appErr := errors.NewAPIError(code, message, err).WithContext("operation", operation)
	if se != nil {
		appErr = appErr.WithContext("status", se.status)
	}
	return appErr
}

// do runs one operation end to end: pacing, per-operation timeout, circuit
// breaker, retries. The body builder is called per attempt so retried
// requests get fresh readers.
func (c *Client) do(ctx context.Context, operation, method, path, contentType string, body []byte) ([]byte, error) {
	opCfg := c.opConfigs[operation]

	ctx, cancel := context.WithTimeout(ctx, *opCfg.Timeout)
	defer cancel()

	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, operation); err != nil {
			return nil, err
		}
	}

	run := func(ctx context.Context) ([]byte, error) {
		return c.breakers[operation].Execute(func() ([]byte, error) {
			return c.doWithRetry(ctx, operation, method, path, contentType, body, *opCfg.MaxRetries)
		})
	}

	if c.om == nil {
		return run(ctx)
	}

	// Request count, duration, and error metrics are recorded per operation
	var respBody []byte
	err := c.om.GetMetrics().TrackAPIOperation(ctx, operation, func(ctx context.Context) error {
		var opErr error
		respBody, opErr = run(ctx)
		return opErr
	}, c.om)
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

// doWithRetry executes a request with retry logic and exponential backoff
func (c *Client) doWithRetry(ctx context.Context, operation, method, path, contentType string, body []byte, maxRetries int) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying API operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.doOnce(ctx, method, path, contentType, body)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("API operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			c.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	return nil, lastErr
}

// doOnce builds, sends, and reads one HTTP request
func (c *Client) doOnce(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.cfg.API.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.API.APIKey)
	}
	if id := c.identity.Current(); !id.Anonymous() {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// Best-effort decode of the service's error envelope; bodies that
		// aren't the expected shape fall back to the generic message
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return nil, &statusError{status: resp.StatusCode, detail: eb.Detail}
	}

	return respBody, nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection issues)
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var se *statusError
	if stderrors.As(err, &se) {
		switch se.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAPIOperation is a generic helper to run JSON operations with common
// tracing, marshaling, and error mapping.
func executeAPIOperation[Out any](
	c *Client,
	ctx context.Context,
	operation string,
	method string,
	path string,
	payload any,
	spanAttributes ...attribute.KeyValue,
) (Out, error) {
	var output Out
	tracer := otel.Tracer("cyrus.api")
	ctx, span := tracer.Start(ctx, "api."+operation)
	defer span.End()

	span.SetAttributes(attribute.String("api.operation", operation))
	span.SetAttributes(spanAttributes...)

	var body []byte
	contentType := ""
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			span.RecordError(err)
			return output, errors.NewInternalError(errors.ErrCodeInvalidRequest,
				"Failed to encode request for "+operation, err)
		}
		contentType = "application/json"
	}

	respBody, err := c.do(ctx, operation, method, path, contentType, body)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, wrapOperationError(operation, err)
	}

	if err := json.Unmarshal(respBody, &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, errors.NewAPIError("API_RESPONSE_PARSE_FAILED",
			"Failed to parse response for "+operation, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, nil
}
