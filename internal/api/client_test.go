package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cyrus/internal/config"
	"cyrus/internal/errors"
	"cyrus/internal/identity"
	"cyrus/internal/observability"
	"cyrus/internal/types"
)

func testConfig(baseURL string) *config.Config {
	timeout := 5 * time.Second
	return &config.Config{
		API: config.APIConfig{
			BaseURL: baseURL,
			Timeout: timeout,
			APIKey:  "test-api-key",
		},
		App: config.AppConfig{
			LogLevel:         "error",
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxUploadSize:    10 * 1024 * 1024,
		},
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger, _ := errors.New("error")
	id, err := identity.NewProvider(config.AuthConfig{UserID: "test-user"}, logger)
	if err != nil {
		t.Fatalf("failed to build identity provider: %v", err)
	}
	// An uninitialized manager keeps every call on the instrumented path
	// without standing up exporters
	client := NewClient(testConfig(baseURL), id, logger, &observability.ObservabilityManager{})
	t.Cleanup(client.Close)
	return client
}

func TestWrapOperationError(t *testing.T) {
	tests := []struct {
		name            string
		operation       string
		err             error
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "service detail wins over generic message",
			operation:       OpUpload,
			err:             &statusError{status: 422, detail: "Only PDF files are supported"},
			expectedCode:    errors.ErrCodeUploadFailed,
			expectedMessage: "Only PDF files are supported",
		},
		{
			name:            "generic message when no detail",
			operation:       OpGenerate,
			err:             &statusError{status: 500},
			expectedCode:    errors.ErrCodeGenerationFailed,
			expectedMessage: "Failed to generate tailored bullets",
		},
		{
			name:            "generic message for transport errors",
			operation:       OpRewrite,
			err:             stderrors.New("connection refused"),
			expectedCode:    errors.ErrCodeRewriteFailed,
			expectedMessage: "Deep rewrite failed",
		},
		{
			name:            "history failures get the history code",
			operation:       OpHistory,
			err:             &statusError{status: 503},
			expectedCode:    errors.ErrCodeHistoryFailed,
			expectedMessage: "Failed to load history",
		},
		{
			name:            "prep operations fall back to the generic api code",
			operation:       OpInterview,
			err:             &statusError{status: 500},
			expectedCode:    errors.ErrCodeAPIFailed,
			expectedMessage: "Failed to generate interview prep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := wrapOperationError(tt.operation, tt.err)
			if appErr.Code != tt.expectedCode {
				t.Errorf("code = %s, want %s", appErr.Code, tt.expectedCode)
			}
			if appErr.Message != tt.expectedMessage {
				t.Errorf("message = %q, want %q", appErr.Message, tt.expectedMessage)
			}
			if appErr.Context["operation"] != tt.operation {
				t.Errorf("operation context = %v, want %s", appErr.Context["operation"], tt.operation)
			}
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"plain error", stderrors.New("boom"), false},
		{"net error", net.Error(timeoutError{}), true},
		{"wrapped net error", fmt.Errorf("request failed: %w", timeoutError{}), true},
		{"status 429", &statusError{status: http.StatusTooManyRequests}, true},
		{"status 500", &statusError{status: http.StatusInternalServerError}, true},
		{"status 502", &statusError{status: http.StatusBadGateway}, true},
		{"status 503", &statusError{status: http.StatusServiceUnavailable}, true},
		{"status 504", &statusError{status: http.StatusGatewayTimeout}, true},
		{"status 400", &statusError{status: http.StatusBadRequest}, false},
		{"status 404", &statusError{status: http.StatusNotFound}, false},
		{"status 422", &statusError{status: http.StatusUnprocessableEntity}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestBuildMultipartBody(t *testing.T) {
	body, contentType, err := buildMultipartBody("resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("buildMultipartBody failed: %v", err)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Errorf("content type = %q, want multipart/form-data", contentType)
	}
	if !strings.Contains(string(body), `name="file"; filename="resume.pdf"`) {
		t.Error("body should carry the file part named \"file\"")
	}
	if !strings.Contains(string(body), "%PDF-1.4 fake") {
		t.Error("body should contain the file content")
	}
}

func TestGenerateBullets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-bullets" {
			t.Errorf("path = %s, want /api/generate-bullets", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if r.Header.Get("X-API-Key") != "test-api-key" {
			t.Error("missing X-API-Key header")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"bullets":[{"original":"a","rewritten":"b"}],"ats_scores":{"before_score":45,"after_score":82}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.GenerateBullets(context.Background(), types.GenerateBulletsInput{
		JDText: "backend role",
	})
	if err != nil {
		t.Fatalf("GenerateBullets failed: %v", err)
	}
	if len(result.Bullets) != 1 {
		t.Fatalf("got %d bullets, want 1", len(result.Bullets))
	}
	if result.ATSScores.AfterScore != 82 {
		t.Errorf("after score = %d, want 82", result.ATSScores.AfterScore)
	}
}

func TestErrorEnvelopeDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"detail":"Job description is too short"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GenerateBullets(context.Background(), types.GenerateBulletsInput{})
	if err == nil {
		t.Fatal("expected error")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Message != "Job description is too short" {
		t.Errorf("message = %q, want the service detail", appErr.Message)
	}
}

func TestErrorEnvelopeMalformedBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.RewriteBullet(context.Background(), types.RewriteBulletInput{})
	if err == nil {
		t.Fatal("expected error")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Message != "Deep rewrite failed" {
		t.Errorf("message = %q, want the generic fallback", appErr.Message)
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"optimized_bullet":"better"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	outcome, err := client.RewriteBullet(context.Background(), types.RewriteBulletInput{})
	if err != nil {
		t.Fatalf("RewriteBullet failed: %v", err)
	}
	if outcome.OptimizedBullet != "better" {
		t.Errorf("outcome = %q, want better", outcome.OptimizedBullet)
	}
	if attempts != 2 {
		t.Errorf("server saw %d attempts, want 2", attempts)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"bad input"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.GenerateBullets(context.Background(), types.GenerateBulletsInput{}); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("server saw %d attempts, want 1 (4xx must not retry)", attempts)
	}
}

func TestListSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/history" {
			t.Errorf("path = %s, want /api/history", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "test-user" {
			t.Errorf("user_id = %q, want test-user", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sessions":[{"id":"s1"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	list, err := client.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].ID != "s1" {
		t.Errorf("sessions = %+v, want one session s1", list.Sessions)
	}
}

func TestListSessionsRequiresIdentity(t *testing.T) {
	logger, _ := errors.New("error")
	id, _ := identity.NewProvider(config.AuthConfig{}, logger)
	client := NewClient(testConfig("http://localhost:0"), id, logger, nil)
	defer client.Close()

	_, err := client.ListSessions(context.Background())
	if err == nil {
		t.Fatal("expected error for anonymous client")
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeMissingToken {
		t.Errorf("expected %s, got %v", errors.ErrCodeMissingToken, err)
	}
}

func TestUploadResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload-resume" {
			t.Errorf("path = %s, want /api/upload-resume", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "resume.pdf" {
			t.Errorf("filename = %s, want resume.pdf", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"filename":"resume.pdf","parsed_resume":{"sections":{"Experience":"Built things"}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.UploadResume(context.Background(), "resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("UploadResume failed: %v", err)
	}
	if result.Filename != "resume.pdf" {
		t.Errorf("filename = %q, want resume.pdf", result.Filename)
	}
	if len(result.ParsedResume.Sections) != 1 {
		t.Errorf("sections = %d, want 1", len(result.ParsedResume.Sections))
	}
}
