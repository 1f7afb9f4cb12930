package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"cyrus/internal/errors"
	"cyrus/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// UploadResume sends a PDF to the service for parsing. The caller has already
// validated the extension and size; this only owns the wire exchange.
func (c *Client) UploadResume(ctx context.Context, filename string, content io.Reader) (types.UploadResult, error) {
	tracer := otel.Tracer("cyrus.api")
	ctx, span := tracer.Start(ctx, "api."+OpUpload)
	defer span.End()

	span.SetAttributes(
		attribute.String("api.operation", OpUpload),
		attribute.String("upload.filename", filename),
	)

	body, contentType, err := buildMultipartBody(filename, content)
	if err != nil {
		span.RecordError(err)
		return types.UploadResult{}, errors.NewIOError(errors.ErrCodeUploadFailed,
			"Failed to build upload request", err)
	}
	span.SetAttributes(attribute.Int("upload.size_bytes", len(body)))

	respBody, err := c.do(ctx, OpUpload, http.MethodPost, "/api/upload-resume", contentType, body)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.UploadResult{}, wrapOperationError(OpUpload, err)
	}

	var result types.UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.UploadResult{}, errors.NewAPIError("API_RESPONSE_PARSE_FAILED",
			"Failed to parse upload response", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("upload.sections", len(result.ParsedResume.Sections)),
	)
	return result, nil
}

// buildMultipartBody encodes the file as the "file" part of a multipart form,
// which is the shape the parse endpoint expects
func buildMultipartBody(filename string, content io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
