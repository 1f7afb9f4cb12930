// Package upload owns the resume upload flow: pre-flight validation, the
// single in-flight guard, simulated progress, and the settle delay before the
// parsed result is handed to the workflow.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cyrus/internal/errors"
	"cyrus/internal/progress"
	"cyrus/internal/types"
	"cyrus/internal/utils"
)

// settleDelay keeps the completed progress display visible briefly before the
// result replaces it
const settleDelay = 400 * time.Millisecond

// ResumeParser is the remote call the uploader depends on
type ResumeParser interface {
	UploadResume(ctx context.Context, filename string, content io.Reader) (types.UploadResult, error)
}

// Uploader validates and uploads resume files. At most one upload runs at a
// time; a second attempt while one is in flight is rejected, not queued.
type Uploader struct {
	parser  ResumeParser
	maxSize int64
	logger  *errors.Logger

	mu       sync.Mutex
	inFlight bool
}

// NewUploader creates an uploader with the given size limit
func NewUploader(parser ResumeParser, maxSize int64, logger *errors.Logger) *Uploader {
	return &Uploader{
		parser:  parser,
		maxSize: maxSize,
		logger:  logger,
	}
}

// ValidateFile runs the pre-flight checks without touching the network:
// the file must exist, carry a .pdf extension (any case), and fit the size
// limit. Nothing is uploaded when any check fails.
func (u *Uploader) ValidateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFileType,
			fmt.Sprintf("Path is a directory, not a file: %s", path), nil)
	}

	if !utils.IsPDFFile(path) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFileType,
			"Please upload a PDF file", nil).WithContext("filename", path)
	}

	if info.Size() > u.maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File is too large (%s); the limit is %s",
				utils.FormatFileSize(info.Size()), utils.FormatFileSize(u.maxSize)), nil).
			WithContext("size_bytes", info.Size())
	}

	return info, nil
}

// Upload validates the file and sends it for parsing, reporting simulated
// progress through onProgress. On success the progress snaps to 100 and the
// settle delay elapses before the result is returned. On failure the upload
// state returns to idle so the user can retry immediately.
func (u *Uploader) Upload(ctx context.Context, path string, onProgress func(percent int)) (types.UploadResult, error) {
	if _, err := u.ValidateFile(path); err != nil {
		return types.UploadResult{}, err
	}

	if err := u.acquire(); err != nil {
		return types.UploadResult{}, err
	}
	defer u.release()

	file, err := os.Open(path)
	if err != nil {
		return types.UploadResult{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", path), err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			u.logger.Warn("Failed to close file", "filename", path, "error", closeErr)
		}
	}()

	sim := progress.NewSimulator(onProgress)
	sim.Start()

	result, err := u.parser.UploadResume(ctx, filepath.Base(path), file)
	if err != nil {
		sim.Abort()
		return types.UploadResult{}, err
	}

	sim.Finish()

	// Hold the completed bar on screen before the caller advances
	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
	}

	u.logger.Info("Resume uploaded and parsed",
		"filename", result.Filename,
		"sections", len(result.ParsedResume.Sections))

	return result, nil
}

// acquire marks the uploader busy, rejecting concurrent uploads
func (u *Uploader) acquire() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.inFlight {
		return errors.NewValidationError(errors.ErrCodeUploadInFlight,
			"An upload is already in progress", nil)
	}
	u.inFlight = true
	return nil
}

func (u *Uploader) release() {
	u.mu.Lock()
	u.inFlight = false
	u.mu.Unlock()
}
