package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cyrus/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TokenWatcher watches the identity-token file for changes and delivers the
// refreshed token to a callback. The external identity provider owns the file;
// editors and rotation daemons tend to write it with rename-replace, so the
// watcher re-adds the path after such events and debounces bursts.
type TokenWatcher struct {
	mu sync.Mutex

	tokenFile     string
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}

	onToken func(token string)
	logger  *errors.Logger

	running bool
}

// NewTokenWatcher creates a watcher for the given token file
func NewTokenWatcher(tokenFile string, debounceDelay time.Duration, onToken func(token string), logger *errors.Logger) *TokenWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &TokenWatcher{
		tokenFile:     tokenFile,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		onToken:       onToken,
		logger:        logger,
	}
}

// Start begins watching the token file for changes
func (tw *TokenWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("token watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	tw.fsWatcher = watcher

	// Watch the directory rather than the file itself so rename-replace
	// writes keep delivering events
	dir := filepath.Dir(tw.tokenFile)
	if err := watcher.Add(dir); err != nil {
		tw.cleanupWatcher()
		return fmt.Errorf("failed to watch token directory %s: %w", dir, err)
	}

	tw.running = true
	go tw.watchLoop()

	tw.logger.Info("Identity token watcher started",
		"file", tw.tokenFile,
		"debounce_delay", tw.debounceDelay)
	return nil
}

// Stop stops the watcher and releases the file system handle
func (tw *TokenWatcher) Stop() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return
	}

	close(tw.stopChan)
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}
	tw.cleanupWatcher()
	tw.running = false

	tw.logger.Info("Identity token watcher stopped", "file", tw.tokenFile)
}

func (tw *TokenWatcher) cleanupWatcher() {
	if tw.fsWatcher != nil {
		if closeErr := tw.fsWatcher.Close(); closeErr != nil {
			tw.logger.LogError(closeErr, "Failed to close token file watcher")
		}
	}
}

func (tw *TokenWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-tw.fsWatcher.Events:
			if !ok {
				return
			}
			tw.handleEvent(event)
		case err, ok := <-tw.fsWatcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("Token watcher error", "error", err)
		case <-tw.stopChan:
			return
		}
	}
}

// handleEvent debounces relevant events before reloading the token
func (tw *TokenWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(tw.tokenFile) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}
	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, tw.reloadToken)
}

func (tw *TokenWatcher) reloadToken() {
	data, err := os.ReadFile(tw.tokenFile)
	if err != nil {
		tw.logger.Warn("Failed to reload identity token", "file", tw.tokenFile, "error", err)
		return
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		tw.logger.Warn("Identity token file is empty after refresh", "file", tw.tokenFile)
		return
	}

	tw.logger.Info("Identity token refreshed from file", "file", tw.tokenFile)
	tw.onToken(token)
}
