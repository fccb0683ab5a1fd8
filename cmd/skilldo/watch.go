package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/lint"
	"github.com/SkillDoAI/skilldo/pkg/logger"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Verbosity    string
	DebounceTime int
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		Verbosity:    "normal",
		DebounceTime: 500,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	validVerbosityLevels := []string{"quiet", "normal", "verbose"}
	valid := false
	for _, level := range validVerbosityLevels {
		if c.Verbosity == level {
			valid = true
			break
		}
	}
	if !valid {
		return errors.Errorf("invalid verbosity level: %s, must be one of: %s", c.Verbosity, strings.Join(validVerbosityLevels, ", "))
	}

	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}

	return nil
}

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the corpus and re-lint changed documents",
	Long: `Continuously monitor the corpus directories and re-lint skill documents
whenever they are written or created. Changes are debounced so editors
that write in multiple passes trigger a single lint run.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd)

		presenter.SetQuiet(config.Verbosity == "quiet")

		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("\nCancellation requested, shutting down...")
			cancel()
		}()

		runWatchMode(ctx, config)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().StringP("verbosity", "v", defaults.Verbosity, "Verbosity level (quiet, normal, verbose)")
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

	if verbosity, err := cmd.Flags().GetString("verbosity"); err == nil {
		config.Verbosity = verbosity
	}
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}

	return config
}

func runWatchMode(ctx context.Context, config *WatchConfig) {
	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize corpus discovery")
		os.Exit(1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	// Setup debouncing mechanism
	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)

	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	// Process events
	go func() {
		for {
			select {
			case event, ok := <-debouncedEvents:
				if !ok {
					return
				}
				if config.Verbosity != "quiet" {
					presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
					logger.G(ctx).WithFields(map[string]interface{}{
						"file":      event.Path,
						"operation": event.Op.String(),
						"timestamp": event.Time,
					}).Debug("File change detected")
				}
				relintFile(ctx, event.Path)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Watch for events
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only skill documents, only write and create events
				if !skill.IsSkillFile(event.Name) {
					if config.Verbosity == "verbose" {
						logger.G(ctx).WithField("file", event.Name).Debug("Skipped non-skill file")
					}
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					events <- FileEvent{
						Path: event.Name,
						Op:   event.Op,
						Time: time.Now(),
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	watched := 0
	for _, dir := range discovery.Dirs() {
		if err := watcher.Add(dir); err != nil {
			if config.Verbosity == "verbose" {
				logger.G(ctx).WithError(err).WithField("directory", dir).Debug("Cannot watch directory")
			}
			continue
		}
		watched++
		presenter.Info(fmt.Sprintf("Watching %s", dir))
	}

	if watched == 0 {
		presenter.Error(errors.New("no corpus directories could be watched"), "Nothing to watch")
		os.Exit(1)
	}

	presenter.Info("Press Ctrl+C to stop watching")

	<-ctx.Done()
	presenter.Info("Watch stopped")
}

// relintFile lints a single changed document and prints its findings
func relintFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to read %s", path))
		return
	}

	findings := lint.LintFile(path, content)
	if len(findings) == 0 {
		presenter.Success(fmt.Sprintf("%s: no problems found", path))
		return
	}

	for _, finding := range findings {
		location := finding.Path
		if finding.Line > 0 {
			location = fmt.Sprintf("%s:%d", finding.Path, finding.Line)
		}
		line := fmt.Sprintf("%s: %s (%s)", location, finding.Message, finding.Rule)

		if finding.Severity == lint.SeverityError {
			fmt.Fprintln(os.Stderr, "error: "+line)
		} else {
			fmt.Fprintln(os.Stderr, "warning: "+line)
		}
	}
}

// debounceFileEvents collapses bursts of events per path into one event
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	pending := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-input:
			if !ok {
				for _, timer := range pending {
					timer.Stop()
				}
				return
			}

			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
			}

			pending[event.Path] = time.AfterFunc(delay, func() {
				select {
				case output <- event:
				case <-ctx.Done():
				}
			})
		case <-ctx.Done():
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}
