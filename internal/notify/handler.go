package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Title heads every notification.
const Title = "mpci"

// dispatchTimeout bounds a single notification so a slow sound player never
// holds up the command.
const dispatchTimeout = 5 * time.Second

// Handler manages notification dispatch based on configuration and hooks.
// All methods are no-ops when notifications are disabled, in CI, or without
// a terminal.
type Handler struct {
	config      NotificationConfig
	sender      Sender
	logger      *zap.Logger
	interactive func() bool
}

// NewHandler creates a handler that sends through the platform sender.
func NewHandler(config NotificationConfig, logger *zap.Logger) *Handler {
	return NewHandlerWithSender(config, NewSender(), logger)
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config NotificationConfig, sender Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		config:      config,
		sender:      sender,
		logger:      logger.Named("notify"),
		interactive: isInteractive,
	}
}

// Config returns the handler's notification configuration
func (h *Handler) Config() NotificationConfig {
	return h.config
}

// isEnabled checks if notifications should be sent.
func (h *Handler) isEnabled() bool {
	if h == nil || !h.config.Enabled {
		return false
	}
	if isCI() {
		h.logger.Debug("notification skipped, running in CI")
		return false
	}
	if !h.interactive() {
		h.logger.Debug("notification skipped, no terminal")
		return false
	}
	return true
}

// isCI checks for common CI environment variables.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"TF_BUILD",            // Azure DevOps
		"BITBUCKET_PIPELINES", // Bitbucket
		"CODEBUILD_BUILD_ID",  // AWS CodeBuild
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive reports whether stdout, stderr or stdin is a terminal.
func isInteractive() bool {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if term.IsTerminal(int(f.Fd())) {
			return true
		}
	}
	return false
}

// dispatch sends n in the background and waits at most dispatchTimeout.
// Failures are logged and never returned.
func (h *Handler) dispatch(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.sendNotification(n)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		h.logger.Debug("notification timed out", zap.String("message", n.Message))
	}
}

// sendNotification sends the notification based on configured type
func (h *Handler) sendNotification(n Notification) {
	visual := h.config.Type == OutputVisual || h.config.Type == OutputBoth
	sound := h.config.Type == OutputSound || h.config.Type == OutputBoth

	if visual {
		if err := h.sender.SendVisual(n); err != nil {
			h.logger.Debug("visual notification failed", zap.Error(err))
		}
	}
	if sound {
		if err := h.sender.SendSound(h.config.SoundFile); err != nil {
			h.logger.Debug("sound notification failed", zap.Error(err))
		}
	}
}

// OnCommandComplete is called when upload, preview or pack-npm finishes.
// Runs shorter than LongRunningThreshold are skipped.
func (h *Handler) OnCommandComplete(commandName string, success bool, duration time.Duration) {
	if !h.isEnabled() || !h.config.OnCommandComplete {
		return
	}
	if threshold := h.config.LongRunningThreshold; threshold > 0 && duration < threshold {
		h.logger.Debug("notification skipped, run was short",
			zap.String("command", commandName), zap.Duration("duration", duration))
		return
	}

	notifType := TypeSuccess
	status := "succeeded"
	if !success {
		notifType = TypeFailure
		status = "failed"
	}

	h.dispatch(NewNotification(
		Title,
		fmt.Sprintf("%s %s (%s)", commandName, status, formatDuration(duration)),
		notifType,
	))
}

// OnRebuild is called after each preview rebuild in watch mode.
func (h *Handler) OnRebuild(success bool, changed int) {
	if !h.isEnabled() || !h.config.OnRebuild {
		return
	}

	notifType := TypeInfo
	message := fmt.Sprintf("Preview rebuilt after %d change(s)", changed)
	if !success {
		notifType = TypeFailure
		message = fmt.Sprintf("Preview rebuild failed after %d change(s)", changed)
	}
	h.dispatch(NewNotification(Title, message, notifType))
}

// OnError is called when a command fails. It is independent of
// OnCommandComplete so failures can be reported on their own.
func (h *Handler) OnError(commandName string, err error) {
	if !h.isEnabled() || !h.config.OnError {
		return
	}

	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}

	h.dispatch(NewNotification(
		Title,
		fmt.Sprintf("%s failed: %s", commandName, errMsg),
		TypeFailure,
	))
}

// formatDuration formats a duration for display in notifications
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
