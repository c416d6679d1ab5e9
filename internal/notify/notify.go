// Package notify sends desktop notifications when long mpci runs finish.
//
// Notifications are opt-in and never sent in CI or without a terminal, so
// the same configuration works on a laptop and in a pipeline.
package notify

import "time"

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess indicates a successful operation
	TypeSuccess NotificationType = "success"
	// TypeFailure indicates a failed operation
	TypeFailure NotificationType = "failure"
	// TypeInfo indicates an informational notification
	TypeInfo NotificationType = "info"
)

// OutputType represents the notification output type
type OutputType string

const (
	// OutputSound sends only an audible notification
	OutputSound OutputType = "sound"
	// OutputVisual sends only a visual notification
	OutputVisual OutputType = "visual"
	// OutputBoth sends both sound and visual notifications
	OutputBoth OutputType = "both"
)

// ValidOutputType checks if the given string is a valid output type
func ValidOutputType(s string) bool {
	switch OutputType(s) {
	case OutputSound, OutputVisual, OutputBoth:
		return true
	default:
		return false
	}
}

// NotificationConfig is the notifications section of mpci.yml.
type NotificationConfig struct {
	// Enabled is the master switch (default false).
	Enabled bool `koanf:"enabled" yaml:"enabled"`

	// Type is sound, visual or both (default both).
	Type OutputType `koanf:"type" yaml:"type" validate:"oneof=sound visual both"`

	// SoundFile replaces the platform's default alert sound.
	SoundFile string `koanf:"sound_file" yaml:"sound_file"`

	// OnCommandComplete notifies when upload, preview or pack-npm finishes.
	OnCommandComplete bool `koanf:"on_command_complete" yaml:"on_command_complete"`

	// OnRebuild notifies after every rebuild in preview --watch.
	OnRebuild bool `koanf:"on_rebuild" yaml:"on_rebuild"`

	// OnError notifies on failures even when OnCommandComplete is off.
	OnError bool `koanf:"on_error" yaml:"on_error"`

	// LongRunningThreshold suppresses completion notifications for runs
	// shorter than this. Zero or negative means always notify.
	LongRunningThreshold time.Duration `koanf:"long_running_threshold" yaml:"long_running_threshold"`
}

// DefaultConfig returns a NotificationConfig with default values
func DefaultConfig() NotificationConfig {
	return NotificationConfig{
		Enabled:              false,
		Type:                 OutputBoth,
		OnCommandComplete:    true,
		OnRebuild:            false,
		OnError:              true,
		LongRunningThreshold: 30 * time.Second,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	// Title is the notification title, "mpci".
	Title string

	// Message is the notification body text
	Message string

	// NotificationType indicates the event type: success, failure, or info
	NotificationType NotificationType
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string, notificationType NotificationType) Notification {
	return Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
}
