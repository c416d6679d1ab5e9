package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Sender defines the interface for platform-specific notification senders
type Sender interface {
	// SendVisual sends a visual notification to the OS notification system
	SendVisual(n Notification) error

	// SendSound plays an audio notification
	SendSound(soundFile string) error

	// VisualAvailable returns true if visual notifications are supported
	VisualAvailable() bool

	// SoundAvailable returns true if sound notifications are supported
	SoundAvailable() bool
}

// NewSender creates a platform-specific notification sender based on the current OS.
// It returns a sender appropriate for darwin (macOS), linux, or windows.
// For unsupported platforms, it returns a no-op sender.
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return newDarwinSender()
	case "linux":
		return newLinuxSender()
	case "windows":
		return newWindowsSender()
	default:
		return &noopSender{}
	}
}

// Platform returns the current operating system name
func Platform() string {
	return runtime.GOOS
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// commandSender runs external tools to notify. A nil builder means the
// output is unsupported.
type commandSender struct {
	visual func(n Notification) []string
	sound  func(soundFile string) []string
}

func (s *commandSender) SendVisual(n Notification) error {
	if !s.VisualAvailable() {
		return fmt.Errorf("visual notifications are not supported on %s", Platform())
	}
	return run(s.visual(n))
}

func (s *commandSender) SendSound(soundFile string) error {
	if !s.SoundAvailable() {
		return fmt.Errorf("sound notifications are not supported on %s", Platform())
	}
	return run(s.sound(soundFile))
}

func (s *commandSender) VisualAvailable() bool {
	return s.visual != nil && toolAvailable(s.visual(Notification{})[0])
}

func (s *commandSender) SoundAvailable() bool {
	return s.sound != nil && toolAvailable(s.sound("")[0])
}

func run(argv []string) error {
	if out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func newDarwinSender() Sender {
	return &commandSender{
		visual: func(n Notification) []string {
			script := fmt.Sprintf("display notification %s with title %s",
				appleScriptString(n.Message), appleScriptString(n.Title))
			return []string{"osascript", "-e", script}
		},
		sound: func(soundFile string) []string {
			if soundFile == "" {
				soundFile = "/System/Library/Sounds/Glass.aiff"
			}
			return []string{"afplay", soundFile}
		},
	}
}

func newLinuxSender() Sender {
	return &commandSender{
		visual: func(n Notification) []string {
			urgency := "normal"
			if n.NotificationType == TypeFailure {
				urgency = "critical"
			}
			return []string{"notify-send", "--app-name=mpci", "--urgency=" + urgency, n.Title, n.Message}
		},
		sound: func(soundFile string) []string {
			if soundFile == "" {
				soundFile = "/usr/share/sounds/freedesktop/stereo/complete.oga"
			}
			return []string{"paplay", soundFile}
		},
	}
}

func newWindowsSender() Sender {
	return &commandSender{
		sound: func(soundFile string) []string {
			script := "[System.Media.SystemSounds]::Asterisk.Play()"
			if soundFile != "" {
				script = fmt.Sprintf("(New-Object Media.SoundPlayer %s).PlaySync()", powerShellString(soundFile))
			}
			return []string{"powershell", "-NoProfile", "-Command", script}
		},
	}
}

func appleScriptString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func powerShellString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// noopSender is a sender that does nothing (for unsupported platforms)
type noopSender struct{}

func (s *noopSender) SendVisual(_ Notification) error { return nil }
func (s *noopSender) SendSound(_ string) error        { return nil }
func (s *noopSender) VisualAvailable() bool           { return false }
func (s *noopSender) SoundAvailable() bool            { return false }
