package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformSenders_Commands(t *testing.T) {
	t.Parallel()

	n := NewNotification(Title, `upload "1.2.4" failed`, TypeFailure)

	tests := map[string]struct {
		sender     Sender
		wantVisual []string
		wantSound  []string
	}{
		"darwin": {
			sender:     newDarwinSender(),
			wantVisual: []string{"osascript", "-e", `display notification "upload \"1.2.4\" failed" with title "mpci"`},
			wantSound:  []string{"afplay", "/System/Library/Sounds/Glass.aiff"},
		},
		"linux": {
			sender:     newLinuxSender(),
			wantVisual: []string{"notify-send", "--app-name=mpci", "--urgency=critical", "mpci", `upload "1.2.4" failed`},
			wantSound:  []string{"paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga"},
		},
		"windows": {
			sender:    newWindowsSender(),
			wantSound: []string{"powershell", "-NoProfile", "-Command", "[System.Media.SystemSounds]::Asterisk.Play()"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cs, ok := tt.sender.(*commandSender)
			if !assert.True(t, ok) {
				return
			}
			if tt.wantVisual == nil {
				assert.Nil(t, cs.visual)
			} else {
				assert.Equal(t, tt.wantVisual, cs.visual(n))
			}
			assert.Equal(t, tt.wantSound, cs.sound(""))
		})
	}
}

func TestWindowsSender_CustomSound(t *testing.T) {
	t.Parallel()

	cs := newWindowsSender().(*commandSender)
	argv := cs.sound(`C:\Users\o'neil\done.wav`)
	assert.Equal(t, `(New-Object Media.SoundPlayer 'C:\Users\o''neil\done.wav').PlaySync()`, argv[3])
}

func TestNoopSender(t *testing.T) {
	t.Parallel()

	s := &noopSender{}
	assert.NoError(t, s.SendVisual(Notification{}))
	assert.NoError(t, s.SendSound(""))
	assert.False(t, s.VisualAvailable())
	assert.False(t, s.SoundAvailable())
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, NewSender())
	assert.NotEmpty(t, Platform())
}
