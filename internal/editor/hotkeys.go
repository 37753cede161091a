package editor

import (
	"fmt"
	"strings"

	"github.com/eykd/pagemark-go/internal/doc"
)

// Hotkey is a key press. Mod is the platform modifier (Ctrl, or Cmd on
// macOS).
type Hotkey struct {
	Mod bool
	Key string
}

func (h Hotkey) String() string {
	if h.Mod {
		return "mod+" + h.Key
	}
	return h.Key
}

// hotkeyMarks binds modifier keys to the mark they toggle.
var hotkeyMarks = map[string]doc.Mark{
	"b": doc.MarkBold,
	"i": doc.MarkItalic,
	"`": doc.MarkCode,
}

// ParseHotkey parses "mod+b" style notation. The key is case-insensitive.
func ParseHotkey(s string) (Hotkey, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	var h Hotkey
	if rest, ok := strings.CutPrefix(s, "mod+"); ok {
		h.Mod = true
		s = rest
	}
	if s == "" || strings.Contains(s, "+") {
		return Hotkey{}, fmt.Errorf("invalid hotkey %q", s)
	}
	h.Key = s
	return h, nil
}

// HandleHotkey toggles the mark bound to h. It reports whether h is bound.
func (e *Editor) HandleHotkey(h Hotkey) bool {
	if !h.Mod {
		return false
	}
	mark, ok := hotkeyMarks[strings.ToLower(h.Key)]
	if !ok {
		return false
	}
	e.ToggleMark(mark)
	return true
}
