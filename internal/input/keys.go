package input

import (
	"fmt"
	"strings"
)

// Key is a Linux input event key code (linux/input-event-codes.h).
type Key uint16

const (
	KeyEscape     Key = 1
	KeyTab        Key = 15
	KeyCtrlLeft   Key = 29
	KeyShiftLeft  Key = 42
	KeyShiftRight Key = 54
	KeyAltLeft    Key = 56
	KeySpace      Key = 57
	KeyCapsLock   Key = 58
	KeyF1         Key = 59
	KeyF2         Key = 60
	KeyF3         Key = 61
	KeyF4         Key = 62
	KeyF5         Key = 63
	KeyF6         Key = 64
	KeyF7         Key = 65
	KeyF8         Key = 66
	KeyF9         Key = 67
	KeyF10        Key = 68
	KeyF11        Key = 87
	KeyF12        Key = 88
	KeyCtrlRight  Key = 97
	KeyAltRight   Key = 100
	KeySuperLeft  Key = 125
	KeySuperRight Key = 126
)

var keyNames = map[Key]string{
	KeyEscape:     "escape",
	KeyTab:        "tab",
	KeyCtrlLeft:   "ctrl_left",
	KeyShiftLeft:  "shift_left",
	KeyShiftRight: "shift_right",
	KeyAltLeft:    "alt_left",
	KeySpace:      "space",
	KeyCapsLock:   "caps_lock",
	KeyF1:         "f1",
	KeyF2:         "f2",
	KeyF3:         "f3",
	KeyF4:         "f4",
	KeyF5:         "f5",
	KeyF6:         "f6",
	KeyF7:         "f7",
	KeyF8:         "f8",
	KeyF9:         "f9",
	KeyF10:        "f10",
	KeyF11:        "f11",
	KeyF12:        "f12",
	KeyCtrlRight:  "ctrl_right",
	KeyAltRight:   "alt_right",
	KeySuperLeft:  "super_left",
	KeySuperRight: "super_right",
}

// aliases maps accepted spellings onto canonical names.
var aliases = map[string]Key{
	"ctrl":          KeyCtrlLeft,
	"control":       KeyCtrlLeft,
	"control_left":  KeyCtrlLeft,
	"left_ctrl":     KeyCtrlLeft,
	"left_control":  KeyCtrlLeft,
	"controlleft":   KeyCtrlLeft,
	"control_right": KeyCtrlRight,
	"right_ctrl":    KeyCtrlRight,
	"right_control": KeyCtrlRight,
	"controlright":  KeyCtrlRight,
	"shift":         KeyShiftLeft,
	"left_shift":    KeyShiftLeft,
	"shiftleft":     KeyShiftLeft,
	"right_shift":   KeyShiftRight,
	"shiftright":    KeyShiftRight,
	"alt":           KeyAltLeft,
	"left_alt":      KeyAltLeft,
	"altleft":       KeyAltLeft,
	"right_alt":     KeyAltRight,
	"altgr":         KeyAltRight,
	"super":         KeySuperLeft,
	"meta":          KeySuperLeft,
	"meta_left":     KeySuperLeft,
	"left_super":    KeySuperLeft,
	"metaleft":      KeySuperLeft,
	"meta_right":    KeySuperRight,
	"right_super":   KeySuperRight,
	"metaright":     KeySuperRight,
	"capslock":      KeyCapsLock,
	"esc":           KeyEscape,
}

// ParseKey resolves a case-insensitive key name.
func ParseKey(name string) (Key, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if k, ok := aliases[n]; ok {
		return k, true
	}
	for k, canonical := range keyNames {
		if canonical == n {
			return k, true
		}
	}
	return 0, false
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// MarshalText lets the key appear by name in YAML and JSON output.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
