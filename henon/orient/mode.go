package orient

import (
	"fmt"
	"strings"
)

// Mode selects which rotation a pointer delta produces.
type Mode uint8

const (
	// ModeXYZ rotates inside the xyz hyperplane, leaving w fixed.
	ModeXYZ Mode = iota
	// ModeXZW rotates x and z into w.
	ModeXZW
	// ModeXYW rotates x and y into w.
	ModeXYW
)

func (m Mode) String() string {
	switch m {
	case ModeXZW:
		return "xzw"
	case ModeXYW:
		return "xyw"
	case ModeXYZ:
		return "xyz"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func (m Mode) Valid() bool { return m <= ModeXYW }

// ParseMode accepts the mode names (xzw, xyw, xyz) and the key aliases used
// by the viewer (1, 2, 3), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xzw", "1", "a":
		return ModeXZW, nil
	case "xyw", "2", "b":
		return ModeXYW, nil
	case "xyz", "3", "c", "":
		return ModeXYZ, nil
	}
	return ModeXYZ, fmt.Errorf("orient: unknown rotation mode %q", s)
}
