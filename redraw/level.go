package redraw

import (
	"fmt"
	"strings"
)

// Level is the priority of a pending redraw. Higher values win on merge
type Level uint8

// Values match the editor's update_screen flags so logs line up with them
const (
	Valid       Level = 10 // buffer unchanged or changes marked per row
	Inverted    Level = 20 // redisplay the changed part of the selection
	InvertedAll Level = 25 // redisplay the whole selection
	RedrawTop   Level = 30 // redisplay the first N rows
	SomeValid   Level = 35 // like NotValid but content may be scrolled
	NotValid    Level = 40 // full content redraw, screen still a diff base
	Clear       Level = 50 // screen corrupted, wipe before redraw
)

var levelNames = map[Level]string{
	Valid:       "valid",
	Inverted:    "inverted",
	InvertedAll: "inverted_all",
	RedrawTop:   "redraw_top",
	SomeValid:   "some_valid",
	NotValid:    "not_valid",
	Clear:       "clear",
}

// Max returns the higher-priority of two levels
func (l Level) Max(other Level) Level {
	if other > l {
		return other
	}
	return l
}

// AtLeast reports whether l is at or above other
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// Known reports whether l is one of the defined levels
func (l Level) Known() bool {
	_, ok := levelNames[l]
	return ok
}

// String returns the snake_case level name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel resolves a level name as printed by String
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return Valid, fmt.Errorf("unknown redraw level %q", s)
}
