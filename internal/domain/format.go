package domain

import (
	"fmt"
	"strings"
)

const (
	// MaxBabyNameLen bounds the stored child name.
	MaxBabyNameLen = 50
	// MaxNoteLen bounds a free-text note.
	MaxNoteLen = 500
)

// FormatDuration renders whole seconds as hh:mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// TruncateBabyName trims and bounds a child name.
func TruncateBabyName(s string) string {
	return truncate(strings.TrimSpace(s), MaxBabyNameLen)
}

// TruncateNote trims and bounds a note.
func TruncateNote(s string) string {
	return truncate(strings.TrimSpace(s), MaxNoteLen)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
