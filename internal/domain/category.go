package domain

import "fmt"

// Category is a kind of timed caregiving activity.
type Category string

const (
	Breastfeeding Category = "breastfeeding"
	Sleep         Category = "sleep"
	Formula       Category = "formula"
)

// Categories lists all known categories in display order.
var Categories = []Category{Breastfeeding, Sleep, Formula}

type categoryMeta struct {
	label  string
	emoji  string
	button string
}

var categoryMetas = map[Category]categoryMeta{
	Breastfeeding: {label: "Breastfeeding", emoji: "🍼", button: "🍼 Feed"},
	Sleep:         {label: "Sleep", emoji: "😴", button: "😴 Sleep"},
	Formula:       {label: "Formula", emoji: "🍶", button: "🍶 Formula"},
}

// Label returns the human-readable category name.
func (c Category) Label() string { return categoryMetas[c].label }

// Emoji returns the category's display emoji.
func (c Category) Emoji() string { return categoryMetas[c].emoji }

// Button returns the main-keyboard button text for the category.
func (c Category) Button() string { return categoryMetas[c].button }

// HasVolume reports whether entries of this category carry a volume.
func (c Category) HasVolume() bool { return c == Formula }

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryMetas[c]
	return ok
}

// CategoryFromButton maps a main-keyboard button text back to its category.
func CategoryFromButton(text string) (Category, bool) {
	for c, m := range categoryMetas {
		if m.button == text {
			return c, true
		}
	}
	return "", false
}

// ReminderText builds the reminder message for a category, naming the child
// and the elapsed interval.
func (c Category) ReminderText(babyName string, intervalSec int) string {
	elapsed := FormatDuration(intervalSec)
	switch c {
	case Breastfeeding:
		return fmt.Sprintf("🍼 Time to feed %s! It has been %s", babyName, elapsed)
	case Formula:
		return fmt.Sprintf("🍶 Formula time for %s! It has been %s", babyName, elapsed)
	case Sleep:
		return fmt.Sprintf("😴 %s will want to sleep soon! It has been %s", babyName, elapsed)
	default:
		return fmt.Sprintf("⏰ Reminder: %s", c.Label())
	}
}
