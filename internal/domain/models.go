package domain

// FallbackBabyName is used until onboarding captures the real name.
const FallbackBabyName = "your baby"

// User is a registered caregiver.
type User struct {
	ID         int64
	Username   string
	FirstName  string
	BabyName   string // empty until onboarding
	JoinedDate string // YYYY-MM-DD
}

// Entry is a persisted, completed activity. Immutable once written except for
// the note, which may be attached once right after creation.
type Entry struct {
	ID       int64
	UserID   int64
	Category Category
	Duration int    // whole seconds
	Volume   *int   // milliliters, Formula only
	Date     string // YYYY-MM-DD
	Start    string // HH:MM, user-local
	Note     *string
}
