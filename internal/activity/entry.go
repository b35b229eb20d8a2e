package activity

import "time"

// DateFormat is the day key used throughout the store.
const DateFormat = "2006-01-02"

// ActivityEntry is one classified tracking sample. Entries are immutable
// once created and owned by the store.
type ActivityEntry struct {
	Timestamp   string   `json:"timestamp"` // ISO-8601
	Activity    Activity `json:"activity"`
	Reasoning   string   `json:"reasoning,omitempty"`
	Description string   `json:"description,omitempty"`
}

// NewEntry creates an entry stamped with the given time.
func NewEntry(ts time.Time, act Activity, reasoning, description string) ActivityEntry {
	return ActivityEntry{
		Timestamp:   ts.Format(time.RFC3339),
		Activity:    act,
		Reasoning:   reasoning,
		Description: description,
	}
}

// IdleEntry creates the marker entry recorded when the machine is idle.
func IdleEntry(ts time.Time) ActivityEntry {
	return ActivityEntry{
		Timestamp: ts.Format(time.RFC3339),
		Activity:  Idle,
	}
}

// Time parses the entry timestamp. A zero time is returned for malformed
// timestamps, which only occur if the store was edited by hand.
func (e ActivityEntry) Time() time.Time {
	t, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Date returns the YYYY-MM-DD day key for this entry.
func (e ActivityEntry) Date() string {
	return e.Time().Format(DateFormat)
}

// DayRecord holds all entries for one calendar day, in chronological order.
// It is append-only during the day.
type DayRecord struct {
	Date       string          `json:"date"`
	Activities []ActivityEntry `json:"activities"`
}

// DayObjectives holds the user's stated objectives for one day, used to
// grade the day summary.
type DayObjectives struct {
	Date                string    `json:"date"`
	MainObjective       string    `json:"main_objective"`
	SecondaryObjectives []string  `json:"secondary_objectives,omitempty"` // at most two
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MaxSecondaryObjectives caps the secondary objectives per day.
const MaxSecondaryObjectives = 2
