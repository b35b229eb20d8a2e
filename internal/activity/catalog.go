package activity

import (
	"fmt"
	"strings"
)

// MaxCatalogSize caps the number of user-defined types. Every catalog entry
// is enumerated in the classification prompt, so the cap bounds prompt length.
const MaxCatalogSize = 30

// ActivityType is one user-editable entry in the classification catalog.
type ActivityType struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	IsWork      bool   `yaml:"is_work" json:"is_work"`
}

// GenerateID derives a normalized slug from a display name: lowercased,
// non-alphanumeric runs collapsed to single underscores, no leading or
// trailing underscore.
func GenerateID(name string) string {
	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Catalog is the ordered set of user-defined activity types.
type Catalog []ActivityType

// Validate checks the catalog invariants: unique non-reserved ids, at least
// one work and one personal type, and the size cap.
func (c Catalog) Validate() error {
	if len(c) > MaxCatalogSize {
		return fmt.Errorf("catalog has %d types, maximum is %d", len(c), MaxCatalogSize)
	}

	seen := make(map[string]bool, len(c))
	hasWork, hasPersonal := false, false
	for _, t := range c {
		if t.ID == "" {
			return fmt.Errorf("activity type %q has an empty id", t.Name)
		}
		if t.ID == string(Idle) {
			return fmt.Errorf("activity type id %q is reserved", Idle)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate activity type id %q", t.ID)
		}
		seen[t.ID] = true
		if t.IsWork {
			hasWork = true
		} else {
			hasPersonal = true
		}
	}

	if !hasWork {
		return fmt.Errorf("catalog needs at least one work activity type")
	}
	if !hasPersonal {
		return fmt.Errorf("catalog needs at least one personal activity type")
	}
	return nil
}

// Lookup returns the type with the given id.
func (c Catalog) Lookup(id string) (ActivityType, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return ActivityType{}, false
}

// IDs returns the catalog ids in order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for _, t := range c {
		ids = append(ids, t.ID)
	}
	return ids
}

// Work returns the work-classified types in order.
func (c Catalog) Work() []ActivityType {
	var out []ActivityType
	for _, t := range c {
		if t.IsWork {
			out = append(out, t)
		}
	}
	return out
}

// Personal returns the personal-classified types in order.
func (c Catalog) Personal() []ActivityType {
	var out []ActivityType
	for _, t := range c {
		if !t.IsWork {
			out = append(out, t)
		}
	}
	return out
}

// Add appends a new type, deriving its id from the name when unset, and
// re-validates the resulting catalog.
func (c Catalog) Add(t ActivityType) (Catalog, error) {
	if t.ID == "" {
		t.ID = GenerateID(t.Name)
	}
	next := append(append(Catalog{}, c...), t)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove deletes the type with the given id. Removing the last work or
// personal type is rejected.
func (c Catalog) Remove(id string) (Catalog, error) {
	next := make(Catalog, 0, len(c))
	found := false
	for _, t := range c {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return nil, fmt.Errorf("no activity type with id %q", id)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// DefaultCatalog mirrors the built-in taxonomy the tracker ships with.
// Users edit it freely through the catalog commands.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "personal_browsing", Name: "Personal Browsing", Description: "User is browsing the web for personal purposes", IsWork: false},
		{ID: "social_media", Name: "Social Media", Description: "User is browsing or interacting on social media platforms", IsWork: false},
		{ID: "youtube_entertainment", Name: "YouTube Entertainment", Description: "User is watching videos on YouTube for entertainment", IsWork: false},
		{ID: "personal_email", Name: "Personal Email", Description: "User is reading or composing personal emails", IsWork: false},
		{ID: "personal_ai_use", Name: "Personal AI Use", Description: "User is interacting with AI tools (such as ChatGPT or Claude) for personal use", IsWork: false},
		{ID: "personal_finances", Name: "Personal Finances", Description: "User is managing personal finances or banking", IsWork: false},
		{ID: "professional_development", Name: "Professional Development", Description: "User is engaged in professional growth, such as learning new skills or attending webinars", IsWork: false},
		{ID: "online_shopping", Name: "Online Shopping", Description: "User is browsing or purchasing items online", IsWork: false},
		{ID: "personal_calendar", Name: "Personal Calendar", Description: "User is checking or managing their personal calendar", IsWork: false},
		{ID: "entertainment", Name: "Entertainment", Description: "User is engaged in leisure activities, such as watching movies, playing games, or listening to music", IsWork: false},
		{ID: "slack", Name: "Slack", Description: "User is actively using Slack for communication", IsWork: true},
		{ID: "work_email", Name: "Work Email", Description: "User is reading or composing work-related emails", IsWork: true},
		{ID: "zoom_meeting", Name: "Zoom Meeting", Description: "User is in a Zoom meeting or call", IsWork: true},
		{ID: "work_coding", Name: "Work Coding", Description: "User is writing or reviewing code, related to their job", IsWork: true},
		{ID: "work_browsing", Name: "Work Browsing", Description: "User is browsing the web for work-related purposes: research, jira, documentation, etc.", IsWork: true},
		{ID: "work_calendar", Name: "Work Calendar", Description: "User is checking or managing their work calendar", IsWork: true},
	}
}
