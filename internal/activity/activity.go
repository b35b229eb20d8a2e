// Package activity defines the activity taxonomy used by the tracker.
//
// Activities are open-ended: the catalog of user-defined types lives in
// configuration and can change without a storage migration, so the stored
// label is an opaque string identifier rather than a closed enumeration.
// The single reserved identifier is "idle", which is system-detected and
// can never be assigned to a user-defined type.
package activity

// Activity is the classified label for one tracking sample. It is either
// the id of a catalog ActivityType or the reserved value Idle.
type Activity string

// Idle is the reserved system activity recorded when the machine is
// unattended. It never appears in the classification catalog.
const Idle Activity = "idle"

// String returns the raw identifier.
func (a Activity) String() string {
	return string(a)
}

// IsIdle reports whether this is the reserved idle marker.
func (a Activity) IsIdle() bool {
	return a == Idle
}
