// Package summary condenses a day's entries into activity groups and a
// numeric breakdown, and turns the condensed view into a narrative
// summary through the text model.
package summary

import (
	"sort"
	"time"

	"github.com/zeittracker/zeit/internal/activity"
)

// Group is a run of consecutive entries with the same activity. Entries
// are fixed-cadence samples, so Count is the proxy for elapsed time.
type Group struct {
	Activity   activity.Activity
	Start      time.Time
	End        time.Time
	Count      int
	Reasonings []string
}

// GroupConsecutive run-length-encodes the non-idle entries by activity
// identity. Entries must already be in chronological order; the store
// guarantees that and this function does not re-sort.
func GroupConsecutive(entries []activity.ActivityEntry) []Group {
	var groups []Group
	for _, e := range entries {
		if e.Activity.IsIdle() {
			continue
		}

		ts := e.Time()
		if n := len(groups); n > 0 && groups[n-1].Activity == e.Activity {
			g := &groups[n-1]
			g.End = ts
			g.Count++
			if e.Reasoning != "" {
				g.Reasonings = append(g.Reasonings, e.Reasoning)
			}
			continue
		}

		g := Group{Activity: e.Activity, Start: ts, End: ts, Count: 1}
		if e.Reasoning != "" {
			g.Reasonings = append(g.Reasonings, e.Reasoning)
		}
		groups = append(groups, g)
	}
	return groups
}

// Stat is the share of one activity over the counted entries.
type Stat struct {
	Activity   activity.Activity
	Count      int
	Percentage float64
	Category   string // "work", "personal" or "system"
}

func categoryOf(act activity.Activity, catalog activity.Catalog) string {
	if act.IsIdle() {
		return "system"
	}
	if t, ok := catalog.Lookup(string(act)); ok && t.IsWork {
		return "work"
	}
	// Unknown ids occur when the catalog shrank after entries were
	// recorded; they count as personal.
	return "personal"
}

func tally(entries []activity.ActivityEntry, catalog activity.Catalog, includeIdle bool) []Stat {
	counts := make(map[activity.Activity]int)
	total := 0
	for _, e := range entries {
		if e.Activity.IsIdle() && !includeIdle {
			continue
		}
		counts[e.Activity]++
		total++
	}
	if total == 0 {
		return nil
	}

	stats := make([]Stat, 0, len(counts))
	for act, count := range counts {
		stats = append(stats, Stat{
			Activity:   act,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
			Category:   categoryOf(act, catalog),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Activity < stats[j].Activity
	})
	return stats
}

// ComputeBreakdown computes the non-idle percentage breakdown, sorted
// descending by share.
func ComputeBreakdown(entries []activity.ActivityEntry, catalog activity.Catalog) []Stat {
	return tally(entries, catalog, false)
}

// DayStats is the complete numeric view of one day, idle included.
type DayStats struct {
	Date         string
	TotalSamples int
	Activities   []Stat

	WorkCount     int
	PersonalCount int
	IdleCount     int

	WorkPercentage     float64
	PersonalPercentage float64
	IdlePercentage     float64
}

// ComputeDayStats rolls a day's entries up into per-activity stats and
// work/personal/idle totals.
func ComputeDayStats(date string, entries []activity.ActivityEntry, catalog activity.Catalog) DayStats {
	stats := DayStats{Date: date, TotalSamples: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	stats.Activities = tally(entries, catalog, true)
	for _, s := range stats.Activities {
		switch s.Category {
		case "work":
			stats.WorkCount += s.Count
		case "personal":
			stats.PersonalCount += s.Count
		default:
			stats.IdleCount += s.Count
		}
	}

	total := float64(stats.TotalSamples)
	stats.WorkPercentage = float64(stats.WorkCount) / total * 100
	stats.PersonalPercentage = float64(stats.PersonalCount) / total * 100
	stats.IdlePercentage = float64(stats.IdleCount) / total * 100
	return stats
}
