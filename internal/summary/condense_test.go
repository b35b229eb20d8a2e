package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeittracker/zeit/internal/activity"
)

func entryAt(t *testing.T, hhmm string, act activity.Activity, reasoning string) activity.ActivityEntry {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", "2026-03-04 "+hhmm)
	require.NoError(t, err)
	return activity.NewEntry(ts, act, reasoning, "")
}

func TestGroupConsecutive(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, GroupConsecutive(nil))
	})

	t.Run("all idle yields no groups", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", activity.Idle, ""),
			entryAt(t, "09:10", activity.Idle, ""),
		}
		assert.Empty(t, GroupConsecutive(entries))
	})

	t.Run("runs are merged with reasonings collected", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "work_coding", "editing main.go"),
			entryAt(t, "09:10", "work_coding", "reviewing a diff"),
			entryAt(t, "09:20", "slack", "team channel open"),
			entryAt(t, "09:30", "work_coding", "back in the editor"),
		}
		groups := GroupConsecutive(entries)
		require.Len(t, groups, 3)

		assert.Equal(t, activity.Activity("work_coding"), groups[0].Activity)
		assert.Equal(t, 2, groups[0].Count)
		assert.Equal(t, []string{"editing main.go", "reviewing a diff"}, groups[0].Reasonings)
		assert.Equal(t, "09:00", groups[0].Start.Format("15:04"))
		assert.Equal(t, "09:10", groups[0].End.Format("15:04"))

		assert.Equal(t, activity.Activity("slack"), groups[1].Activity)
		assert.Equal(t, 1, groups[1].Count)

		// A run broken by another activity starts a new group.
		assert.Equal(t, activity.Activity("work_coding"), groups[2].Activity)
		assert.Equal(t, 1, groups[2].Count)
	})

	t.Run("idle entries break no runs but are dropped", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "work_coding", "a"),
			entryAt(t, "09:10", activity.Idle, ""),
			entryAt(t, "09:20", "work_coding", "b"),
		}
		groups := GroupConsecutive(entries)
		require.Len(t, groups, 1)
		assert.Equal(t, 2, groups[0].Count)
	})

	t.Run("empty reasonings are not collected", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "slack", ""),
			entryAt(t, "09:10", "slack", "standup thread"),
		}
		groups := GroupConsecutive(entries)
		require.Len(t, groups, 1)
		assert.Equal(t, []string{"standup thread"}, groups[0].Reasonings)
	})
}

func TestComputeBreakdown(t *testing.T) {
	catalog := activity.DefaultCatalog()

	t.Run("empty and all-idle yield nil", func(t *testing.T) {
		assert.Nil(t, ComputeBreakdown(nil, catalog))
		assert.Nil(t, ComputeBreakdown([]activity.ActivityEntry{
			entryAt(t, "09:00", activity.Idle, ""),
		}, catalog))
	})

	t.Run("percentages over non-idle entries, sorted descending", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "work_coding", ""),
			entryAt(t, "09:10", "work_coding", ""),
			entryAt(t, "09:20", "work_coding", ""),
			entryAt(t, "09:30", "slack", ""),
			entryAt(t, "09:40", activity.Idle, ""),
		}
		stats := ComputeBreakdown(entries, catalog)
		require.Len(t, stats, 2)

		assert.Equal(t, activity.Activity("work_coding"), stats[0].Activity)
		assert.InDelta(t, 75.0, stats[0].Percentage, 0.001)
		assert.Equal(t, "work", stats[0].Category)

		assert.Equal(t, activity.Activity("slack"), stats[1].Activity)
		assert.InDelta(t, 25.0, stats[1].Percentage, 0.001)
	})

	t.Run("unknown ids default to personal", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "long_removed_type", ""),
		}
		stats := ComputeBreakdown(entries, catalog)
		require.Len(t, stats, 1)
		assert.Equal(t, "personal", stats[0].Category)
	})
}

func TestComputeDayStats(t *testing.T) {
	catalog := activity.DefaultCatalog()

	t.Run("empty day", func(t *testing.T) {
		stats := ComputeDayStats("2026-03-04", nil, catalog)
		assert.Equal(t, 0, stats.TotalSamples)
		assert.Empty(t, stats.Activities)
	})

	t.Run("rollups include idle as system", func(t *testing.T) {
		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "work_coding", ""),
			entryAt(t, "09:10", "work_coding", ""),
			entryAt(t, "09:20", "entertainment", ""),
			entryAt(t, "09:30", activity.Idle, ""),
		}
		stats := ComputeDayStats("2026-03-04", entries, catalog)

		assert.Equal(t, 4, stats.TotalSamples)
		assert.Equal(t, 2, stats.WorkCount)
		assert.Equal(t, 1, stats.PersonalCount)
		assert.Equal(t, 1, stats.IdleCount)
		assert.InDelta(t, 50.0, stats.WorkPercentage, 0.001)
		assert.InDelta(t, 25.0, stats.PersonalPercentage, 0.001)
		assert.InDelta(t, 25.0, stats.IdlePercentage, 0.001)

		require.NotEmpty(t, stats.Activities)
		assert.Equal(t, activity.Activity("work_coding"), stats.Activities[0].Activity)
	})
}
