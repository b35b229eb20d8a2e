package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/provider"
)

// summaryTemperature leaves the narrative some room; the classification
// stages run at 0, the prose stage does not need to.
const summaryTemperature = 0.7

// DaySummary is the narrative produced for one day.
type DaySummary struct {
	Summary             string
	ObjectivesAlignment string // empty unless objectives were supplied
	Start               time.Time
	End                 time.Time
}

// Summarizer turns a condensed day into a narrative through the text model.
type Summarizer struct {
	text provider.Provider
	log  *zap.Logger
}

// NewSummarizer creates a summarizer on the given text provider.
func NewSummarizer(text provider.Provider, log *zap.Logger) *Summarizer {
	return &Summarizer{text: text, log: log}
}

func formatTimeRange(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format("15:04")
	}
	return start.Format("15:04") + "-" + end.Format("15:04")
}

func displayName(act activity.Activity) string {
	return strings.ReplaceAll(string(act), "_", " ")
}

func formatGroup(g Group) string {
	reasoning := "No description"
	if len(g.Reasonings) > 0 {
		reasoning = strings.Join(g.Reasonings, "; ")
	}
	return fmt.Sprintf("%s - %s (%d samples): %q",
		formatTimeRange(g.Start, g.End), displayName(g.Activity), g.Count, reasoning)
}

const summarizePromptTemplate = `This is a condensed view of the user's activities during the day.
%s
## Time Distribution
%s

## Chronological Activities
%s

Summarize the user's day qualitatively.
- Describe what they focused on and how their time was distributed
- Reference the percentages to provide numerical context where relevant
- Note any notable patterns or transitions between activities
- Don't make value judgments (either positive or negative)
- Don't talk about balance unless the numbers clearly justify it
- Just summarize the activities in an objective manner`

const objectivesInstructions = `
In addition, evaluate alignment with the user's stated objectives.
- Assess whether their activities aligned with their stated objectives
- Note which objectives were supported by their activities and which were not
- Be objective and factual in your assessment`

func objectivesSection(obj *activity.DayObjectives) string {
	if obj == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n## User's Day Objectives\n")
	fmt.Fprintf(&b, "**Main Objective:** %s\n", obj.MainObjective)
	for _, s := range obj.SecondaryObjectives {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}

// summarySchema requires objectives_alignment only when objectives exist,
// so the model cannot grade objectives nobody stated.
func summarySchema(withObjectives bool) *provider.Schema {
	props := map[string]*provider.Schema{
		"summary": provider.String("Qualitative summary of the user's day."),
	}
	required := []string{"summary"}
	if withObjectives {
		props["objectives_alignment"] = provider.String(
			"Factual assessment of how the day's activities aligned with the stated objectives.")
		required = append(required, "objectives_alignment")
	}
	return provider.Object(props, required...)
}

type summaryResponse struct {
	Summary             string `json:"summary"`
	ObjectivesAlignment string `json:"objectives_alignment,omitempty"`
}

// Summarize condenses the entries and asks the text model for a
// narrative. A day with zero non-idle entries yields (nil, nil): there is
// nothing to summarize, which is a normal outcome.
func (s *Summarizer) Summarize(ctx context.Context, entries []activity.ActivityEntry,
	catalog activity.Catalog, objectives *activity.DayObjectives) (*DaySummary, error) {

	groups := GroupConsecutive(entries)
	if len(groups) == 0 {
		return nil, nil
	}
	s.log.Info("summarizing day",
		zap.Int("entries", len(entries)),
		zap.Int("groups", len(groups)),
		zap.Bool("with_objectives", objectives != nil))

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, formatGroup(g))
	}

	breakdown := ComputeBreakdown(entries, catalog)
	bullets := make([]string, 0, len(breakdown))
	for _, st := range breakdown {
		bullets = append(bullets, fmt.Sprintf("- %s: %.1f%%", displayName(st.Activity), st.Percentage))
	}

	prompt := fmt.Sprintf(summarizePromptTemplate,
		objectivesSection(objectives),
		strings.Join(bullets, "\n"),
		strings.Join(lines, "\n"))
	if objectives != nil {
		prompt += objectivesInstructions
	}

	raw, err := s.text.GenerateStructured(ctx, prompt, summarySchema(objectives != nil), summaryTemperature)
	if err != nil {
		return nil, fmt.Errorf("summarization failed: %w", err)
	}

	var resp summaryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &provider.ResponseError{Excerpt: provider.Excerpt(raw), Err: err}
	}
	if resp.Summary == "" {
		return nil, &provider.ResponseError{Excerpt: provider.Excerpt(raw), Err: fmt.Errorf("missing summary field")}
	}

	return &DaySummary{
		Summary:             resp.Summary,
		ObjectivesAlignment: resp.ObjectivesAlignment,
		Start:               groups[0].Start,
		End:                 groups[len(groups)-1].End,
	}, nil
}
