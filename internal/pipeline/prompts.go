package pipeline

import (
	"fmt"
	"strings"

	"github.com/zeittracker/zeit/internal/activity"
)

const multiScreenDescriptionPrompt = `You are viewing screenshots from the user's multiple monitors. The images are provided in order: Screen 1, Screen 2, etc.

%s

Verify the PRIMARY screen by also looking for visual cues:
- Mouse cursor position
- Active/focused window indicators (highlighted title bar, focus rings)
- Text input carets or selection highlights
- The most prominent application window

Describe in 1-2 sentences the main activity on the PRIMARY screen, with brief context about what's on secondary screens if notable.`

const activeScreenHintTemplate = `IMPORTANT: Based on system information, Screen %d currently contains the focused/active window. Use this as a strong hint for identifying the PRIMARY screen.`

const activeScreenHintFallback = `Identify which screen is the PRIMARY/ACTIVE screen.`

const singleScreenDescriptionPrompt = `A brief description of the user's activities based on the screenshot. Describe enough things to understand what is the main activity the user is engaged in.`

const frontmostAppHintTemplate = `System information reports the frontmost application is %q.`

// visionPrompt builds the description-stage prompt. Multi-display captures
// get the disambiguation guidance with the active-display hint; a single
// display gets the short variant.
func visionPrompt(screenCount, activeDisplay int, frontmostApp string) string {
	var prompt string
	if screenCount > 1 {
		hint := activeScreenHintFallback
		if activeDisplay > 0 {
			hint = fmt.Sprintf(activeScreenHintTemplate, activeDisplay)
		}
		prompt = fmt.Sprintf(multiScreenDescriptionPrompt, hint)
	} else {
		prompt = singleScreenDescriptionPrompt
	}

	if frontmostApp != "" {
		prompt += "\n\n" + fmt.Sprintf(frontmostAppHintTemplate, frontmostApp)
	}
	return prompt
}

const classificationPromptHeader = `You are given a description of a screenshot taken from a user's computer.
It describes various elements visible on the screen.
Based on this description, identify the main activity the user is engaged in.

The user might be during their day job, taking a break, or doing personal tasks.
We want to differentiate between work-related and personal activities.`

const classificationPromptGuidance = `If multiple activities are detected, select only the main one and the most specific.
For example, if the user is looking at their calendar from a browser, select the calendar category instead of the browsing category.
If the description indicates the machine is unattended (lock screen, screensaver), select "idle".`

// classificationPrompt enumerates the catalog split into personal and work
// sections, then embeds the vision-stage description.
func classificationPrompt(catalog activity.Catalog, description, secondaryContext string) string {
	var b strings.Builder
	b.WriteString(classificationPromptHeader)
	b.WriteString("\nThe personal categories are:\n")
	for _, t := range catalog.Personal() {
		fmt.Fprintf(&b, "- %s : %s\n", t.ID, t.Description)
	}
	b.WriteString("The work-related categories are:\n")
	for _, t := range catalog.Work() {
		fmt.Fprintf(&b, "- %s : %s\n", t.ID, t.Description)
	}
	b.WriteString("\n")
	b.WriteString(classificationPromptGuidance)
	b.WriteString("\n\nThe description of the PRIMARY screen activity is as follows:\n")
	b.WriteString(description)

	if secondaryContext != "" {
		b.WriteString("\n\nAdditionally, the following was visible on secondary screens (for context only, focus on the main activity):\n")
		b.WriteString(secondaryContext)
	}
	return b.String()
}
