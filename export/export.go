// Package export serializes a finished course-building session into a
// single markdown document: context summary, outline, storyboard, and
// assessment.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/didactlabs/didact/course"
)

// Markdown renders the session artifacts as one markdown document.
// Artifacts that parsed into tables are rendered as markdown tables;
// artifacts kept only as raw text are included in fenced blocks so
// nothing is lost.
func Markdown(c *course.Context, title string) string {
	var b strings.Builder

	if title == "" {
		title = "Course Design"
	}
	fmt.Fprintf(&b, "# %s\n", title)

	if s := c.Summary(); s != "" {
		b.WriteString("\n## Context Summary\n\n")
		b.WriteString(strings.TrimSpace(s))
		b.WriteString("\n")
	}

	if rows := c.Outline(); len(rows) > 0 {
		b.WriteString("\n## Content Outline\n\n")
		writeTable(&b, []string{"Outline", "Duration (in mins)"}, func(yield func([]string)) {
			for _, r := range rows {
				yield([]string{r.Topic, r.Duration})
			}
		})
	} else if raw := c.OutlineRaw(); raw != "" {
		b.WriteString("\n## Content Outline\n\n")
		writeRaw(&b, raw)
	}

	if rows := c.Storyboard(); len(rows) > 0 {
		b.WriteString("\n## Storyboard\n\n")
		writeTable(&b, []string{"Onscreen Text", "Voice Over Script", "Visualization Guidelines"}, func(yield func([]string)) {
			for _, r := range rows {
				yield([]string{r.OnscreenText, r.VoiceOverScript, r.VisualizationGuidelines})
			}
		})
	} else if raw := c.StoryboardRaw(); raw != "" {
		b.WriteString("\n## Storyboard\n\n")
		writeRaw(&b, raw)
	}

	if a := c.Assessment(); a != "" {
		b.WriteString("\n## Final Assessment\n\n")
		b.WriteString(strings.TrimSpace(a))
		b.WriteString("\n")
	}

	return b.String()
}

// Write renders the document and writes it out.
func Write(w io.Writer, c *course.Context, title string) error {
	_, err := io.WriteString(w, Markdown(c, title))
	return err
}

func writeTable(b *strings.Builder, headers []string, rows func(yield func([]string))) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	rows(func(fields []string) {
		for i, f := range fields {
			// Field text must not break the table structure.
			fields[i] = strings.ReplaceAll(strings.ReplaceAll(f, "|", "\\|"), "\n", " ")
		}
		b.WriteString("| " + strings.Join(fields, " | ") + " |\n")
	})
}

func writeRaw(b *strings.Builder, raw string) {
	b.WriteString("```\n")
	b.WriteString(strings.TrimSpace(raw))
	b.WriteString("\n```\n")
}
