package program

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/myrjola/programsmith/internal/catalogue"
	"github.com/myrjola/programsmith/internal/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//nolint:gochecknoglobals // goldmark.Markdown is safe for concurrent use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// SummaryMarkdown renders p as a Markdown document with one table per training day.
func SummaryMarkdown(p GeneratedProgram) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", inline(p.Name))
	fmt.Fprintf(&b, "%s\n\n", inline(p.Description))
	fmt.Fprintf(&b, "**Goal:** %s · **Level:** %s · **Days per week:** %d · **Weeks:** %d\n\n",
		goalTitle(p.Goal), p.ExperienceLevel, p.DaysPerWeek, p.EstimatedDurationWeeks)

	if p.TrainingPhilosophy != "" {
		fmt.Fprintf(&b, "## Philosophy\n\n%s\n\n", inline(p.TrainingPhilosophy))
	}
	if len(p.WeeklyProgressionNotes) > 0 {
		b.WriteString("## Weekly progression\n\n")
		for i, note := range p.WeeklyProgressionNotes {
			fmt.Fprintf(&b, "%d. %s\n", i+1, inline(note))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Schedule\n\n")
	for i, day := range p.Schedule {
		fmt.Fprintf(&b, "### Day %d: %s (%s)\n\n", i+1, inline(day.Label), day.Type)
		if len(day.Exercises) == 0 {
			b.WriteString("Rest.\n\n")
			continue
		}
		b.WriteString("| Exercise | Sets | Reps | Rest | RPE |\n|---|---|---|---|---|\n")
		for _, ex := range day.Exercises {
			name := ex.ExerciseID
			if e, ok := catalogue.Lookup(ex.ExerciseID); ok {
				name = e.Name
			}
			if ex.IsOptional {
				name += " (optional)"
			}
			rpe := "-"
			if ex.TargetRPE > 0 {
				rpe = fmt.Sprint(ex.TargetRPE)
			}
			fmt.Fprintf(&b, "| %s | %d | %s | %ds | %s |\n", cell(name), ex.Sets, cell(ex.Reps), ex.RestSeconds, rpe)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSummaryHTML renders the summary of p to HTML. Raw HTML in program text is not passed through.
func RenderSummaryHTML(p GeneratedProgram) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(SummaryMarkdown(p)), &buf); err != nil {
		return nil, errors.Wrap(err, "convert markdown")
	}
	return buf.Bytes(), nil
}

// inline flattens text to a single line.
func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cell(s string) string {
	return strings.ReplaceAll(inline(s), "|", `\|`)
}
