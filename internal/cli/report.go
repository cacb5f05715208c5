package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/textsum/internal/presentation/tui"
	"github.com/aretw0/textsum/pkg/components/evaluator"
	"github.com/aretw0/textsum/pkg/ports"
	"github.com/muesli/termenv"
)

// MetricsMarkdown renders a metrics report as a markdown table.
func MetricsMarkdown(r *evaluator.Report) string {
	var sb strings.Builder
	sb.WriteString("# Evaluation metrics\n\n")
	writeRow(&sb, r.Header)
	sep := make([]string, len(r.Header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&sb, sep)
	for _, row := range r.Rows {
		writeRow(&sb, row)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

// Render writes markdown to w, through glamour when styled is set.
func Render(w io.Writer, markdown string, styled bool) error {
	if styled {
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		out, err := render(markdown)
		if err != nil {
			return err
		}
		markdown = out
	}
	_, err := io.WriteString(w, markdown)
	return err
}

// ShowReport renders the metrics CSV at path.
func ShowReport(w io.Writer, path string, styled bool) error {
	r, err := evaluator.ReadReport(path)
	if err != nil {
		return err
	}
	return Render(w, MetricsMarkdown(r), styled)
}

// ShowHistory lists the stored runs, newest last. Statuses are coloured with profile.
func ShowHistory(ctx context.Context, w io.Writer, store ports.RunStore, profile termenv.Profile) error {
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	for _, id := range ids {
		run, err := store.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load run %s: %w", id, err)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", run.ID, run.StartedAt.Format(time.RFC3339), duration(run.StartedAt, run.FinishedAt), tui.Status(profile, run.Status))
		for _, st := range run.Stages {
			line := fmt.Sprintf("    %-26s %s", st.Name, tui.Status(profile, st.Status))
			if st.Status.Terminal() {
				line += "  " + duration(st.StartedAt, st.FinishedAt)
			}
			if st.Error != "" {
				line += "  " + st.Error
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

func duration(start, end time.Time) string {
	if end.IsZero() || start.IsZero() {
		return "-"
	}
	return end.Sub(start).Round(time.Millisecond).String()
}
