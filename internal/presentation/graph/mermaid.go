package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/textsum/pkg/domain"
)

// Overlay carries the outcome of a recorded run to paint onto the graph.
type Overlay struct {
	Statuses map[domain.StageName]domain.StageStatus
}

// OverlayFromRun builds an Overlay from a persisted run record.
func OverlayFromRun(r *domain.Run) *Overlay {
	if r == nil {
		return nil
	}
	o := &Overlay{Statuses: make(map[domain.StageName]domain.StageStatus, len(r.Stages))}
	for _, s := range r.Stages {
		o.Statuses[s.Name] = s.Status
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart for the given stages, drawing an edge for every
// dependency between two listed stages. Stages whose work can be delegated to an external
// framework are drawn as subroutines.
func GenerateMermaid(stages []domain.StageName, deps map[domain.StageName][]domain.StageName, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	present := make(map[domain.StageName]bool, len(stages))
	for _, s := range stages {
		present[s] = true
	}

	for _, s := range stages {
		opener, closer := "[", "]"
		if delegable(s) {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(s.Slug()), opener, s, closer)
	}
	for _, s := range stages {
		for _, dep := range deps[s] {
			if !present[dep] {
				continue
			}
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(dep.Slug()), sanitizeMermaidID(s.Slug()))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Run overlay\n")
		// Black text keeps labels readable on both light and dark themes.
		sb.WriteString("    classDef completed fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef running fill:#fff9c4,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, s := range stages {
			switch st := overlay.Statuses[s]; st {
			case domain.StatusCompleted, domain.StatusFailed, domain.StatusRunning:
				fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(s.Slug()), classFor(st))
			}
		}
	}

	return sb.String()
}

func delegable(s domain.StageName) bool {
	return s != domain.StageDataIngestion
}

func classFor(s domain.StageStatus) string {
	switch s {
	case domain.StatusCompleted:
		return "completed"
	case domain.StatusFailed:
		return "failed"
	}
	return "running"
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
