package tui

import (
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/muesli/termenv"
)

var statusColors = map[domain.StageStatus]string{
	domain.StatusCompleted:  "#4ade80",
	domain.StatusFailed:     "#f87171",
	domain.StatusRunning:    "#facc15",
	domain.StatusNotStarted: "#9ca3af",
}

// Status renders s in its status color for profile p. termenv.Ascii yields plain text.
func Status(p termenv.Profile, s domain.StageStatus) string {
	color, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return p.String(string(s)).Foreground(p.Color(color)).String()
}
