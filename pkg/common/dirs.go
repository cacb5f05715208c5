package common

import (
	"fmt"
	"log/slog"
	"os"
)

// CreateDirectories creates every path (and its parents). Existing directories are left alone,
// so calling it twice with the same paths is a no-op. A nil logger disables the per-path log line.
func CreateDirectories(logger *slog.Logger, paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", p, err)
		}
		if logger != nil {
			logger.Info(fmt.Sprintf("Created directory at: %s", p))
		}
	}
	return nil
}
