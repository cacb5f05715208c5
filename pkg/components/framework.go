// Package components holds the stage workers and the plumbing they share for delegating
// work to an external framework command.
package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/textsum/pkg/adapters/process"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
)

// DefaultExecutor returns the process runner used when a worker is not given an executor.
func DefaultExecutor(logger *slog.Logger) ports.FrameworkExecutor {
	return process.NewRunner(process.WithLogger(logger))
}

// RunFramework runs f on behalf of stage with args exported to the command, then checks
// that every path in outputs exists.
func RunFramework(ctx context.Context, exec ports.FrameworkExecutor, logger *slog.Logger, stage domain.StageName, f *domain.Framework, args map[string]any, outputs ...string) error {
	logger.Info(fmt.Sprintf("Delegating %s to %s", stage, f.Command), "args", len(args))

	res, err := exec.Execute(ctx, domain.Invocation{
		Stage:     stage,
		Framework: *f,
		Args:      args,
	})
	if err != nil {
		return fmt.Errorf("framework command %q: %w", f.Command, err)
	}
	logger.Debug("framework command finished", "exit_code", res.ExitCode)

	for _, out := range outputs {
		if _, err := os.Stat(out); err != nil {
			return fmt.Errorf("framework command %q did not produce %s: %w", f.Command, out, err)
		}
	}
	return nil
}
