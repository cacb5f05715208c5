package ports

import (
	"context"

	"github.com/aretw0/textsum/pkg/domain"
)

// FrameworkExecutor runs an external framework command on behalf of a stage worker.
type FrameworkExecutor interface {
	Execute(ctx context.Context, inv domain.Invocation) (domain.InvocationResult, error)
}
