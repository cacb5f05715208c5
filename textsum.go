package textsum

import (
	"context"
	_ "embed"
	"strings"

	"github.com/aretw0/textsum/pkg/pipeline"
)

//go:embed VERSION
var version string

// Version is the release version of the module.
var Version = strings.TrimSpace(version)

// Run executes the four stages in order with opts and returns the run report.
// The error is the first stage error, unchanged.
func Run(ctx context.Context, opts pipeline.Options, orchestratorOpts ...pipeline.Option) (*pipeline.Report, error) {
	if opts.Logger != nil {
		orchestratorOpts = append([]pipeline.Option{pipeline.WithLogger(opts.Logger)}, orchestratorOpts...)
	}
	orch, err := pipeline.NewOrchestrator(pipeline.DefaultStages(opts), orchestratorOpts...)
	if err != nil {
		return nil, err
	}
	return orch.Run(ctx)
}
