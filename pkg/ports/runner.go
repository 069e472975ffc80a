package ports

import (
	"context"

	"github.com/aretw0/menube/pkg/domain"
)

// CommandRunner executes external command lines on behalf of the engine.
// Run must return immediately; done is called exactly once, from any goroutine,
// when the command finishes. Failures are reported through CommandResult.Err.
type CommandRunner interface {
	Run(ctx context.Context, commandLine string, done func(domain.CommandResult))
}
