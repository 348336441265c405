// Package observability provides hooks for instrumenting pipeline runs.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about pipeline stages and solver
// output.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the core packages free of backend dependencies.
//
// # Usage
//
//	func main() {
//	    observability.SetStageHooks(&myStageHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// StageHooks receives events from pipeline stage execution.
type StageHooks interface {
	// OnStageStart records the beginning of a named pipeline stage.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete records stage completion with its duration and
	// outcome.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// SolverHooks receives events from the external solver process.
type SolverHooks interface {
	// OnSolverLine records one line of solver output.
	OnSolverLine(ctx context.Context, text string, run int)

	// OnSolverExit records the solver's termination.
	OnSolverExit(ctx context.Context, duration time.Duration, err error)
}

// NoopStageHooks is a no-op implementation of StageHooks.
type NoopStageHooks struct{}

func (NoopStageHooks) OnStageStart(context.Context, string)                          {}
func (NoopStageHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolverLine(context.Context, string, int)          {}
func (NoopSolverHooks) OnSolverExit(context.Context, time.Duration, error) {}

var (
	stageHooks  StageHooks  = NoopStageHooks{}
	solverHooks SolverHooks = NoopSolverHooks{}
	hooksMu     sync.RWMutex
)

// SetStageHooks registers custom stage hooks.
// This should be called once at application startup before any pipeline runs.
func SetStageHooks(h StageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stageHooks = h
	}
}

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any pipeline runs.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// Stage returns the registered stage hooks.
func Stage() StageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stageHooks
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	stageHooks = NoopStageHooks{}
	solverHooks = NoopSolverHooks{}
}
