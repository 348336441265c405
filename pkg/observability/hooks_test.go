package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopStageHooks{}
	s.OnStageStart(ctx, "convert")
	s.OnStageComplete(ctx, "convert", time.Second, nil)

	v := NoopSolverHooks{}
	v.OnSolverLine(ctx, "Run 1: Cost = 3514718", 1)
	v.OnSolverExit(ctx, time.Minute, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Stage().(NoopStageHooks); !ok {
		t.Error("Stage() should return NoopStageHooks by default")
	}
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Solver() should return NoopSolverHooks by default")
	}

	// Set custom hooks
	customStage := &testStageHooks{}
	SetStageHooks(customStage)
	if Stage() != customStage {
		t.Error("SetStageHooks should set custom hooks")
	}

	customSolver := &testSolverHooks{}
	SetSolverHooks(customSolver)
	if Solver() != customSolver {
		t.Error("SetSolverHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Stage().(NoopStageHooks); !ok {
		t.Error("Reset() should restore NoopStageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testStageHooks{}
	SetStageHooks(custom)

	// Setting nil should be ignored
	SetStageHooks(nil)

	if Stage() != custom {
		t.Error("SetStageHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testStageHooks struct{ NoopStageHooks }
type testSolverHooks struct{ NoopSolverHooks }
