package pipeline

import "context"

// EventType classifies pipeline events.
type EventType string

// Event types emitted during a run.
const (
	// EventStage marks the start of a named stage.
	EventStage EventType = "stage"

	// EventProgress carries an overall progress fraction in [0, 1].
	EventProgress EventType = "progress"

	// EventLine carries one line of solver output, in emission order.
	EventLine EventType = "line"

	// EventDone marks successful completion of the whole run.
	EventDone EventType = "done"

	// EventError carries the failure that aborted the run. Cancellation
	// does not produce an error event; it surfaces only as ctx.Err()
	// from Execute.
	EventError EventType = "error"
)

// Event is one observation from a running pipeline, delivered on the
// runner's event channel in the order it occurred.
type Event struct {
	Type EventType

	// Stage names the stage for stage and error events.
	Stage string

	// Fraction is the overall progress for progress events.
	Fraction float64

	// Line is the solver output text for line events.
	Line string

	// Err is the failure for error events.
	Err error
}

// emit delivers ev unless the run has been cancelled. Delivery blocks
// when the buffer is full, so consumers must drain Events() for the
// lifetime of the run.
func (r *Runner) emit(ctx context.Context, ev Event) {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}
