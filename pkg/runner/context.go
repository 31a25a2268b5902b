package runner

import (
	errs "gindownload/pkg/errors"
	"gindownload/pkg/plan"
)

// RunContext owns the in-memory copy of the progress counter. RunStep is the
// only way next moves, and it only moves forward.
type RunContext struct {
	counter CounterStore
	next    int
}

// NewRunContext starts from a loaded counter value
func NewRunContext(counter CounterStore, next int) *RunContext {
	return &RunContext{counter: counter, next: next}
}

// Next returns the ordinal of the next step to execute
func (rc *RunContext) Next() int {
	return rc.next
}

// RunStep runs work for step unless the step already completed in an earlier
// run. On success the counter is persisted as step.Index+1 before RunStep
// returns. A failed step leaves the counter untouched.
func (rc *RunContext) RunStep(step plan.Step, work func() error) (executed bool, err error) {
	if step.Index < rc.next {
		return false, nil
	}
	if err := work(); err != nil {
		return true, err
	}
	if err := rc.counter.Advance(step.Index + 1); err != nil {
		return true, errs.New(errs.ErrorTypeState, "advance", rc.counter.Path(), err)
	}
	rc.next = step.Index + 1
	return true, nil
}
