// Package runner sequences a plan of idempotent steps and keeps a persisted
// progress counter so that a restarted run skips what already finished.
//
// Step i executes iff i >= next, where next is the loaded counter. After a
// step's side effect completes the counter is written as i+1. Directory,
// remove and download failures end the run with the counter pointing at the
// failed step. A file whose data type designator cannot be applied stays
// under its original name and the run continues. Once every step is done the
// counter file is deleted.
//
//	counter := checkpoint.NewCounter(cfg.CounterPath(), log)
//	r := runner.New(p, counter, dl, runner.Options{}, log)
//	summary, err := r.Run(ctx)
package runner
