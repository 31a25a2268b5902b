// Package storage holds the filesystem side effects of a run.
//
// Directories are created idempotently, stale destinations are removed before
// a download starts, data is written to a ".part" sibling and renamed into
// place, and finished files can be renamed to carry their data type
// designator. Failures are returned as typed errors from pkg/errors so the
// runner can tell fatal conditions from warnings.
package storage
