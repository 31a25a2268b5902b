// Package checkpoint persists the resumable progress counter of a run.
//
// The counter is a single non-negative decimal integer stored as plain text
// (counter.dat by default). It names the ordinal of the next step to execute.
// An absent, unparsable or negative counter means a fresh run.
//
// Every write goes to a temporary sibling file that is synced and renamed over
// the counter, so a crash leaves either the old or the new value on disk.
// The counter is removed once every step of a run has completed.
package checkpoint
