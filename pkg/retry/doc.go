// Package retry runs an operation a bounded number of times.
//
// The default configuration makes four immediate attempts and retries every
// failure except cancellation of the caller's context. A configured delay
// switches to exponential backoff with jitter.
package retry
