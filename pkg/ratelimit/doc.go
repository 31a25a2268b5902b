// Package ratelimit paces requests to the GIN service.
//
// Pacing is off by default. With download.requests_per_minute set, the
// downloader waits on a single-token bucket before every attempt so that
// attempts are spread at least a minute/rpm apart.
//
//	limiter := ratelimit.PerMinute(30)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
