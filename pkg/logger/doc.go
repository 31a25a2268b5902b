// Package logger provides structured logging for gindownload.
//
// It wraps zerolog behind a small interface so the runner and the downloader
// can be tested with TestLogger. Human-readable console output goes to stderr.
// Setting a log file adds JSON records appended to that file.
//
//	log, err := logger.New(&cfg.Logging)
//	stepLog := logger.ForStep(log, 3, "download", "2017/PET/pet2017min.min")
//	stepLog.WithError(err).Warn("data type rename skipped")
package logger
