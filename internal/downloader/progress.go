package downloader

import "io"

// ProgressWriter wraps an io.Writer and reports the running byte count every
// interval bytes
type ProgressWriter struct {
	Writer     io.Writer
	OnProgress func(written int64)

	written        int64
	sinceReport    int64
	reportInterval int64
}

// NewProgressWriter wraps w. A nil callback disables reporting.
func NewProgressWriter(w io.Writer, interval int64, cb func(written int64)) *ProgressWriter {
	return &ProgressWriter{
		Writer:         w,
		OnProgress:     cb,
		reportInterval: interval,
	}
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	if n > 0 {
		pw.written += int64(n)
		pw.sinceReport += int64(n)
		if pw.OnProgress != nil && pw.sinceReport >= pw.reportInterval {
			pw.OnProgress(pw.written)
			pw.sinceReport = 0
		}
	}
	return n, err
}

// Written returns the number of bytes written so far
func (pw *ProgressWriter) Written() int64 {
	return pw.written
}
