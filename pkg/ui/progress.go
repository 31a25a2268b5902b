package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Phase banners
const (
	BannerDirectories = "Creating directories..."
	BannerDownloads   = "Downloading data files..."
	BannerComplete    = "100% - data download complete"
)

// Percent is the coarse completion figure printed before a download:
// (ordinal - mkdirs) * 100 / downloads. It is 0 when there are no downloads.
func Percent(ordinal, mkdirs, downloads int) int {
	if downloads <= 0 {
		return 0
	}
	p := (ordinal - mkdirs) * 100 / downloads
	if p < 0 {
		return 0
	}
	return p
}

// DownloadLine prints the per-download percentage line
func (c *Console) DownloadLine(percent int, localFile string) {
	c.Printf("%d%% - downloading file: %s", percent, localFile)
}

// RetryLine reports a failed attempt that will be retried
func (c *Console) RetryLine(attempt, maxAttempts int, localFile string, err error) {
	c.println(false, Dim, fmt.Sprintf("  attempt %d/%d for %s failed: %v", attempt, maxAttempts, localFile, err))
}

// Summary prints the end-of-run figures
func (c *Console) Summary(executed, skipped, warnings int, bytes int64, elapsed time.Duration) {
	c.Field("Steps executed", humanize.Comma(int64(executed)))
	c.Field("Steps skipped", humanize.Comma(int64(skipped)))
	c.Field("Warnings", humanize.Comma(int64(warnings)))
	c.Field("Downloaded", humanize.Bytes(uint64(bytes)))
	c.Field("Elapsed", elapsed.Round(time.Millisecond).String())
}
