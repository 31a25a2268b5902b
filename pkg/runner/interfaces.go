package runner

import (
	"context"

	"gindownload/internal/downloader"
)

// CounterStore persists the ordinal of the next step to run
type CounterStore interface {
	Path() string
	Load() (next int, resumed bool, err error)
	Advance(next int) error
	Finalize() error
}

// FileDownloader transfers one file with its own retry budget
type FileDownloader interface {
	Download(ctx context.Context, job downloader.Job) (*downloader.Result, error)
}

// DesignatorFunc reads the data type designator of a downloaded file
type DesignatorFunc func(path string) (rune, error)

// Console receives the operator-facing lines of a run
type Console interface {
	Banner(msg string)
	DownloadLine(percent int, localFile string)
	Warning(msg string)
	Error(msg string)
	Information(msg string)
}
