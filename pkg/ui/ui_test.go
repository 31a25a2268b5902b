package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	// Two mkdir steps followed by four downloads
	assert.Equal(t, 0, Percent(2, 2, 4))
	assert.Equal(t, 25, Percent(3, 2, 4))
	assert.Equal(t, 75, Percent(5, 2, 4))
	assert.Equal(t, 0, Percent(1, 1, 0), "no downloads must not divide by zero")
	assert.Equal(t, 0, Percent(0, 2, 4))
}

func TestConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Banner(BannerDirectories)
	c.DownloadLine(0, "2017/PET/pet2017min.min")
	c.Warning("unable to rename a to b")
	c.Information("resuming download after previous failure")
	c.Banner(BannerComplete)

	assert.Equal(t, "Creating directories...\n"+
		"0% - downloading file: 2017/PET/pet2017min.min\n"+
		"Warning: unable to rename a to b\n"+
		"Information: resuming download after previous failure\n"+
		"100% - data download complete\n", buf.String())
}

func TestConsoleQuietKeepsErrors(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.SetQuiet(true)

	c.Banner(BannerDownloads)
	c.Field("Steps", "3")
	c.Error("cannot download pet2017min.min")

	assert.Equal(t, "Error: cannot download pet2017min.min\n", buf.String())
}

func TestConsoleColor(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.SetColor(true)
	c.Success("done")
	assert.Equal(t, Green("done")+"\n", buf.String())
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Summary(1200, 3, 1, 2500000, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Steps executed: 1,200")
	assert.Contains(t, out, "Downloaded: 2.5 MB")
	assert.Contains(t, out, "Elapsed: 1.5s")
}

type recordingSender struct {
	titles []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return errors.New("no display")
}

func TestNotifier(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifierWithSender(sender)
	n.RunFinished(3)
	n.RunFailed(errors.New("boom"))
	assert.Equal(t, []string{"gindownload", "gindownload failed"}, sender.titles)

	var nilNotifier *Notifier
	assert.NotPanics(t, func() { nilNotifier.RunFinished(1) })
}
