package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "gindownload/pkg/errors"
	"gindownload/pkg/gin"
	"gindownload/pkg/logger"
	"gindownload/pkg/storage"
)

// scriptedFetcher fails the first failures calls, then writes body
type scriptedFetcher struct {
	failures int
	body     string
	calls    int
}

func (f *scriptedFetcher) Fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	f.calls++
	if f.calls <= f.failures {
		// Leave a partial write behind to prove it is discarded
		io.WriteString(w, "partial")
		return 0, fmt.Errorf("attempt %d: connection reset", f.calls)
	}
	n, err := io.WriteString(w, f.body)
	return int64(n), err
}

func newJob(t *testing.T) Job {
	return Job{Ordinal: 1, URL: "http://gin.local/data", Dest: filepath.Join(t.TempDir(), "pet2017min.min")}
}

func TestDownloadFirstAttempt(t *testing.T) {
	f := &scriptedFetcher{body: "IAGA data"}
	d := New(f, Options{MaxAttempts: 4}, logger.NewTestLogger())
	job := newJob(t)

	res, err := d.Download(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, int64(9), res.Bytes)

	data, err := os.ReadFile(job.Dest)
	require.NoError(t, err)
	assert.Equal(t, "IAGA data", string(data))
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	f := &scriptedFetcher{failures: 3, body: "complete"}
	var retried []int
	d := New(f, Options{
		MaxAttempts: 4,
		OnRetry:     func(job Job, attempt int, err error) { retried = append(retried, attempt) },
	}, logger.NewTestLogger())
	job := newJob(t)

	res, err := d.Download(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, []int{1, 2, 3}, retried)

	data, err := os.ReadFile(job.Dest)
	require.NoError(t, err)
	assert.Equal(t, "complete", string(data), "partial writes must not leak into the result")
}

func TestDownloadExhaustsBudget(t *testing.T) {
	f := &scriptedFetcher{failures: 100}
	d := New(f, Options{MaxAttempts: 4}, logger.NewTestLogger())
	job := newJob(t)

	_, err := d.Download(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeRetryExhausted, errs.TypeOf(err))
	assert.Equal(t, 4, f.calls)

	for _, p := range []string{job.Dest, job.Dest + storage.TempSuffix} {
		_, statErr := os.Stat(p)
		assert.True(t, os.IsNotExist(statErr), p)
	}
}

func TestDownloadCancelledIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &scriptedFetcher{}
	d := New(f, Options{MaxAttempts: 4}, logger.NewNopLogger())

	_, err := d.Download(ctx, newJob(t))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, f.calls)
}

func TestDownloadProgress(t *testing.T) {
	body := strings.Repeat("x", 3*DefaultReportInterval+10)
	var reports []int64
	d := New(&scriptedFetcher{body: body}, Options{
		MaxAttempts: 1,
		OnProgress:  func(job Job, written int64) { reports = append(reports, written) },
	}, logger.NewNopLogger())

	_, err := d.Download(context.Background(), newJob(t))
	require.NoError(t, err)
	require.NotEmpty(t, reports)
	assert.LessOrEqual(t, reports[len(reports)-1], int64(len(body)))
}

func TestDownloadAgainstGINServer(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "GetData", r.URL.Query().Get("Request"))
		io.WriteString(w, " Data Type              Definitive\n")
	}))
	defer server.Close()

	client, err := gin.NewClient(gin.Options{}, logger.NewNopLogger())
	require.NoError(t, err)

	d := New(client, Options{MaxAttempts: 4}, logger.NewNopLogger())
	job := newJob(t)
	job.URL = server.URL + "?Request=GetData"

	res, err := d.Download(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestProgressWriter(t *testing.T) {
	var sink strings.Builder
	var calls []int64
	pw := NewProgressWriter(&sink, 4, func(written int64) { calls = append(calls, written) })

	for _, chunk := range []string{"ab", "cd", "efg", "h"} {
		_, err := pw.Write([]byte(chunk))
		require.NoError(t, err)
	}

	assert.Equal(t, "abcdefgh", sink.String())
	assert.Equal(t, int64(8), pw.Written())
	assert.Equal(t, []int64{4, 8}, calls)
}
