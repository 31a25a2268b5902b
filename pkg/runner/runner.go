package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gindownload/internal/downloader"
	errs "gindownload/pkg/errors"
	"gindownload/pkg/iaga"
	"gindownload/pkg/logger"
	"gindownload/pkg/plan"
	"gindownload/pkg/storage"
	"gindownload/pkg/ui"
)

const resumeNotice = "resuming download after previous failure"

// Options configures a Runner
type Options struct {
	// ForceRestart discards any persisted counter before loading it
	ForceRestart bool
	// Designator defaults to iaga.DataTypeDesignator
	Designator DesignatorFunc
	// Console defaults to ui.Default()
	Console Console
}

// Summary describes a run
type Summary struct {
	RunID    string
	Resumed  bool
	Executed int
	Skipped  int
	Warnings int
	Bytes    int64
	Elapsed  time.Duration
}

// Runner executes a plan step by step, persisting progress after every
// completed step so an interrupted run picks up where it stopped
type Runner struct {
	plan       *plan.Plan
	counter    CounterStore
	downloader FileDownloader
	designator DesignatorFunc
	console    Console
	opts       Options
	logger     logger.Logger
}

// New creates a Runner
func New(p *plan.Plan, counter CounterStore, dl FileDownloader, opts Options, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Designator == nil {
		opts.Designator = iaga.DataTypeDesignator
	}
	if opts.Console == nil {
		opts.Console = ui.Default()
	}
	return &Runner{
		plan:       p,
		counter:    counter,
		downloader: dl,
		designator: opts.Designator,
		console:    opts.Console,
		opts:       opts,
		logger:     log,
	}
}

// Run executes every step at or after the persisted counter. It returns a
// fatal error for directory, remove, retry_exhausted, plan_mismatch and state
// failures, and for cancellation. Rename problems are counted as warnings.
// The counter file is deleted only after the last step completed.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	log := logger.ForRun(r.logger, summary.RunID)

	if r.opts.ForceRestart {
		if err := r.counter.Finalize(); err != nil {
			return summary, errs.New(errs.ErrorTypeState, "reset", r.counter.Path(), err)
		}
		log.Info("Discarded persisted counter")
	}

	next, resumed, err := r.counter.Load()
	if err != nil {
		return summary, errs.New(errs.ErrorTypeState, "load", r.counter.Path(), err)
	}
	summary.Resumed = resumed

	total := r.plan.Len()
	if next > total {
		return summary, errs.Newf(errs.ErrorTypePlanMismatch, "load", r.counter.Path(),
			"counter %d is beyond the %d planned steps", next, total)
	}

	if resumed {
		r.console.Information(resumeNotice)
		log.InfoWithFields("Resuming download after previous failure", map[string]interface{}{"next": next, "steps": total})
	} else {
		log.InfoWithFields("Starting fresh run", map[string]interface{}{"steps": total})
	}

	mkdirs, downloads := r.plan.Counts()
	rc := NewRunContext(r.counter, next)
	bannered := map[plan.Kind]bool{}

	for _, step := range r.plan.Steps {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		stepLog := logger.ForStep(log, step.Index, string(step.Kind), step.Path)
		executed, err := rc.RunStep(step, func() error {
			if !bannered[step.Kind] {
				bannered[step.Kind] = true
				r.banner(step.Kind)
			}
			switch step.Kind {
			case plan.KindMkdir:
				return r.mkdir(step)
			case plan.KindDownload:
				return r.download(ctx, step, mkdirs, downloads, summary, stepLog)
			default:
				return errs.Newf(errs.ErrorTypeState, "run", step.Path, "unknown step kind %q", step.Kind)
			}
		})
		if !executed {
			summary.Skipped++
			stepLog.Debug("Skipping completed step")
			continue
		}
		if err != nil {
			summary.Elapsed = time.Since(start)
			stepLog.WithError(err).Error("Step failed")
			return summary, err
		}
		summary.Executed++
		stepLog.Debug("Step complete")
	}

	if err := r.counter.Finalize(); err != nil {
		summary.Elapsed = time.Since(start)
		return summary, errs.New(errs.ErrorTypeState, "finalize", r.counter.Path(), err)
	}
	r.console.Banner(ui.BannerComplete)

	summary.Elapsed = time.Since(start)
	log.InfoWithFields("Run complete", map[string]interface{}{
		"executed": summary.Executed,
		"skipped":  summary.Skipped,
		"warnings": summary.Warnings,
		"bytes":    summary.Bytes,
		"elapsed":  summary.Elapsed,
	})
	return summary, nil
}

func (r *Runner) banner(kind plan.Kind) {
	switch kind {
	case plan.KindMkdir:
		r.console.Banner(ui.BannerDirectories)
	case plan.KindDownload:
		r.console.Banner(ui.BannerDownloads)
	}
}

func (r *Runner) mkdir(step plan.Step) error {
	if err := storage.EnsureDir(step.Path); err != nil {
		r.console.Error("unable to create directory: " + step.Path)
		return err
	}
	return nil
}

func (r *Runner) download(ctx context.Context, step plan.Step, mkdirs, downloads int, summary *Summary, log logger.Logger) error {
	if err := storage.RemoveStale(step.Path); err != nil {
		r.console.Error("unable to remove file: " + step.Path)
		return err
	}

	r.console.DownloadLine(ui.Percent(step.Index, mkdirs, downloads), step.Path)
	res, err := r.downloader.Download(ctx, downloader.Job{
		Ordinal: step.Index,
		URL:     step.URL,
		Dest:    step.Path,
	})
	if err != nil {
		if errs.Is(err, errs.ErrorTypeRetryExhausted) {
			r.console.Error("cannot download " + step.Path)
		}
		return err
	}
	summary.Bytes += res.Bytes

	if w := r.applyDesignator(step.Path, log); w != nil {
		summary.Warnings++
		log.WithError(w).Warn("File left under its original name")
	}
	return nil
}

// applyDesignator renames a downloaded file to carry its data type
// designator. Failures are reported and returned but never stop the run.
func (r *Runner) applyDesignator(path string, log logger.Logger) error {
	d, err := r.designator(path)
	if err != nil {
		r.console.Warning("unable to determine data type for renaming of " + path)
		return err
	}

	newPath, err := storage.RenameWithDesignator(path, d)
	if err != nil {
		if errs.Is(err, errs.ErrorTypePrecondition) {
			r.console.Warning(fmt.Sprintf("unable to rename %s: %v", path, err))
		} else {
			spliced, _ := storage.SpliceDesignator(path, d)
			r.console.Warning("unable to rename " + path + " to " + spliced)
		}
		return err
	}

	log.DebugWithFields("Renamed file", map[string]interface{}{
		"designator": string(d),
		"renamed":    newPath,
	})
	return nil
}
