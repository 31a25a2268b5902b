package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gindownload/internal/downloader"
	"gindownload/pkg/auth"
	"gindownload/pkg/checkpoint"
	"gindownload/pkg/config"
	"gindownload/pkg/gin"
	"gindownload/pkg/logger"
	"gindownload/pkg/plan"
	"gindownload/pkg/ratelimit"
	"gindownload/pkg/runner"
	"gindownload/pkg/ui"
)

var (
	// Run command flags
	outputDir    string
	counterFile  string
	stations     []string
	startDate    string
	days         int
	split        string
	planFile     string
	retries      int
	proxyAddress string
	accountName  string
	forceRestart bool
	notify       bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download every file of the plan, resuming after a failure",
	Long: `Execute the download plan step by step.

Completed steps are recorded in the progress counter (counter.dat in the
output directory by default). If a run stops part way, the next run skips
everything that already completed. The counter is deleted once every step
has finished.

Any directory, remove or download failure stops the run with exit status 1.
A file whose data type cannot be determined keeps its original name and the
run continues with a warning.`,
	Example: `  # PET 2017 one-minute data into the current directory
  gindownload run

  # Several stations, one file per day
  gindownload run --stations PET,ESK --start-date 2017-09-01 --days 30 --split day

  # Through a proxy with a stored GIN account
  gindownload run --proxy proxy.local:3128 --account observer

  # Start over, ignoring the progress counter
  gindownload run --force-restart`,
	Args: cobra.NoArgs,
	Run:  runDownload,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addPlanFlags(runCmd)

	runCmd.Flags().IntVar(&retries, "retries", 0, "attempts per file (default 4)")
	runCmd.Flags().StringVar(&proxyAddress, "proxy", "", "forward proxy address (host:port or URL)")
	runCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a stored GIN account")
	runCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard the progress counter and run every step")
	runCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
}

// addPlanFlags registers the flags that shape the step plan
func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output base directory (default: current directory)")
	cmd.Flags().StringVar(&counterFile, "counter-file", "", "progress counter file, relative to the output directory")
	cmd.Flags().StringSliceVarP(&stations, "stations", "s", nil, "IAGA station codes")
	cmd.Flags().StringVar(&startDate, "start-date", "", "first day to download (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 0, "number of days to download")
	cmd.Flags().StringVar(&split, "split", "", "one file per period or per day (period, day)")
	cmd.Flags().StringVar(&planFile, "plan-file", "", "YAML step list used instead of the generated plan")
}

func planFlags() map[string]interface{} {
	return map[string]interface{}{
		"output":       outputDir,
		"counter-file": counterFile,
		"stations":     stations,
		"start-date":   startDate,
		"days":         days,
		"split":        split,
		"plan-file":    planFile,
	}
}

func runDownload(cmd *cobra.Command, args []string) {
	flags := planFlags()
	flags["retries"] = retries
	flags["proxy"] = proxyAddress
	flags["account"] = accountName

	cfg, err := loadConfig(flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()

	if err := applyCredentials(cfg, log); err != nil {
		ui.PrintError("Failed to load GIN credentials", err.Error())
		os.Exit(1)
	}

	p, err := plan.Build(cfg)
	if err != nil {
		ui.PrintError("Failed to build plan", err.Error())
		os.Exit(1)
	}

	client, err := gin.NewClient(gin.Options{
		Timeout:      cfg.Download.Timeout,
		ProxyAddress: cfg.GIN.ProxyAddress,
		Username:     cfg.GIN.Username,
		Password:     cfg.GIN.Password,
		UserAgent:    cfg.GIN.UserAgent,
	}, log)
	if err != nil {
		ui.PrintError("Failed to create GIN client", err.Error())
		os.Exit(1)
	}

	console := ui.Default()
	dl := downloader.New(client, downloader.Options{
		MaxAttempts: cfg.Download.RetryAttempts,
		RetryDelay:  cfg.Download.RetryDelay,
		Limiter:     ratelimit.PerMinute(cfg.Download.RequestsPerMinute),
		OnRetry: func(job downloader.Job, attempt int, err error) {
			console.RetryLine(attempt, cfg.Download.RetryAttempts, job.Dest, err)
		},
		OnProgress: func(job downloader.Job, written int64) {
			log.DebugWithFields("Transfer progress", map[string]interface{}{
				"dest":    job.Dest,
				"written": humanize.Bytes(uint64(written)),
			})
		},
	}, log)

	counter := checkpoint.NewCounter(cfg.CounterPath(), log)
	r := runner.New(p, counter, dl, runner.Options{
		ForceRestart: forceRestart,
		Console:      console,
	}, log)

	var notifier *ui.Notifier
	if notify {
		notifier = ui.NewNotifier()
	}

	summary, err := r.Run(cmd.Context())
	if err != nil {
		log.WithError(err).Error("Run failed")
		notifier.RunFailed(err)
		os.Exit(1)
	}

	_, downloads := p.Counts()
	notifier.RunFinished(downloads)
	console.Summary(summary.Executed, summary.Skipped, summary.Warnings, summary.Bytes, summary.Elapsed)
}

// applyCredentials resolves stored GIN credentials into cfg. Without a usable
// credential store an anonymous run still works unless an account was named.
func applyCredentials(cfg *config.Config, log logger.Logger) error {
	manager, err := auth.NewManager()
	if err != nil {
		if cfg.GIN.Account != "" {
			return err
		}
		log.WithError(err).Debug("Credential stores unavailable")
		return nil
	}
	return manager.Apply(&cfg.GIN)
}
