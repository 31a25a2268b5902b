package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gindownload/pkg/checkpoint"
	"gindownload/pkg/logger"
	"gindownload/pkg/plan"
	"gindownload/pkg/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the progress counter of an interrupted run",
	Long: `Show where the next run will resume.

Reads the progress counter and compares it with the current plan. No counter
means the next run starts from the first step.`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the progress counter",
	Long: `Delete the progress counter so the next run executes every step.

Downloaded files are left in place; the next run removes and fetches them
again.`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	addPlanFlags(statusCmd)
	addPlanFlags(resetCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(planFlags())
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	counter := checkpoint.NewCounter(cfg.CounterPath(), logger.GetLogger())
	st, err := counter.Status()
	if err != nil {
		ui.PrintError("Failed to read counter", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Counter", st.Path)
	if !st.Exists {
		ui.PrintSuccess("No interrupted run; the next run starts from step 0")
		return
	}
	ui.PrintInfo("Last update", humanize.Time(st.ModTime))
	if !st.Valid {
		ui.PrintWarning("Counter content is unreadable and will be ignored", st.Raw)
		return
	}

	p, err := plan.Build(cfg)
	if err != nil {
		ui.PrintError("Failed to build plan", err.Error())
		os.Exit(1)
	}

	total := p.Len()
	ui.PrintInfo("Completed steps", fmt.Sprintf("%d of %d", st.Next, total))
	switch {
	case st.Next > total:
		ui.PrintError("Counter is beyond the end of the plan; run 'gindownload reset' or fix the plan")
		os.Exit(1)
	case st.Next == total:
		ui.PrintInfo("Next step", "none; the next run only removes the counter")
	default:
		step := p.Steps[st.Next]
		ui.PrintInfo("Next step", fmt.Sprintf("%d %s %s", step.Index, step.Kind, step.Path))
	}
}

func runReset(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(planFlags())
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	counter := checkpoint.NewCounter(cfg.CounterPath(), logger.GetLogger())
	if !counter.Exists() {
		ui.PrintInfo("No counter to remove", counter.Path())
		return
	}
	if err := counter.Finalize(); err != nil {
		ui.PrintError("Failed to remove counter", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Counter removed: " + counter.Path())
}
