package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gindownload/pkg/plan"
	"gindownload/pkg/ui"
)

var planSavePath string

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "List the steps a run would execute",
	Long: `Print the ordered step plan built from the current configuration.

Each step shows its ordinal, kind and path; downloads also show the GIN URL.
With --save the plan is written as YAML. Edit it and pass it back with
--plan-file to run an explicit step list.`,
	Example: `  # Show the default plan
  gindownload plan

  # Save a per-day plan for editing
  gindownload plan --split day --days 7 --save steps.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	addPlanFlags(planCmd)
	planCmd.Flags().StringVar(&planSavePath, "save", "", "write the plan to this YAML file")
}

func runPlan(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(planFlags())
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	p, err := plan.Build(cfg)
	if err != nil {
		ui.PrintError("Failed to build plan", err.Error())
		os.Exit(1)
	}

	if planSavePath != "" {
		if err := p.Save(planSavePath); err != nil {
			ui.PrintError("Failed to save plan", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Plan saved: " + planSavePath)
		return
	}

	mkdirs, downloads := p.Counts()
	for _, step := range p.Steps {
		fmt.Printf("%4d  %-8s  %s\n", step.Index, step.Kind, step.Path)
		if step.URL != "" {
			fmt.Printf("      %-8s  %s\n", "", ui.Dim(step.URL))
		}
	}
	fmt.Println()
	ui.PrintInfo("Directories", fmt.Sprint(mkdirs))
	ui.PrintInfo("Downloads", fmt.Sprint(downloads))
}
