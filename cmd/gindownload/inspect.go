package main

import (
	"os"

	"github.com/spf13/cobra"

	"gindownload/pkg/iaga"
	"gindownload/pkg/ui"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Print the IAGA-2002 header of downloaded files",
	Long: `Print the header fields of IAGA-2002 files and the data type designator
that a run would splice into the file name.`,
	Example: `  gindownload inspect 2017/PET/pet2017dmin.min`,
	Args:    cobra.MinimumNArgs(1),
	Run:     runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	failed := false
	for _, path := range args {
		h, err := iaga.ReadHeader(path)
		if err != nil {
			ui.PrintError("Failed to read "+path, err.Error())
			failed = true
			continue
		}

		ui.PrintSuccess(path)
		for _, f := range h.Fields {
			ui.PrintInfo("  "+f.Key, f.Value)
		}
		if d, err := h.Designator(); err != nil {
			ui.PrintWarning("  no designator", err.Error())
		} else {
			ui.PrintInfo("  Designator", string(d))
		}
	}
	if failed {
		os.Exit(1)
	}
}
