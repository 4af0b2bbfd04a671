package cmd

import (
	"fmt"

	"github.com/go-ark/arkengine/pkg/ark"
	"github.com/spf13/cobra"
)

var infoVerbose bool

var infoCmd = &cobra.Command{
	Use:   "info <archive>",
	Short: "Show an .ark archive's header and file listing",
	Long: `Show an .ark archive's version, entry count, and file listing.

Examples:
  # Summary plus file listing
  arkengine info 090_and_mlpdata.ark

  # Include per-entry sizes, flags, and timestamps
  arkengine info 090_and_mlpdata.ark -v`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVarP(&infoVerbose, "verbose", "v", false,
		"print per-entry sizes, flags, and timestamps")
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := ark.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer a.Close()

	entries := a.Entries()
	fmt.Printf("Archive: %s\n", args[0])
	fmt.Printf("Version: %d\n", a.Version())
	fmt.Printf("Files: %d\n", len(entries))
	if v, err := a.DataVersion(); err == nil && v != "" {
		fmt.Printf("Data version: %s\n", v)
	}
	fmt.Println()

	for _, m := range entries {
		if !infoVerbose {
			fmt.Println(m.Path())
			continue
		}
		flags := ""
		if m.Compressed() {
			flags += "z"
		}
		if m.Encrypted() {
			flags += "x"
		}
		if flags == "" {
			flags = "-"
		}
		fmt.Printf("%-48s %10d bytes  %-2s  %s\n",
			m.Path(), m.OriginalSize, flags, m.Time().Format("2006-01-02 15:04:05"))
	}
	return nil
}
