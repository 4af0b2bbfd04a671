package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arkengine",
	Short: "Tools for .ark game asset archives",
	Long: `arkengine reads, modifies, and rewrites .ark game asset archives.

Supported operations:
  - Extract files from v1, v3, and v4 archives
  - Insert or replace a file and rewrite the archive
  - Inspect archive headers and file listings
  - Convert PVR3 textures (RGBA8, ASTC 8x8, ETC1) to PNG`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
