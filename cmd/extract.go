package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ark/arkengine/pkg/ark"
	"github.com/spf13/cobra"
)

var (
	extractFilter     string
	extractOutput     string
	extractVerbose    bool
	extractKeepGoing  bool
	extractStrictMD5s bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive>",
	Short: "Extract files from an .ark archive",
	Long: `Extract files from an .ark archive into a directory tree.

Each entry's logical path (pathname/filename from the metadata
directory) becomes its path under the output directory. Payloads are
decrypted and decompressed as their metadata flags dictate, and each
extracted file's MD5 is checked against the directory's recorded sum.

Examples:
  # Extract everything
  arkengine extract 090_and_mlpdata.ark

  # Extract only .xml files
  arkengine extract 090_and_mlpdata.ark -f .xml

  # Extract to a custom output directory
  arkengine extract 090_and_mlpdata.ark -o extracted/`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFilter, "filter", "f", "",
		"filter extracted files (case-insensitive substring match)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "data",
		"output directory for extracted files")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false,
		"print verbose progress information")
	extractCmd.Flags().BoolVarP(&extractKeepGoing, "keep-going", "k", false,
		"continue extracting past per-file failures")
	extractCmd.Flags().BoolVar(&extractStrictMD5s, "strict", false,
		"treat MD5 mismatches as failures instead of warnings")
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := ark.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer a.Close()

	paths := a.Files()
	fmt.Printf("Extracting: %s\n", args[0])
	fmt.Printf("Version: %d\n", a.Version())
	fmt.Printf("Files: %d\n", len(paths))
	if extractFilter != "" {
		fmt.Printf("Filter: %s\n", extractFilter)
	}
	fmt.Println()

	extracted, failed := 0, 0
	for _, path := range paths {
		if extractFilter != "" && !strings.Contains(strings.ToLower(path), strings.ToLower(extractFilter)) {
			continue
		}

		if err := extractOne(a, path); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", path, err)
			if !extractKeepGoing {
				return fmt.Errorf("extraction failed at %s: %w", path, err)
			}
			continue
		}
		extracted++
		if extractVerbose {
			fmt.Printf("extracted: %s\n", path)
		}
	}

	fmt.Printf("\nExtracted %d files", extracted)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	return nil
}

func extractOne(a *ark.Archive, path string) error {
	lf, err := a.ReadFile(path)
	if err != nil {
		return err
	}
	if !lf.IntegrityOK {
		if extractStrictMD5s {
			return fmt.Errorf("md5 mismatch")
		}
		fmt.Fprintf(os.Stderr, "warning: %s: md5 mismatch, keeping bytes\n", path)
	}

	dest := filepath.Join(extractOutput, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, lf.Bytes, 0o644)
}
