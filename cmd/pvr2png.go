package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ark/arkengine/pkg/pvr"
	"github.com/spf13/cobra"
)

var (
	pvr2pngOutput  string
	pvr2pngVerbose bool
)

var pvr2pngCmd = &cobra.Command{
	Use:   "pvr2png <input> [output]",
	Short: "Convert a PVR3 texture to PNG",
	Long: `Convert a PVR3 texture file to PNG.

Supports raw RGBA8, ASTC 8x8, and ETC1 payloads. When a sibling file
named <stem>.alpha<ext> exists next to the input and the input's format
has no alpha channel of its own (ETC1), the sibling is decoded as a
greyscale alpha plane and spliced into the output image.

Examples:
  # Convert a single texture
  arkengine pvr2png ui_button.pvr

  # Convert with a custom output path
  arkengine pvr2png ui_button.pvr button.png`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPvr2Png,
}

func init() {
	rootCmd.AddCommand(pvr2pngCmd)

	pvr2pngCmd.Flags().StringVarP(&pvr2pngOutput, "output", "o", "",
		"output file path")
	pvr2pngCmd.Flags().BoolVarP(&pvr2pngVerbose, "verbose", "v", false,
		"print verbose progress information")
}

func runPvr2Png(cmd *cobra.Command, args []string) error {
	input := args[0]

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// A "<stem>.alpha<ext>" sibling carries the alpha plane for formats
	// without one of their own.
	var alpha []byte
	ext := filepath.Ext(input)
	alphaPath := strings.TrimSuffix(input, ext) + ".alpha" + ext
	if b, err := os.ReadFile(alphaPath); err == nil {
		alpha = b
		if pvr2pngVerbose {
			fmt.Printf("using external alpha: %s\n", alphaPath)
		}
	}

	img, err := pvr.Decode(data, alpha)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", input, err)
	}
	if pvr2pngVerbose {
		fmt.Printf("decoded %dx%d (premultiplied: %v)\n", img.Width, img.Height, img.Premultiplied)
	}

	output := pvr2pngOutput
	if output == "" {
		if len(args) > 1 {
			output = args[1]
		} else {
			output = strings.TrimSuffix(input, ext) + ".png"
		}
	}

	out := &image.RGBA{
		Pix:    img.Pixels,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	fmt.Printf("wrote %s\n", output)
	return nil
}
