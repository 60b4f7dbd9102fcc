// Package cli wires the conversion and packaging services to cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// AppName is the binary name shown in usage
const AppName = "textools"

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     AppName,
		Short:   "Prepare, convert and package game textures for AI upscaling",
		Version: version,
		Long: `textools prepares game texture assets for an AI upscaler and packages the results.

Workflow:
  1. pre      convert original textures into ASSETS-uhd for the upscaler
  2. (run the upscaler on ASSETS-uhd, writing files with an upscaled suffix)
  3. post     fold the upscaled files back into ASSETS-uhd and derive ASSETS-hd
  4. verify   check texture dimensions in both trees
  5. package  zip every pack under src/ and write manifest.json

Image work is done by ImageMagick; the magick binary must be on PATH.
Pass a suffix starting with "-" after "--", e.g. textools post -- -upscaled assets`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newPreCommand(),
		newPostCommand(),
		newVerifyCommand(),
		newPackageCommand(),
	)
	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
