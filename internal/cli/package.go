package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/rvgl-uber/textools/internal/compress"
	"github.com/rvgl-uber/textools/internal/config"
	"github.com/rvgl-uber/textools/internal/model"
)

func newPackageCommand() *cobra.Command {
	settings := config.NewPackageSettings()
	var jobs int

	cmd := &cobra.Command{
		Use:   "package VERSION_NAME",
		Short: "Zip every pack and write the release manifest",
		Long: `Zip every directory under the source directory, checksum every archive in the
output directory and write a manifest for the launcher.

Only MAJOR.MINOR.PATCH versions are supported. The launcher reads versions as
MM.mmpp floats, so minor and patch must stay below 100.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := model.ParseVersion(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("jobs") {
				settings.SetMaxParallel(jobs)
			}

			service := compress.NewService(settings)
			manifest, err := service.Run(cmd.Context(), version)
			if err != nil {
				return err
			}
			for name, pkg := range manifest.Packages {
				log.Printf("%s: %s", name, pkg.Checksum)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&settings.SourceDir, "src", config.DefaultSourceDir, "directory holding one subdirectory per pack")
	cmd.Flags().StringVar(&settings.OutputDir, "out", config.DefaultOutputDir, "directory receiving the archives")
	cmd.Flags().StringVar(&settings.ManifestPath, "manifest", config.DefaultManifestPath, "manifest output path")
	cmd.Flags().StringVar(&settings.Name, "name", config.DefaultManifestName, "manifest name")
	cmd.Flags().StringVar(&settings.Description, "description", config.DefaultDescription, "package description")
	cmd.Flags().StringVar(&settings.ReleaseURL, "url", config.DefaultReleaseURL, "download URL template, filled with release tag and archive name")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", config.DefaultMaxParallel(), "number of parallel archive jobs")
	return cmd
}
