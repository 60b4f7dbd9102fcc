package cli

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/rvgl-uber/textools/internal/config"
	"github.com/rvgl-uber/textools/internal/convert"
	"github.com/rvgl-uber/textools/internal/model"
	"github.com/rvgl-uber/textools/internal/platform"
)

// ProgressSteps is how many progress lines a run prints at most
const ProgressSteps = 10

// convertFlags are shared by the conversion commands
type convertFlags struct {
	profile string
	magick  string
	jobs    int
	dryRun  bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.profile, "profile", config.DefaultProfilePath, "ICC profile applied to upscaled textures")
	cmd.Flags().StringVar(&f.magick, "magick", config.DefaultMagickCommand, "ImageMagick executable")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", config.DefaultMaxParallel(), "number of parallel conversions")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print commands without running them")
}

// settings builds conversion settings; environment values apply unless the
// matching flag was given explicitly
func (f *convertFlags) settings(cmd *cobra.Command, suffix, assetsDir string) (*config.Settings, error) {
	settings := config.NewSettings(assetsDir, suffix)
	if err := settings.LoadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("profile") {
		settings.ProfilePath = f.profile
	}
	if cmd.Flags().Changed("magick") {
		settings.MagickCommand = f.magick
	}
	if cmd.Flags().Changed("jobs") {
		settings.SetMaxParallel(f.jobs)
	}
	settings.DryRun = f.dryRun
	return settings, nil
}

func newConvertService(settings *config.Settings) *convert.Service {
	var runner platform.Runner = platform.NewExecRunner()
	if settings.DryRun {
		runner = platform.NewDryRunner(nil)
	}
	return convert.NewService(settings, runner)
}

func newPreCommand() *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:   "pre UPSCALED_IMAGE_SUFFIX PATH_TO_GAME_ASSETS",
		Short: "Convert original textures into the UHD tree for upscaling",
		Long: `Convert the best available tier of every texture under PATH_TO_GAME_ASSETS into
PATH_TO_GAME_ASSETS-uhd. Black becomes transparent so upscaler output keeps its
dark pixels. The suffix argument is accepted for symmetry with post.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if err := settings.Validate(false); err != nil {
				return err
			}

			service := newConvertService(settings)
			tasks, err := runWithProgress(service, func() ([]*model.ConversionTask, error) {
				return service.Pre(cmd.Context())
			})
			logSummary("pre", tasks)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newPostCommand() *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:   "post UPSCALED_IMAGE_SUFFIX PATH_TO_GAME_ASSETS",
		Short: "Fold upscaled textures back and derive the HD tree",
		Long: `Replace every intermediate texture in PATH_TO_GAME_ASSETS-uhd with its upscaled
version (files named <texture>UPSCALED_IMAGE_SUFFIX.<ext>), normalize it to
1024x1024 sRGB and write a 512x512 copy into PATH_TO_GAME_ASSETS-hd.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if err := settings.Validate(true); err != nil {
				return err
			}

			service := newConvertService(settings)
			tasks, err := runWithProgress(service, func() ([]*model.ConversionTask, error) {
				return service.Post(cmd.Context())
			})
			logSummary("post", tasks)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify PATH_TO_GAME_ASSETS",
		Short: "Check the dimensions of converted textures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.NewSettings(args[0], "")
			service := convert.NewService(settings, platform.NewExecRunner())

			findings, err := service.Verify(cmd.Context())
			if err != nil {
				return err
			}
			for _, finding := range findings {
				log.Printf("verify: %s", finding)
			}
			if len(findings) > 0 {
				return fmt.Errorf("%d textures failed verification", len(findings))
			}
			log.Printf("verify: %s and %s look good", settings.UHDDir(), settings.HDDir())
			return nil
		},
	}
}

// runWithProgress reports finished task counts while run executes
func runWithProgress(service *convert.Service, run func() ([]*model.ConversionTask, error)) ([]*model.ConversionTask, error) {
	var finished atomic.Int64
	var total atomic.Int64
	service.SetUpdateCallback(func(task *model.ConversionTask) {
		switch {
		case task.Status == model.TaskStatusPending:
			total.Add(1)
		case task.Status.IsFinished():
			done := finished.Add(1)
			if n := total.Load(); isProgressStep(done, n) {
				log.Printf("Progress: %d/%d", done, n)
			}
		}
	})
	return run()
}

// isProgressStep reports whether done crosses one of ProgressSteps marks of total
func isProgressStep(done, total int64) bool {
	if total <= 0 {
		return false
	}
	if done == total {
		return true
	}
	step := total / ProgressSteps
	if step == 0 {
		step = 1
	}
	return done%step == 0
}

// logSummary prints how many tasks ended in each state
func logSummary(stage string, tasks []*model.ConversionTask) {
	counts := make(map[model.TaskStatus]int)
	for _, task := range tasks {
		counts[task.Status]++
	}
	log.Printf("%s: %d completed, %d failed, %d skipped", stage,
		counts[model.TaskStatusCompleted], counts[model.TaskStatusError], counts[model.TaskStatusSkipped])
}
