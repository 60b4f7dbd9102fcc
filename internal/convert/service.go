package convert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rvgl-uber/textools/internal/config"
	"github.com/rvgl-uber/textools/internal/model"
	"github.com/rvgl-uber/textools/internal/platform"
	"github.com/rvgl-uber/textools/internal/worker"
)

// TaskIDPrefix prefixes every conversion task ID
const TaskIDPrefix = "convert-"

// Service handles texture conversion operations
type Service struct {
	settings *config.Settings
	runner   platform.Runner
	tracker  *worker.Tracker
}

var _ Converter = (*Service)(nil)

// NewService creates a new conversion service
func NewService(settings *config.Settings, runner platform.Runner) *Service {
	return &Service{
		settings: settings,
		runner:   runner,
		tracker:  worker.NewTracker(TaskIDPrefix),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.ConversionTask)) {
	s.tracker.SetUpdateCallback(callback)
}

// GetTask returns a conversion task by ID
func (s *Service) GetTask(taskID string) (*model.ConversionTask, bool) {
	return s.tracker.GetTask(taskID)
}

// Pre converts the best tier of every original texture into the UHD tree
func (s *Service) Pre(ctx context.Context) ([]*model.ConversionTask, error) {
	files, err := platform.ScanTextures(s.settings.AssetsDir)
	if err != nil {
		return nil, err
	}
	sources := SelectSources(files)
	log.Printf("Found %d textures, %d selected for conversion", len(files), len(sources))

	uhdDir := s.settings.UHDDir()
	jobs := make([]worker.Job, 0, len(sources))
	for _, src := range sources {
		dst, err := platform.Relocate(src, s.settings.AssetsDir, uhdDir)
		if err != nil {
			return nil, err
		}
		out := platform.ReplaceExtension(dst, OutputExtension)
		task := s.tracker.NewTask(model.TaskKindPre, src, out)
		jobs = append(jobs, worker.Job{Task: task, Run: func(ctx context.Context) error {
			return s.convertPre(ctx, src, out)
		}})
	}

	return worker.Tasks(jobs), s.runJobs(ctx, jobs)
}

// Post matches upscaled textures to their intermediates and derives the
// UHD and HD variants
func (s *Service) Post(ctx context.Context) ([]*model.ConversionTask, error) {
	uhdDir := s.settings.UHDDir()
	hdDir := s.settings.HDDir()
	suffix := s.settings.UpscaledSuffix

	if info, err := os.Stat(uhdDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("no UHD tree at %s, run pre first", uhdDir)
	}

	files, err := platform.ScanUpscaled(uhdDir, suffix)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d upscaled textures", len(files))

	jobs := make([]worker.Job, 0, len(files))
	for _, upscaled := range files {
		target := UpscaledTarget(upscaled, suffix)
		hdTarget, err := platform.Relocate(target, uhdDir, hdDir)
		if err != nil {
			return nil, err
		}
		task := s.tracker.NewTask(model.TaskKindPost, upscaled, target)
		jobs = append(jobs, worker.Job{Task: task, Run: func(ctx context.Context) error {
			return s.convertPost(ctx, upscaled, target, hdTarget)
		}})
	}

	return worker.Tasks(jobs), s.runJobs(ctx, jobs)
}

// convertPre writes the intermediate texture for one original
func (s *Service) convertPre(ctx context.Context, src, out string) error {
	if err := s.ensureParent(out); err != nil {
		return err
	}
	return s.runner.Run(ctx, s.settings.MagickCommand, BuildPreArgs(src, out)...)
}

// convertPost replaces the intermediate with its upscaled version, normalizes
// it and derives the HD copy
func (s *Service) convertPost(ctx context.Context, upscaled, target, hdTarget string) error {
	if s.settings.DryRun {
		log.Printf("dry-run: replace %s with %s", target, upscaled)
	} else {
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove intermediate %s: %w", target, err)
		}
		if err := os.Rename(upscaled, target); err != nil {
			return fmt.Errorf("failed to rename %s: %w", upscaled, err)
		}
	}

	if err := s.runner.Run(ctx, s.settings.MagickCommand, BuildUHDArgs(target, s.settings.ProfilePath)...); err != nil {
		return err
	}
	if err := s.ensureParent(hdTarget); err != nil {
		return err
	}
	return s.runner.Run(ctx, s.settings.MagickCommand, BuildHDArgs(target, hdTarget)...)
}

// ensureParent creates the parent directory of path unless running dry
func (s *Service) ensureParent(path string) error {
	if s.settings.DryRun {
		return nil
	}
	dir := filepath.Dir(path)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// runJobs runs conversion jobs with the configured parallelism
func (s *Service) runJobs(ctx context.Context, jobs []worker.Job) error {
	return worker.Run(ctx, s.settings.GetMaxParallel(), jobs, s.tracker.Hooks())
}
