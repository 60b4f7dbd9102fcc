package compress

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rvgl-uber/textools/internal/config"
	"github.com/rvgl-uber/textools/internal/model"
	"github.com/rvgl-uber/textools/internal/platform"
	"github.com/rvgl-uber/textools/internal/worker"
)

// Manifest file permissions
const ManifestPermissions = 0644

// TaskIDPrefix prefixes every packaging task ID
const TaskIDPrefix = "compress-"

// Service handles archive creation and manifest generation
type Service struct {
	settings *config.PackageSettings
	tracker  *worker.Tracker
}

var _ Compressor = (*Service)(nil)

// NewService creates a new packaging service
func NewService(settings *config.PackageSettings) *Service {
	return &Service{
		settings: settings,
		tracker:  worker.NewTracker(TaskIDPrefix),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.ConversionTask)) {
	s.tracker.SetUpdateCallback(callback)
}

// GetTask returns a packaging task by ID
func (s *Service) GetTask(taskID string) (*model.ConversionTask, bool) {
	return s.tracker.GetTask(taskID)
}

// Run zips every pack directory, checksums every archive in the output
// directory and writes the manifest
func (s *Service) Run(ctx context.Context, version model.Version) (*model.Manifest, error) {
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}

	packDirs, err := listPackDirs(s.settings.SourceDir)
	if err != nil {
		return nil, err
	}
	if err := platform.CreateDirectoryIfNotExists(s.settings.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", s.settings.OutputDir, err)
	}

	if err := s.archive(ctx, packDirs); err != nil {
		return nil, err
	}

	checksums, err := s.checksumArchives(ctx)
	if err != nil {
		return nil, err
	}

	manifest := BuildManifest(s.settings, version, checksums)
	if err := WriteManifest(s.settings.ManifestPath, manifest); err != nil {
		return nil, err
	}
	log.Printf("Wrote manifest %s with %d packages", s.settings.ManifestPath, len(manifest.Packages))
	return manifest, nil
}

// archive zips each pack directory into the output directory
func (s *Service) archive(ctx context.Context, packDirs []string) error {
	jobs := make([]worker.Job, 0, len(packDirs))
	for _, dir := range packDirs {
		zipPath := filepath.Join(s.settings.OutputDir, filepath.Base(dir)+ArchiveExtension)
		task := s.tracker.NewTask(model.TaskKindArchive, dir, zipPath)
		jobs = append(jobs, worker.Job{Task: task, Run: func(ctx context.Context) error {
			return ZipDir(dir, zipPath)
		}})
	}
	return s.runJobs(ctx, jobs)
}

// checksumArchives hashes every archive found in the output directory, keyed
// by archive file name
func (s *Service) checksumArchives(ctx context.Context) (map[string]string, error) {
	archives, err := filepath.Glob(filepath.Join(s.settings.OutputDir, "*"+ArchiveExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	checksums := make(map[string]string, len(archives))
	var mu sync.Mutex
	jobs := make([]worker.Job, 0, len(archives))
	for _, archive := range archives {
		task := s.tracker.NewTask(model.TaskKindChecksum, archive, "")
		jobs = append(jobs, worker.Job{Task: task, Run: func(ctx context.Context) error {
			sum, err := Checksum(archive)
			if err != nil {
				return err
			}
			mu.Lock()
			checksums[filepath.Base(archive)] = sum
			mu.Unlock()
			return nil
		}})
	}
	if err := s.runJobs(ctx, jobs); err != nil {
		return nil, err
	}
	return checksums, nil
}

// BuildManifest creates the manifest for a release from archive checksums
// keyed by archive file name
func BuildManifest(settings *config.PackageSettings, version model.Version, checksums map[string]string) *model.Manifest {
	manifest := model.NewManifest(settings.Name, version)

	names := make([]string, 0, len(checksums))
	for name := range checksums {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		manifest.Packages[strings.TrimSuffix(name, filepath.Ext(name))] = model.Package{
			Checksum:    checksums[name],
			Description: settings.Description,
			URL:         settings.DownloadURL(version.Tag(), name),
			Version:     manifest.Version,
		}
	}
	return manifest
}

// WriteManifest encodes the manifest to path
func WriteManifest(path string, manifest *model.Manifest) error {
	data, err := manifest.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, ManifestPermissions); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// listPackDirs returns the directories directly under sourceDir, sorted
func listPackDirs(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", sourceDir, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(sourceDir, entry.Name()))
		}
	}
	return dirs, nil
}

// runJobs runs packaging jobs with the configured parallelism
func (s *Service) runJobs(ctx context.Context, jobs []worker.Job) error {
	return worker.Run(ctx, s.settings.GetMaxParallel(), jobs, s.tracker.Hooks())
}
