package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rvgl-uber/textools/internal/platform"
)

// Environment keys that override defaults
const (
	KeyMagickCommand = "TEXTOOLS_MAGICK"
	KeyProfilePath   = "TEXTOOLS_PROFILE"
	KeyMaxParallel   = "TEXTOOLS_MAX_PARALLEL"
)

// Default values
const (
	DefaultMagickCommand = "magick"
	DefaultProfilePath   = "srgb.icm"
	MinParallel          = 1
	MaxParallel          = 64
)

// Sibling directory suffixes for converted trees
const (
	UHDDirSuffix = "-uhd"
	HDDirSuffix  = "-hd"
)

// Settings holds the configuration of the conversion commands
type Settings struct {
	AssetsDir      string
	UpscaledSuffix string
	ProfilePath    string
	MagickCommand  string
	DryRun         bool
	maxParallel    int
}

// NewSettings creates settings with default values
func NewSettings(assetsDir, upscaledSuffix string) *Settings {
	return &Settings{
		AssetsDir:      filepath.Clean(assetsDir),
		UpscaledSuffix: upscaledSuffix,
		ProfilePath:    DefaultProfilePath,
		MagickCommand:  DefaultMagickCommand,
		maxParallel:    DefaultMaxParallel(),
	}
}

// DefaultMaxParallel returns the default number of parallel jobs
func DefaultMaxParallel() int {
	return clampParallel(runtime.NumCPU())
}

// LoadEnv applies environment overrides using lookup, typically os.LookupEnv
func (s *Settings) LoadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(KeyMagickCommand); ok && v != "" {
		s.MagickCommand = v
	}
	if v, ok := lookup(KeyProfilePath); ok && v != "" {
		s.ProfilePath = v
	}
	if v, ok := lookup(KeyMaxParallel); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", KeyMaxParallel, v, err)
		}
		s.SetMaxParallel(n)
	}
	return nil
}

// GetMaxParallel returns the maximum number of parallel jobs
func (s *Settings) GetMaxParallel() int {
	if s.maxParallel <= 0 {
		s.maxParallel = DefaultMaxParallel()
	}
	return s.maxParallel
}

// SetMaxParallel sets the maximum number of parallel jobs
func (s *Settings) SetMaxParallel(count int) {
	s.maxParallel = clampParallel(count)
}

// UHDDir returns the directory holding intermediate and upscaled textures
func (s *Settings) UHDDir() string {
	return platform.SiblingDir(s.AssetsDir, UHDDirSuffix)
}

// HDDir returns the directory holding the downscaled copies
func (s *Settings) HDDir() string {
	return platform.SiblingDir(s.AssetsDir, HDDirSuffix)
}

// Validate checks that the settings can drive a conversion run. The upscaled
// suffix is only required when requireSuffix is set.
func (s *Settings) Validate(requireSuffix bool) error {
	if _, err := os.Stat(s.ProfilePath); err != nil {
		return fmt.Errorf("SRGB profile does not exist: %s", s.ProfilePath)
	}
	if requireSuffix && s.UpscaledSuffix == "" {
		return fmt.Errorf("upscaled image suffix is empty")
	}
	info, err := os.Stat(s.AssetsDir)
	if err != nil {
		return fmt.Errorf("assets directory does not exist: %s", s.AssetsDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("assets path is not a directory: %s", s.AssetsDir)
	}
	return nil
}

func clampParallel(count int) int {
	if count < MinParallel {
		return MinParallel
	}
	if count > MaxParallel {
		return MaxParallel
	}
	return count
}
