package config

import (
	"fmt"
	"strings"
)

// Packaging defaults
const (
	DefaultSourceDir    = "src"
	DefaultOutputDir    = "."
	DefaultManifestPath = "manifest.json"
	DefaultManifestName = "RVGL Uber Content Packs"
	DefaultDescription  = "An AI-upscaled texture pack for all stock game assets."
	// DefaultReleaseURL is filled with the release tag and the archive name
	DefaultReleaseURL = "https://github.com/RVGL-Uber/rvgl-uber/releases/download/%s/%s"
)

// PackageSettings holds the configuration of the packaging command
type PackageSettings struct {
	SourceDir    string
	OutputDir    string
	ManifestPath string
	Name         string
	Description  string
	ReleaseURL   string
	maxParallel  int
}

// NewPackageSettings creates packaging settings with default values
func NewPackageSettings() *PackageSettings {
	return &PackageSettings{
		SourceDir:    DefaultSourceDir,
		OutputDir:    DefaultOutputDir,
		ManifestPath: DefaultManifestPath,
		Name:         DefaultManifestName,
		Description:  DefaultDescription,
		ReleaseURL:   DefaultReleaseURL,
		maxParallel:  DefaultMaxParallel(),
	}
}

// GetMaxParallel returns the maximum number of parallel archive jobs
func (p *PackageSettings) GetMaxParallel() int {
	if p.maxParallel <= 0 {
		p.maxParallel = DefaultMaxParallel()
	}
	return p.maxParallel
}

// SetMaxParallel sets the maximum number of parallel archive jobs
func (p *PackageSettings) SetMaxParallel(count int) {
	p.maxParallel = clampParallel(count)
}

// DownloadURL returns the release download URL of an archive
func (p *PackageSettings) DownloadURL(tag, archiveName string) string {
	return fmt.Sprintf(p.ReleaseURL, tag, archiveName)
}

// Validate checks the release URL template
func (p *PackageSettings) Validate() error {
	if strings.Count(p.ReleaseURL, "%s") != 2 {
		return fmt.Errorf("release URL template must contain two %%s verbs: %s", p.ReleaseURL)
	}
	return nil
}
