package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rvgl-uber/textools/internal/model"
)

// ImageMagick constants for conversion settings
const (
	ConvertSubcommand = "convert"

	// Pre stage: black is the game's transparency key; make it a real alpha
	// channel so black pixels produced by the upscaler stay opaque
	TransparentFlag  = "-transparent"
	TransparentColor = "black"

	// Post stage
	ColorspaceFlag = "-colorspace"
	ColorspaceSRGB = "sRGB"
	ProfileFlag    = "-profile"
	StripFlag      = "-strip"
	ResizeFlag     = "-resize"

	// Output is always PNG data; the game accepts it behind a .bmp extension
	PNGOutputPrefix = "png:"
	OutputExtension = ".bmp"
)

// Tiers the converted trees are sized for
const (
	UHDTierSuffix = ".bmn"
	HDTierSuffix  = ".bmo"
)

// Target resolutions of the converted trees
var (
	UHDSize = tierResolution(UHDTierSuffix)
	HDSize  = tierResolution(HDTierSuffix)
)

// BuildPreArgs builds the arguments converting an original texture to the
// intermediate format
func BuildPreArgs(src, dst string) []string {
	return []string{
		ConvertSubcommand,
		src,
		TransparentFlag, TransparentColor,
		PNGOutputPrefix + dst,
	}
}

// BuildUHDArgs builds the arguments normalizing an upscaled texture in place:
// sRGB color space, no metadata, at most UHDSize on each side
func BuildUHDArgs(path, profile string) []string {
	return []string{
		ConvertSubcommand,
		path,
		ColorspaceFlag, ColorspaceSRGB,
		ProfileFlag, profile,
		StripFlag,
		ResizeFlag, resizeGeometry(UHDSize),
		PNGOutputPrefix + path,
	}
}

// BuildHDArgs builds the arguments deriving the HD copy from a normalized
// UHD texture
func BuildHDArgs(src, dst string) []string {
	return []string{
		ConvertSubcommand,
		src,
		StripFlag,
		ResizeFlag, resizeGeometry(HDSize),
		PNGOutputPrefix + dst,
	}
}

// UpscaledTarget returns the intermediate texture an upscaled file belongs to:
// the suffix is removed from the stem and the extension becomes .bmp
func UpscaledTarget(path, suffix string) string {
	dir, name := filepath.Split(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.TrimSuffix(stem, suffix)
	return filepath.Join(dir, stem+OutputExtension)
}

func tierResolution(suffix string) int {
	tier, ok := model.TierForSuffix(suffix)
	if !ok {
		panic("convert: unknown tier " + suffix)
	}
	return tier.Resolution
}

func resizeGeometry(size int) string {
	return fmt.Sprintf("%dx%d", size, size)
}
