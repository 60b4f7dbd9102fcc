package model

import "strings"

// Tier is one quality level of a game texture. The level is encoded in the
// file extension, highest resolution first.
type Tier struct {
	Suffix     string
	Resolution int
}

// Tiers lists every known tier from highest to lowest quality.
var Tiers = []Tier{
	{Suffix: ".bmn", Resolution: 1024},
	{Suffix: ".bmo", Resolution: 512},
	{Suffix: ".bmp", Resolution: 256},
	{Suffix: ".bmq", Resolution: 128},
}

// TextureExtensionPrefix matches every texture extension, known tier or not
const TextureExtensionPrefix = ".bm"

// tierIndex returns the position of suffix in Tiers, or -1
func tierIndex(suffix string) int {
	for i, tier := range Tiers {
		if tier.Suffix == suffix {
			return i
		}
	}
	return -1
}

// TierForSuffix returns the tier encoded by a file extension
func TierForSuffix(suffix string) (Tier, bool) {
	i := tierIndex(suffix)
	if i < 0 {
		return Tier{}, false
	}
	return Tiers[i], true
}

// LowerTiers returns every tier strictly below suffix. Unknown suffixes have
// no lower tiers.
func LowerTiers(suffix string) []Tier {
	i := tierIndex(suffix)
	if i < 0 {
		return nil
	}
	return Tiers[i+1:]
}

// IsTextureExtension reports whether ext looks like a texture extension
func IsTextureExtension(ext string) bool {
	return strings.HasPrefix(ext, TextureExtensionPrefix)
}
