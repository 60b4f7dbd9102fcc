package model

import "testing"

func TestTierForSuffix(t *testing.T) {
	tests := []struct {
		suffix     string
		found      bool
		resolution int
	}{
		{".bmn", true, 1024},
		{".bmo", true, 512},
		{".bmp", true, 256},
		{".bmq", true, 128},
		{".bmx", false, 0},
		{".png", false, 0},
	}

	for _, test := range tests {
		tier, ok := TierForSuffix(test.suffix)
		if ok != test.found {
			t.Errorf("TierForSuffix(%s) found = %v, expected %v", test.suffix, ok, test.found)
		}
		if tier.Resolution != test.resolution {
			t.Errorf("TierForSuffix(%s) resolution = %d, expected %d", test.suffix, tier.Resolution, test.resolution)
		}
	}
}

func TestLowerTiers(t *testing.T) {
	tests := []struct {
		suffix   string
		expected []string
	}{
		{".bmn", []string{".bmo", ".bmp", ".bmq"}},
		{".bmo", []string{".bmp", ".bmq"}},
		{".bmp", []string{".bmq"}},
		{".bmq", nil},
		{".bmz", nil},
	}

	for _, test := range tests {
		lower := LowerTiers(test.suffix)
		if len(lower) != len(test.expected) {
			t.Fatalf("LowerTiers(%s) returned %d tiers, expected %d", test.suffix, len(lower), len(test.expected))
		}
		for i, tier := range lower {
			if tier.Suffix != test.expected[i] {
				t.Errorf("LowerTiers(%s)[%d] = %s, expected %s", test.suffix, i, tier.Suffix, test.expected[i])
			}
		}
	}
}

func TestIsTextureExtension(t *testing.T) {
	for _, ext := range []string{".bmn", ".bmq", ".bmx", ".bm"} {
		if !IsTextureExtension(ext) {
			t.Errorf("IsTextureExtension(%s) = false, expected true", ext)
		}
	}
	for _, ext := range []string{".png", ".b", ""} {
		if IsTextureExtension(ext) {
			t.Errorf("IsTextureExtension(%s) = true, expected false", ext)
		}
	}
}
