package convert

import (
	"path/filepath"
	"strings"

	"github.com/rvgl-uber/textools/internal/model"
)

// SelectSources keeps the best available tier of every texture. A file is
// dropped when the same texture exists with a higher-quality tier suffix.
// Files with unknown texture suffixes are always kept. Input order is preserved.
func SelectSources(files []string) []string {
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f] = struct{}{}
	}

	dropped := make(map[string]struct{})
	for _, f := range files {
		ext := filepath.Ext(f)
		base := strings.TrimSuffix(f, ext)
		for _, lower := range model.LowerTiers(ext) {
			candidate := base + lower.Suffix
			if _, ok := present[candidate]; ok {
				dropped[candidate] = struct{}{}
			}
		}
	}

	selected := make([]string, 0, len(files)-len(dropped))
	for _, f := range files {
		if _, ok := dropped[f]; !ok {
			selected = append(selected, f)
		}
	}
	return selected
}
