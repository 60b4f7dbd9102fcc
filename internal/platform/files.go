package platform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rvgl-uber/textools/internal/model"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SiblingDir returns a directory next to dir whose name is dir's name plus suffix
func SiblingDir(dir, suffix string) string {
	dir = filepath.Clean(dir)
	return filepath.Join(filepath.Dir(dir), filepath.Base(dir)+suffix)
}

// Relocate maps path under fromRoot to the same relative path under toRoot
func Relocate(path, fromRoot, toRoot string) (string, error) {
	rel, err := filepath.Rel(fromRoot, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is not inside %s", path, fromRoot)
	}
	return filepath.Join(toRoot, rel), nil
}

// ReplaceExtension swaps the extension of path for ext
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// ScanTextures returns every texture file under root, sorted
func ScanTextures(root string) ([]string, error) {
	return scanFiles(root, func(name string) bool {
		return model.IsTextureExtension(filepath.Ext(name))
	})
}

// ScanUpscaled returns every file under root whose name carries the upscaled
// suffix right before an extension, sorted
func ScanUpscaled(root, suffix string) ([]string, error) {
	if suffix == "" {
		return nil, fmt.Errorf("upscaled suffix is empty")
	}
	marker := suffix + "."
	return scanFiles(root, func(name string) bool {
		return strings.Contains(name, marker)
	})
}

// scanFiles walks root and collects regular files accepted by match
func scanFiles(root string, match func(name string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
