package convert

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// Finding describes a converted texture that failed verification
type Finding struct {
	Path   string
	Width  int
	Height int
	Limit  int
	Err    error // set when the header could not be decoded
}

func (f Finding) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: unreadable: %v", f.Path, f.Err)
	}
	return fmt.Sprintf("%s: %dx%d exceeds %dx%d", f.Path, f.Width, f.Height, f.Limit, f.Limit)
}

// Verify checks that the UHD and HD trees only hold readable textures within
// their target resolutions
func (s *Service) Verify(ctx context.Context) ([]Finding, error) {
	var findings []Finding
	for _, tree := range []struct {
		root  string
		limit int
	}{
		{s.settings.UHDDir(), UHDSize},
		{s.settings.HDDir(), HDSize},
	} {
		found, err := VerifyTree(ctx, tree.root, tree.limit)
		if err != nil {
			return nil, err
		}
		findings = append(findings, found...)
	}
	return findings, nil
}

// VerifyTree decodes the header of every converted texture under root and
// reports those larger than limit on either side. Content may be PNG or BMP
// regardless of the .bmp extension.
func VerifyTree(ctx context.Context, root string, limit int) ([]Finding, error) {
	var findings []Finding
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), OutputExtension) {
			return nil
		}

		cfg, err := decodeConfig(path)
		if err != nil {
			findings = append(findings, Finding{Path: path, Limit: limit, Err: err})
			return nil
		}
		if cfg.Width > limit || cfg.Height > limit {
			findings = append(findings, Finding{Path: path, Width: cfg.Width, Height: cfg.Height, Limit: limit})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", root, err)
	}
	return findings, nil
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}
