package compress

import (
	"context"

	"github.com/rvgl-uber/textools/internal/model"
)

// Compressor defines the interface for the packaging service.
type Compressor interface {
	SetUpdateCallback(func(*model.ConversionTask))
	Run(ctx context.Context, version model.Version) (*model.Manifest, error)
	GetTask(taskID string) (*model.ConversionTask, bool)
}
