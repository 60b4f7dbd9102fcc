package convert

import (
	"context"

	"github.com/rvgl-uber/textools/internal/model"
)

// Converter defines the interface for the conversion service.
type Converter interface {
	SetUpdateCallback(func(*model.ConversionTask))
	Pre(ctx context.Context) ([]*model.ConversionTask, error)
	Post(ctx context.Context) ([]*model.ConversionTask, error)
	Verify(ctx context.Context) ([]Finding, error)
	GetTask(taskID string) (*model.ConversionTask, bool)
}
