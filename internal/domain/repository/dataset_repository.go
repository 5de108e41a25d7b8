package repository

import (
	"context"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
)

// DatasetRepository loads the household electricity dataset.
type DatasetRepository interface {
	// Load reads the dataset from a local path or an s3://bucket/key URI.
	Load(ctx context.Context, source string) (*entity.Dataset, error)
}
