package repository

import (
	"context"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
)

// EstimatePublisher pushes bill estimates to an external consumer.
type EstimatePublisher interface {
	PublishBillCalculation(ctx context.Context, calc *entity.BillCalculation) error
	Close()
}
