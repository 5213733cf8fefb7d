package billing

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/service/billing/models"
)

type BillingService interface {
	Groups(ctx context.Context, session auth.Session, req *models.GroupsRequest) (*models.GroupListResponse, error)
	Bill(ctx context.Context, session auth.Session, req *models.BulkRequest) (*models.BulkResponse, error)
	Revert(ctx context.Context, session auth.Session, req *models.BulkRequest) (*models.BulkResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
