package catalog

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context) (*models.ServiceListResponse, error)
	GetService(ctx context.Context, id string) (*models.ServiceResponse, error)
	CreateService(ctx context.Context, session auth.Session, req *models.ServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, session auth.Session, id string, req *models.ServiceUpdateRequest) (*models.ServiceResponse, error)
	DeleteService(ctx context.Context, session auth.Session, id string) error

	ListProducts(ctx context.Context) (*models.ProductListResponse, error)
	GetProduct(ctx context.Context, id string) (*models.ProductResponse, error)
	CreateProduct(ctx context.Context, session auth.Session, req *models.ProductRequest) (*models.ProductResponse, error)
	UpdateProduct(ctx context.Context, session auth.Session, id string, req *models.ProductUpdateRequest) (*models.ProductResponse, error)
	DeleteProduct(ctx context.Context, session auth.Session, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
