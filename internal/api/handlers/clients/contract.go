package clients

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/service/clients/models"
)

type ClientService interface {
	List(ctx context.Context, session auth.Session, req *models.ListRequest) (*models.ClientListResponse, error)
	Get(ctx context.Context, session auth.Session, id string) (*models.ClientResponse, error)
	Create(ctx context.Context, session auth.Session, req *models.ClientRequest) (*models.ClientResponse, error)
	Update(ctx context.Context, session auth.Session, id string, req *models.ClientUpdateRequest) (*models.ClientResponse, error)
	Delete(ctx context.Context, session auth.Session, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
