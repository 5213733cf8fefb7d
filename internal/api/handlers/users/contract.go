package users

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/service/staff/models"
)

type StaffService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	List(ctx context.Context, session auth.Session, req *models.ListRequest) (*models.UserListResponse, error)
	Get(ctx context.Context, session auth.Session, id string) (*models.UserResponse, error)
	Create(ctx context.Context, session auth.Session, req *models.CreateUserRequest) (*models.UserResponse, error)
	Update(ctx context.Context, session auth.Session, id string, req *models.UpdateUserRequest) (*models.UserResponse, error)
	ChangePassword(ctx context.Context, session auth.Session, id string, req *models.ChangePasswordRequest) error
	Delete(ctx context.Context, session auth.Session, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
