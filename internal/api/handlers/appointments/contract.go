package appointments

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
	createAppointment "github.com/facumancuso/alessi-sub000/internal/usecase/create_appointment"
)

type CreateAppointmentUseCase interface {
	Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error)
}

type AppointmentService interface {
	Get(ctx context.Context, session auth.Session, id string) (*models.AppointmentResponse, error)
	List(ctx context.Context, session auth.Session, req *models.ListRequest) (*models.AppointmentListResponse, error)
	Update(ctx context.Context, session auth.Session, id string, req *models.UpdateAppointmentRequest) (*models.AppointmentResponse, error)
	ChangeStatus(ctx context.Context, session auth.Session, id string, req *models.ChangeStatusRequest) (*models.AppointmentResponse, error)
	Cancel(ctx context.Context, session auth.Session, id string, req *models.CancelRequest) (*models.AppointmentResponse, error)
	Delete(ctx context.Context, session auth.Session, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
