package agenda

import (
	"context"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/notify"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
	getAgenda "github.com/facumancuso/alessi-sub000/internal/usecase/get_agenda"
)

type GetAgendaUseCase interface {
	Execute(ctx context.Context, req *getAgenda.Request) (*getAgenda.Response, error)
}

type AppointmentService interface {
	MyDay(ctx context.Context, session auth.Session, employeeID string, day time.Time) (*models.AppointmentListResponse, error)
	Conflicts(ctx context.Context, session auth.Session, day time.Time) ([]models.ConflictResponse, error)
	NextPerEmployee(ctx context.Context, session auth.Session) ([]models.NextAppointmentResponse, error)
	WaitEvents(ctx context.Context, session auth.Session, employeeID string, after uint64, timeout time.Duration) ([]notify.Event, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
