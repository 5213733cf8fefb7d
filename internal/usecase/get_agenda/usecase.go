package get_agenda

import (
	"context"
	"sort"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// UseCase use case для построения агенды дня
type UseCase struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	timeProvider    TimeProvider
	logger          Logger
	cfg             Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, userRepo UserRepository, logger Logger, cfg Config) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		cfg:             cfg,
	}
}

// Execute выполняет use case построения агенды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now().In(uc.cfg.Location)
	day := now
	if !req.Date.IsZero() {
		day = req.Date
	}
	day = domain.StartOfDay(day, uc.cfg.Location)

	uc.logger.Info("GetAgenda: user=%s, role=%s, date=%s", req.Session.UserID, req.Session.Role, day.Format(domain.DateFormat))

	// 1. Параметры сетки
	opts := uc.cfg.Options
	if req.IntervalMinutes != nil {
		opts.IntervalMinutes = *req.IntervalMinutes
	}
	if err := opts.Validate(); err != nil {
		uc.logger.Warn("GetAgenda: invalid options: %v", err)
		return nil, err
	}

	// 2. Peluquero видит только свою колонку и только сегодня
	ownOnly := !req.Session.Role.CanViewAllEmployees()
	if ownOnly && !day.Equal(domain.StartOfDay(now, uc.cfg.Location)) {
		uc.logger.Warn("GetAgenda: user=%s cannot view date=%s", req.Session.UserID, day.Format(domain.DateFormat))
		return nil, domain.ErrAccessDenied
	}

	// 3. Активные сотрудники с колонкой в агенде
	role := domain.RolePeluquero
	employees, err := uc.userRepo.List(ctx, domain.UserFilter{Role: &role, OnlyActive: true})
	if err != nil {
		uc.logger.Error("GetAgenda: failed to load employees: %v", err)
		return nil, err
	}
	columns := make([]*domain.User, 0, len(employees))
	for _, e := range employees {
		if !e.IsEmployee() {
			continue
		}
		if ownOnly && e.ID != req.Session.UserID {
			continue
		}
		columns = append(columns, e)
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })

	// 4. Записи дня
	from, to := domain.DayRange(day, uc.cfg.Location)
	filter := domain.AppointmentFilter{From: &from, To: &to}
	if ownOnly {
		filter.EmployeeID = &req.Session.UserID
	}
	list, err := uc.appointmentRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAgenda: failed to load appointments for date=%s: %v", day.Format(domain.DateFormat), err)
		return nil, err
	}
	for _, a := range list {
		a.Date = a.Date.In(uc.cfg.Location)
	}

	// 5. Раскладка по сетке
	agenda := domain.BuildAgenda(day, columns, list, opts, uc.cfg.WaitingWindow, now)

	uc.logger.Info("GetAgenda: date=%s, columns=%d, appointments=%d",
		day.Format(domain.DateFormat), len(agenda.Columns), len(list))

	return fromDomain(agenda), nil
}
