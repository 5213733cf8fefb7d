package create_appointment

import (
	"context"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/integrations/whatsapp"
	"github.com/facumancuso/alessi-sub000/internal/notify"
)

// UseCase сценарий создания записи персоналом или самим клиентом
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	productRepo     ProductRepository
	userRepo        UserRepository
	clientRepo      ClientRepository
	settingsRepo    SettingsRepository
	notifier        Notifier
	messenger       Messenger
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
	cfg             Config
}

// NewUseCase создает новый экземпляр UseCase. messenger может быть nil
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	productRepo ProductRepository,
	userRepo UserRepository,
	clientRepo ClientRepository,
	settingsRepo SettingsRepository,
	notifier Notifier,
	messenger Messenger,
	txManager TransactionManager,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		productRepo:     productRepo,
		userRepo:        userRepo,
		clientRepo:      clientRepo,
		settingsRepo:    settingsRepo,
		notifier:        notifier,
		messenger:       messenger,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		cfg:             cfg,
	}
}

// Execute создает запись со статусом confirmed
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed - source=%s, error=%v", req.Source, err)
		return nil, err
	}

	day := domain.StartOfDay(req.Date, uc.cfg.Location)

	uc.logger.Info("CreateAppointment: started - source=%s, date=%s, assignments=%d",
		req.Source, day.Format(domain.DateFormat), len(req.Assignments))

	// 2. Каталог услуг. Неизвестная услуга - NotFound
	assignments := toDomainAssignments(req.Assignments)
	services, err := uc.loadServices(ctx, assignments)
	if err != nil {
		return nil, err
	}

	// 3. Сотрудники должны существовать и быть активными
	if err := uc.checkEmployees(ctx, assignments); err != nil {
		return nil, err
	}

	// 4. Длительность по умолчанию, снимок названия и цены
	appt := &domain.Appointment{
		ClientID:      req.ClientID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Assignments:   domain.ApplyServiceDefaults(assignments, services),
		Status:        domain.StatusConfirmed,
		Source:        req.Source,
		Notes:         req.Notes,
	}
	appt.SnapshotServices(services)

	if err := domain.ValidateAssignments(appt.Assignments); err != nil {
		uc.logger.Warn("CreateAppointment: invalid assignments - error=%v", err)
		return nil, err
	}

	products, err := uc.loadProducts(ctx, appt.ProductIDs)
	if err != nil {
		return nil, err
	}

	appt.AlignDate(day)

	// 5. Онлайн-запись закрывается за bookingClosingHours до начала
	var settings *domain.Settings
	if req.Source == domain.SourceSelfService {
		if settings, err = uc.checkBookingWindow(ctx, appt.Date); err != nil {
			return nil, err
		}
	}

	// 6. Клиент, пересечения и сохранение в одной транзакции
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.linkClient(txCtx, appt); err != nil {
			return err
		}

		if uc.cfg.RejectOverlaps {
			if err := uc.checkOverlaps(txCtx, appt, day); err != nil {
				return err
			}
		}

		var err error
		created, err = uc.appointmentRepo.Create(txCtx, appt)
		return err
	})
	if err != nil {
		if domain.IsValidation(err) || domain.IsNotFound(err) || domain.IsConflict(err) {
			uc.logger.Warn("CreateAppointment: rejected - customer=%s, error=%v", appt.CustomerName, err)
		} else {
			uc.logger.Error("CreateAppointment: failed to save - customer=%s, error=%v", appt.CustomerName, err)
		}
		return nil, err
	}
	created.Date = created.Date.In(uc.cfg.Location)

	// 7. Уведомление колонок сотрудников
	for _, employeeID := range domain.EmployeeIDs(created.Assignments) {
		uc.notifier.Publish(notify.Event{
			Type:          notify.EventAppointmentChanged,
			EmployeeID:    employeeID,
			AppointmentID: created.ID,
			CustomerName:  created.CustomerName,
		})
	}

	uc.logger.Info("CreateAppointment: success - id=%s, source=%s, date=%s, duration=%d",
		created.ID, created.Source, created.Date.Format(time.RFC3339), created.Duration)

	resp := &Response{Appointment: created, Products: products}

	// 8. Подтверждение в WhatsApp. Ошибка шлюза не отменяет запись
	if settings != nil {
		resp.ConfirmationSent = uc.sendConfirmation(ctx, settings, created)
	}

	return resp, nil
}

func (uc *UseCase) sendConfirmation(ctx context.Context, settings *domain.Settings, a *domain.Appointment) bool {
	if uc.messenger == nil || !settings.SendsConfirmations() || a.CustomerPhone == "" {
		return false
	}

	_, err := uc.messenger.SendWithGracefulDegradation(ctx, whatsapp.Message{
		From: settings.WhatsAppPhoneNumber,
		To:   a.CustomerPhone,
		Text: settings.ConfirmationMessage(a, uc.cfg.Location),
	})
	if err != nil {
		uc.logger.Warn("CreateAppointment: confirmation not sent - id=%s, error=%v", a.ID, err)
		return false
	}
	return true
}

func (uc *UseCase) loadServices(ctx context.Context, assignments []domain.Assignment) (domain.ServiceCatalog, error) {
	ids := domain.ServiceIDs(assignments)
	list, err := uc.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load services - error=%v", err)
		return nil, err
	}

	catalog := domain.NewServiceCatalog(list)
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			uc.logger.Warn("CreateAppointment: service not found - service_id=%s", id)
			return nil, domain.NewNotFoundError("service", id)
		}
	}
	return catalog, nil
}

func (uc *UseCase) loadProducts(ctx context.Context, ids []string) (domain.ProductCatalog, error) {
	if len(ids) == 0 {
		return domain.ProductCatalog{}, nil
	}

	list, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load products - error=%v", err)
		return nil, err
	}

	catalog := domain.NewProductCatalog(list)
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			uc.logger.Warn("CreateAppointment: product not found - product_id=%s", id)
			return nil, domain.NewNotFoundError("product", id)
		}
	}
	return catalog, nil
}

func (uc *UseCase) checkEmployees(ctx context.Context, assignments []domain.Assignment) error {
	users, err := uc.userRepo.List(ctx, domain.UserFilter{OnlyActive: true})
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load employees - error=%v", err)
		return err
	}

	active := make(map[string]struct{}, len(users))
	for _, u := range users {
		active[u.ID] = struct{}{}
	}
	for i, a := range assignments {
		if _, ok := active[a.EmployeeID]; !ok {
			uc.logger.Warn("CreateAppointment: unknown employee - employee_id=%s", a.EmployeeID)
			return errUnknownEmployee(i, a.EmployeeID)
		}
	}
	return nil
}

func (uc *UseCase) checkBookingWindow(ctx context.Context, start time.Time) (*domain.Settings, error) {
	now := uc.timeProvider.Now()
	if !start.After(now) {
		uc.logger.Warn("CreateAppointment: start in the past - start=%s", start.Format(time.RFC3339))
		return nil, errInPast()
	}

	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load settings - error=%v", err)
		return nil, err
	}

	closesAt := settings.BookingClosesAt(start)
	if now.After(closesAt) {
		uc.logger.Warn("CreateAppointment: booking closed - start=%s, closed_at=%s",
			start.Format(time.RFC3339), closesAt.Format(time.RFC3339))
		return nil, errBookingClosed(closesAt.In(uc.cfg.Location).Format(domain.DateFormat + " " + domain.TimeFormat))
	}
	return settings, nil
}

// linkClient онлайн-запись создает или обновляет клиента по email,
// запись персоналом привязывается к существующему клиенту
func (uc *UseCase) linkClient(ctx context.Context, appt *domain.Appointment) error {
	if appt.Source == domain.SourceSelfService {
		client, err := uc.clientRepo.UpsertByEmail(ctx, &domain.Client{
			Name:        appt.CustomerName,
			Email:       appt.CustomerEmail,
			MobilePhone: appt.CustomerPhone,
		})
		if err != nil {
			return err
		}
		appt.ClientID = &client.ID
		return nil
	}

	if appt.ClientID != nil {
		client, err := uc.clientRepo.GetByID(ctx, *appt.ClientID)
		if err != nil {
			return err
		}
		if appt.CustomerEmail == "" {
			appt.CustomerEmail = client.Email
		}
		if appt.CustomerPhone == "" {
			appt.CustomerPhone = client.MobilePhone
		}
		return nil
	}

	if appt.CustomerEmail == "" {
		return nil
	}
	client, err := uc.clientRepo.GetByEmail(ctx, appt.CustomerEmail)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	appt.ClientID = &client.ID
	return nil
}

func (uc *UseCase) checkOverlaps(ctx context.Context, appt *domain.Appointment, day time.Time) error {
	from, to := domain.DayRange(day, uc.cfg.Location)
	existing, err := uc.appointmentRepo.List(ctx, domain.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		return err
	}

	active := make([]*domain.Appointment, 0, len(existing))
	for _, a := range existing {
		if a.IsActive() {
			a.Date = a.Date.In(uc.cfg.Location)
			active = append(active, a)
		}
	}

	if conflicts := domain.ConflictsWith(appt, active); len(conflicts) > 0 {
		c := conflicts[0]
		return domain.NewConflictError("appointment", c.EmployeeID, "employee already booked at this time")
	}
	return nil
}

func toDomainAssignments(in []AssignmentRequest) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(in))
	for _, a := range in {
		as := domain.Assignment{
			EmployeeID: a.EmployeeID,
			ServiceID:  a.ServiceID,
			Time:       a.Time,
			ProductIDs: append([]string(nil), a.ProductIDs...),
		}
		if a.DurationMinutes != nil {
			as.DurationMinutes = *a.DurationMinutes
		}
		out = append(out, as)
	}
	return out
}
