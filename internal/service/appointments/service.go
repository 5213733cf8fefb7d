package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/notify"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// Config параметры сервиса записей
type Config struct {
	Location       *time.Location
	WaitingWindow  domain.WaitingWindow
	RejectOverlaps bool
}

// Service сервис для работы с записями после их создания
type Service struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	productRepo     ProductRepository
	userRepo        UserRepository
	notifier        Notifier
	observer        TransitionObserver
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
	cfg             Config
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	productRepo ProductRepository,
	userRepo UserRepository,
	notifier Notifier,
	observer TransitionObserver,
	txManager TransactionManager,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		productRepo:     productRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		observer:        observer,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		cfg:             cfg,
	}
}

// Get получает визит. Peluquero видит только визиты со своими позициями
func (s *Service) Get(ctx context.Context, session auth.Session, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("Get: fetching appointment id=%s for user=%s", id, session.UserID)

	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logRepoError("Get", id, err)
		return nil, err
	}

	if !session.Role.CanViewAllEmployees() && !a.HasEmployee(session.UserID) {
		s.logger.Warn("Get: access denied for user=%s to appointment id=%s", session.UserID, id)
		return nil, domain.ErrAccessDenied
	}

	responses, err := s.toResponses(ctx, []*domain.Appointment{a})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// List получает визиты по фильтру. Для Peluquero фильтр по сотруднику принудительно свой
func (s *Service) List(ctx context.Context, session auth.Session, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	if !session.Role.CanViewAllEmployees() {
		filter.EmployeeID = &session.UserID
	}

	s.logger.Info("List: fetching appointments for user=%s, limit=%d, offset=%d", session.UserID, filter.Limit, filter.Offset)

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, err
	}

	responses, err := s.toResponses(ctx, list)
	if err != nil {
		return nil, err
	}

	s.logger.Info("List: fetched %d appointments", len(responses))
	return &models.AppointmentListResponse{Appointments: responses, Total: len(responses)}, nil
}

// MyDay визиты сотрудника за день, отсортированные по времени
func (s *Service) MyDay(ctx context.Context, session auth.Session, employeeID string, day time.Time) (*models.AppointmentListResponse, error) {
	if !session.Role.CanViewAllEmployees() && employeeID != session.UserID {
		s.logger.Warn("MyDay: user=%s cannot view day of employee=%s", session.UserID, employeeID)
		return nil, domain.ErrAccessDenied
	}

	from, to := domain.DayRange(day, s.cfg.Location)
	list, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		From:       &from,
		To:         &to,
		EmployeeID: &employeeID,
	})
	if err != nil {
		s.logger.Error("MyDay: repository error for employee=%s: %v", employeeID, err)
		return nil, err
	}

	active := make([]*domain.Appointment, 0, len(list))
	for _, a := range list {
		if a.Status != domain.StatusCancelled {
			active = append(active, a)
		}
	}

	responses, err := s.toResponses(ctx, active)
	if err != nil {
		return nil, err
	}

	s.logger.Info("MyDay: employee=%s has %d appointments on %s", employeeID, len(responses), from.Format(domain.DateFormat))
	return &models.AppointmentListResponse{Appointments: responses, Total: len(responses)}, nil
}

// Update редактирует данные клиента, дату и позиции визита.
// Названия и цены услуг снимаются заново из текущего каталога
func (s *Service) Update(ctx context.Context, session auth.Session, id string, req *models.UpdateAppointmentRequest) (*models.AppointmentResponse, error) {
	if !session.Role.CanManageAppointments() {
		s.logger.Warn("Update: role=%s cannot edit appointments", session.Role)
		return nil, domain.ErrAccessDenied
	}

	s.logger.Info("Update: appointment id=%s by user=%s", id, session.UserID)

	var result *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		s.localize(a)

		if !a.CanBeEdited() {
			return domain.NewConflictError("appointment", id, fmt.Sprintf("appointment in status %s cannot be edited", a.Status))
		}

		if err := applyCustomerFields(a, req); err != nil {
			return err
		}

		day := a.Day()
		if req.Date != nil {
			day, err = time.ParseInLocation(domain.DateFormat, *req.Date, s.cfg.Location)
			if err != nil {
				return domain.NewValidationError("date", "expected YYYY-MM-DD")
			}
		}

		catalog, err := s.loadServices(txCtx, collectServiceIDs(a.Assignments, req))
		if err != nil {
			return err
		}

		assignments, err := buildAssignments(a.Assignments, req, catalog)
		if err != nil {
			return err
		}
		for _, as := range assignments {
			if _, ok := catalog[as.ServiceID]; !ok && as.ServiceID != "" {
				return domain.NewNotFoundError("service", as.ServiceID)
			}
		}

		a.Assignments = assignments
		a.SnapshotServices(catalog)
		if err := domain.ValidateAssignments(a.Assignments); err != nil {
			return err
		}
		if err := s.checkProducts(txCtx, a.ProductIDs); err != nil {
			return err
		}
		a.AlignDate(day)

		if s.cfg.RejectOverlaps {
			if err := s.checkOverlaps(txCtx, a); err != nil {
				return err
			}
		}

		result, err = s.appointmentRepo.Update(txCtx, a)
		return err
	})
	if err != nil {
		s.logRepoError("Update", id, err)
		return nil, err
	}

	s.publishChanged(result)

	s.logger.Info("Update: appointment id=%s updated, %d services, duration=%d", id, len(result.Assignments), result.Duration)
	responses, err := s.toResponses(ctx, []*domain.Appointment{result})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// ChangeStatus переводит визит в новый статус по таблице переходов.
// Peluquero меняет статус только визитов со своими позициями, в facturado и обратно только с правом биллинга
func (s *Service) ChangeStatus(ctx context.Context, session auth.Session, id string, req *models.ChangeStatusRequest) (*models.AppointmentResponse, error) {
	to, err := domain.ParseStatus(req.Status)
	if err != nil {
		s.logger.Warn("ChangeStatus: invalid status=%q", req.Status)
		return nil, err
	}

	if !session.Role.CanSetStatus(to) {
		s.logger.Warn("ChangeStatus: role=%s cannot set status=%s", session.Role, to)
		return nil, domain.ErrAccessDenied
	}

	s.logger.Info("ChangeStatus: appointment id=%s to=%s by user=%s", id, to, session.UserID)

	var (
		result  *domain.Appointment
		from    domain.AppointmentStatus
		changed bool
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		from = a.Status

		if (from == domain.StatusBilled || to == domain.StatusBilled) && !session.Role.CanBill() {
			return domain.ErrAccessDenied
		}
		if !session.Role.CanViewAllEmployees() && !a.HasEmployee(session.UserID) {
			return domain.ErrAccessDenied
		}

		changed, err = a.TransitionTo(to, s.timeProvider.Now())
		if err != nil {
			return err
		}
		if changed {
			if err := s.appointmentRepo.UpdateStatus(txCtx, id, from, to); err != nil {
				return err
			}
		}
		result = a
		return nil
	})
	if err != nil {
		s.logRepoError("ChangeStatus", id, err)
		return nil, err
	}

	if changed {
		s.observer.ObserveTransition(string(from), string(to))
		if to == domain.StatusWaiting {
			s.publish(result, notify.EventClientWaiting)
		} else {
			s.publishChanged(result)
		}
		s.logger.Info("ChangeStatus: appointment id=%s %s -> %s", id, from, to)
	} else {
		s.logger.Info("ChangeStatus: appointment id=%s already in status=%s", id, to)
	}

	responses, err := s.toResponses(ctx, []*domain.Appointment{result})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Cancel отменяет подтвержденный визит. Повторная отмена ничего не меняет
func (s *Service) Cancel(ctx context.Context, session auth.Session, id string, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	if !session.Role.CanManageAppointments() {
		s.logger.Warn("Cancel: role=%s cannot cancel appointments", session.Role)
		return nil, domain.ErrAccessDenied
	}

	s.logger.Info("Cancel: appointment id=%s by user=%s", id, session.UserID)

	reason := strings.TrimSpace(req.Reason)
	cancelledBy := session.Name
	if cancelledBy == "" {
		cancelledBy = session.UserID
	}

	var (
		result  *domain.Appointment
		from    domain.AppointmentStatus
		changed bool
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		from = a.Status

		now := s.timeProvider.Now()
		changed, err = a.Cancel(cancelledBy, reason, now)
		if err != nil {
			return err
		}
		if changed {
			if err := s.appointmentRepo.Cancel(txCtx, id, cancelledBy, a.CancellationReason, now); err != nil {
				return err
			}
		}
		result = a
		return nil
	})
	if err != nil {
		s.logRepoError("Cancel", id, err)
		return nil, err
	}

	if changed {
		s.observer.ObserveTransition(string(from), string(domain.StatusCancelled))
		s.publishChanged(result)
		s.logger.Info("Cancel: appointment id=%s cancelled by %s", id, cancelledBy)
	}

	responses, err := s.toResponses(ctx, []*domain.Appointment{result})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Delete удаляет визит (Gerente и выше)
func (s *Service) Delete(ctx context.Context, session auth.Session, id string) error {
	if !session.Role.CanDeleteAppointments() {
		s.logger.Warn("Delete: role=%s cannot delete appointments", session.Role)
		return domain.ErrAccessDenied
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		s.logRepoError("Delete", id, err)
		return err
	}

	s.logger.Info("Delete: appointment id=%s deleted by user=%s", id, session.UserID)
	return nil
}

// Conflicts пересечения позиций сотрудников за день
func (s *Service) Conflicts(ctx context.Context, session auth.Session, day time.Time) ([]models.ConflictResponse, error) {
	if !session.Role.CanViewAllEmployees() {
		return nil, domain.ErrAccessDenied
	}

	list, err := s.activeOnDay(ctx, day)
	if err != nil {
		s.logger.Error("Conflicts: repository error: %v", err)
		return nil, err
	}

	conflicts := domain.FindConflicts(list)
	s.logger.Info("Conflicts: %d conflicts on %s", len(conflicts), day.Format(domain.DateFormat))
	return models.FromDomainConflicts(conflicts), nil
}

// NextPerEmployee ближайшая позиция каждого сотрудника на сегодня
func (s *Service) NextPerEmployee(ctx context.Context, session auth.Session) ([]models.NextAppointmentResponse, error) {
	now := s.timeProvider.Now().In(s.cfg.Location)

	from, to := domain.DayRange(now, s.cfg.Location)
	filter := domain.AppointmentFilter{
		From:     &from,
		To:       &to,
		Statuses: []domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusWaiting},
	}
	if !session.Role.CanViewAllEmployees() {
		filter.EmployeeID = &session.UserID
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("NextPerEmployee: repository error: %v", err)
		return nil, err
	}
	for _, a := range list {
		s.localize(a)
	}

	employees, err := s.userRepo.List(ctx, domain.UserFilter{OnlyActive: true})
	if err != nil {
		s.logger.Error("NextPerEmployee: failed to list employees: %v", err)
		return nil, err
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	next := domain.NextAppointmentPerEmployee(list, now)
	out := make([]models.NextAppointmentResponse, 0, len(next))
	for employeeID, n := range next {
		if !session.Role.CanViewAllEmployees() && employeeID != session.UserID {
			continue
		}
		out = append(out, models.NextAppointmentResponse{
			EmployeeID:      employeeID,
			EmployeeName:    names[employeeID],
			AppointmentID:   n.AppointmentID,
			CustomerName:    n.CustomerName,
			ServiceName:     n.ServiceName,
			Start:           n.Start,
			DurationMinutes: n.DurationMinutes,
			Status:          string(n.Status),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

// WaitEvents long poll событий сотрудника. Peluquero слушает только свои события
func (s *Service) WaitEvents(ctx context.Context, session auth.Session, employeeID string, after uint64, timeout time.Duration) ([]notify.Event, error) {
	if !session.Role.CanViewAllEmployees() && employeeID != session.UserID {
		return nil, domain.ErrAccessDenied
	}

	// ждать можно только событий существующего сотрудника
	if _, err := s.userRepo.GetByID(ctx, employeeID); err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("WaitEvents: unknown employee id=%s", employeeID)
		} else {
			s.logger.Error("WaitEvents: failed to load employee id=%s: %v", employeeID, err)
		}
		return nil, err
	}

	events, err := s.notifier.Wait(ctx, employeeID, after, timeout)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []notify.Event{}
	}
	return events, nil
}

func (s *Service) activeOnDay(ctx context.Context, day time.Time) ([]*domain.Appointment, error) {
	from, to := domain.DayRange(day, s.cfg.Location)
	list, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	active := make([]*domain.Appointment, 0, len(list))
	for _, a := range list {
		s.localize(a)
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *Service) checkOverlaps(ctx context.Context, a *domain.Appointment) error {
	existing, err := s.activeOnDay(ctx, a.Date)
	if err != nil {
		return err
	}
	if conflicts := domain.ConflictsWith(a, existing); len(conflicts) > 0 {
		c := conflicts[0]
		return domain.NewConflictError("assignment", c.EmployeeID,
			fmt.Sprintf("employee is already booked from %s to %s",
				c.First.Start.Format(domain.TimeFormat), c.First.End.Format(domain.TimeFormat)))
	}
	return nil
}

func (s *Service) loadServices(ctx context.Context, ids []string) (domain.ServiceCatalog, error) {
	services, err := s.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.NewServiceCatalog(services), nil
}

func (s *Service) checkProducts(ctx context.Context, ids []string) error {
	unique := uniqueStrings(ids)
	if len(unique) == 0 {
		return nil
	}
	products, err := s.productRepo.GetByIDs(ctx, unique)
	if err != nil {
		return err
	}
	catalog := domain.NewProductCatalog(products)
	for _, id := range unique {
		if _, ok := catalog[id]; !ok {
			return domain.NewNotFoundError("product", id)
		}
	}
	return nil
}

// toResponses конвертирует визиты, подгружая текущие цены товаров одним запросом
func (s *Service) toResponses(ctx context.Context, list []*domain.Appointment) ([]models.AppointmentResponse, error) {
	var productIDs []string
	for _, a := range list {
		productIDs = append(productIDs, a.ProductIDs...)
	}

	catalog := domain.ProductCatalog{}
	if unique := uniqueStrings(productIDs); len(unique) > 0 {
		products, err := s.productRepo.GetByIDs(ctx, unique)
		if err != nil {
			s.logger.Error("toResponses: failed to load products: %v", err)
			return nil, err
		}
		catalog = domain.NewProductCatalog(products)
	}

	now := s.timeProvider.Now()
	out := make([]models.AppointmentResponse, 0, len(list))
	for _, a := range list {
		s.localize(a)
		out = append(out, models.FromDomainAppointment(a, s.cfg.WaitingWindow.DisplayStatus(a, now), catalog))
	}
	return out, nil
}

func (s *Service) localize(a *domain.Appointment) {
	a.Date = a.Date.In(s.cfg.Location)
}

func (s *Service) publishChanged(a *domain.Appointment) {
	s.publish(a, notify.EventAppointmentChanged)
}

func (s *Service) publish(a *domain.Appointment, eventType notify.EventType) {
	for _, employeeID := range domain.EmployeeIDs(a.Assignments) {
		s.notifier.Publish(notify.Event{
			Type:          eventType,
			EmployeeID:    employeeID,
			AppointmentID: a.ID,
			CustomerName:  a.CustomerName,
		})
	}
}

func (s *Service) logRepoError(op, id string, err error) {
	switch {
	case domain.IsNotFound(err):
		s.logger.Warn("%s: appointment id=%s not found", op, id)
	case domain.IsValidation(err), domain.IsConflict(err):
		s.logger.Warn("%s: appointment id=%s rejected: %v", op, id, err)
	case errors.Is(err, domain.ErrAccessDenied):
		s.logger.Warn("%s: access denied to appointment id=%s", op, id)
	default:
		s.logger.Error("%s: appointment id=%s failed: %v", op, id, err)
	}
}

func applyCustomerFields(a *domain.Appointment, req *models.UpdateAppointmentRequest) error {
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return domain.NewValidationError("customerName", "is required")
		}
		a.CustomerName = name
	}
	if req.CustomerEmail != nil {
		email := strings.TrimSpace(*req.CustomerEmail)
		if email != "" {
			if err := (&domain.Client{Name: a.CustomerName, Email: email}).Validate(); err != nil {
				return domain.NewValidationError("customerEmail", "invalid email address")
			}
		}
		a.CustomerEmail = email
	}
	if req.CustomerPhone != nil {
		a.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.Notes != nil {
		if len(*req.Notes) > domain.MaxNotesLength {
			return domain.NewValidationError("notes", "must not exceed %d characters", domain.MaxNotesLength)
		}
		notes := *req.Notes
		a.Notes = &notes
	}
	return nil
}

// collectServiceIDs все услуги, которые понадобятся для пересчета позиций
func collectServiceIDs(current []domain.Assignment, req *models.UpdateAppointmentRequest) []string {
	ids := domain.ServiceIDs(current)
	for _, in := range req.Assignments {
		ids = append(ids, in.ServiceID)
	}
	for _, op := range req.Operations {
		if op.Assignment != nil {
			ids = append(ids, op.Assignment.ServiceID)
		}
		if op.Patch != nil && op.Patch.ServiceID != nil {
			ids = append(ids, *op.Patch.ServiceID)
		}
	}
	return uniqueStrings(ids)
}

// buildAssignments новый список позиций: полная замена или последовательность операций
func buildAssignments(current []domain.Assignment, req *models.UpdateAppointmentRequest, catalog domain.ServiceCatalog) ([]domain.Assignment, error) {
	if req.Assignments != nil {
		out := make([]domain.Assignment, 0, len(req.Assignments))
		for i, in := range req.Assignments {
			as, err := inputToAssignment(i, in)
			if err != nil {
				return nil, err
			}
			out = domain.AddAssignment(out, as)
		}
		return domain.ApplyServiceDefaults(out, catalog), nil
	}

	out := current
	for i, op := range req.Operations {
		var err error
		switch op.Op {
		case models.OpAdd:
			if op.Assignment == nil {
				return nil, domain.NewValidationError(operationField(i), "assignment is required for add")
			}
			var as domain.Assignment
			as, err = inputToAssignment(len(out), *op.Assignment)
			if err != nil {
				return nil, err
			}
			out = domain.ApplyServiceDefaults(domain.AddAssignment(out, as), catalog)
		case models.OpRemove:
			out, err = domain.RemoveAssignment(out, op.Index)
		case models.OpUpdate:
			if op.Patch == nil {
				return nil, domain.NewValidationError(operationField(i), "patch is required for update")
			}
			var patch domain.AssignmentPatch
			patch, err = patchToDomain(op.Index, *op.Patch)
			if err != nil {
				return nil, err
			}
			out, err = domain.UpdateAssignment(out, op.Index, patch, catalog)
		default:
			return nil, domain.NewValidationError(operationField(i), "unknown operation %q", op.Op)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func inputToAssignment(index int, in models.AssignmentInput) (domain.Assignment, error) {
	t, err := types.NewTimeStringFromString(strings.TrimSpace(in.Time))
	if err != nil {
		return domain.Assignment{}, domain.NewValidationError(fmt.Sprintf("assignments[%d].time", index), "expected HH:MM")
	}

	as := domain.Assignment{
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		ServiceID:  strings.TrimSpace(in.ServiceID),
		Time:       t,
		ProductIDs: append([]string(nil), in.ProductIDs...),
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return domain.Assignment{}, domain.NewValidationError(fmt.Sprintf("assignments[%d].durationMinutes", index), "must be positive")
		}
		as.DurationMinutes = *in.DurationMinutes
	}
	return as, nil
}

func patchToDomain(index int, in models.AssignmentPatchInput) (domain.AssignmentPatch, error) {
	patch := domain.AssignmentPatch{
		EmployeeID:      in.EmployeeID,
		ServiceID:       in.ServiceID,
		DurationMinutes: in.DurationMinutes,
	}
	if in.Time != nil {
		t, err := types.NewTimeStringFromString(strings.TrimSpace(*in.Time))
		if err != nil {
			return patch, domain.NewValidationError(fmt.Sprintf("assignments[%d].time", index), "expected HH:MM")
		}
		patch.Time = &t
	}
	if in.ProductIDs != nil {
		patch.ProductIDs = *in.ProductIDs
		patch.SetProducts = true
	}
	return patch, nil
}

func operationField(i int) string {
	return fmt.Sprintf("operations[%d]", i)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
