package billing

import (
	"context"
	"strings"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/billing/models"
)

// Действия биллинга для метрик
const (
	ActionBill   = "bill"
	ActionRevert = "revert"
)

// defaultPeriod период групп, если границы не заданы
const defaultPeriod = 30 * 24 * time.Hour

// Service сервис группировки и массового выставления счетов
type Service struct {
	appointmentRepo AppointmentRepository
	productRepo     ProductRepository
	observer        BillingObserver
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
	location        *time.Location
}

// NewService создает новый экземпляр сервиса биллинга
func NewService(
	appointmentRepo AppointmentRepository,
	productRepo ProductRepository,
	observer BillingObserver,
	txManager TransactionManager,
	logger Logger,
	location *time.Location,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		productRepo:     productRepo,
		observer:        observer,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		location:        location,
	}
}

// Groups группы (клиент, день) по завершенным и выставленным визитам периода
func (s *Service) Groups(ctx context.Context, session auth.Session, req *models.GroupsRequest) (*models.GroupListResponse, error) {
	if !session.Role.CanBill() {
		s.logger.Warn("Groups: role=%s cannot view billing", session.Role)
		return nil, domain.ErrAccessDenied
	}

	from, to, err := s.period(req)
	if err != nil {
		return nil, err
	}

	var statusFilter *domain.BillingGroupStatus
	if req.Status != nil && *req.Status != "" {
		st := domain.BillingGroupStatus(*req.Status)
		switch st {
		case domain.GroupPending, domain.GroupBilled, domain.GroupMixed:
			statusFilter = &st
		default:
			return nil, domain.NewValidationError("status", "must be one of completed, facturado, mixed")
		}
	}

	s.logger.Info("Groups: period=%s to %s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		From:     &from,
		To:       &to,
		Statuses: domain.BillableStatuses,
	})
	if err != nil {
		s.logger.Error("Groups: repository error: %v", err)
		return nil, err
	}
	for _, a := range list {
		a.Date = a.Date.In(s.location)
	}

	products, err := s.loadProducts(ctx, list)
	if err != nil {
		s.logger.Error("Groups: failed to load products: %v", err)
		return nil, err
	}

	groups := domain.GroupForBilling(list, s.location)
	out := make([]models.GroupResponse, 0, len(groups))
	for _, g := range groups {
		if statusFilter != nil && g.Status != *statusFilter {
			continue
		}
		g.ApplyTotals(products)
		out = append(out, models.FromDomainGroup(g))
	}

	s.logger.Info("Groups: %d groups from %d appointments", len(out), len(list))
	return &models.GroupListResponse{Groups: out, Total: len(out)}, nil
}

// Bill переводит визиты группы completed -> facturado одной транзакцией.
// Повтор с тем же списком ничего не меняет
func (s *Service) Bill(ctx context.Context, session auth.Session, req *models.BulkRequest) (*models.BulkResponse, error) {
	return s.transition(ctx, session, req, ActionBill, domain.StatusCompleted, domain.StatusBilled)
}

// Revert возвращает визиты группы facturado -> completed
func (s *Service) Revert(ctx context.Context, session auth.Session, req *models.BulkRequest) (*models.BulkResponse, error) {
	return s.transition(ctx, session, req, ActionRevert, domain.StatusBilled, domain.StatusCompleted)
}

func (s *Service) transition(
	ctx context.Context,
	session auth.Session,
	req *models.BulkRequest,
	action string,
	from, to domain.AppointmentStatus,
) (*models.BulkResponse, error) {
	if !session.Role.CanBill() {
		s.logger.Warn("%s: role=%s cannot bill", action, session.Role)
		return nil, domain.ErrAccessDenied
	}

	var updated, ids []string
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		ids, err = s.resolveIDs(txCtx, req)
		if err != nil {
			return err
		}
		updated, err = s.appointmentRepo.TransitionMany(txCtx, ids, from, to)
		return err
	})
	if err != nil {
		if domain.IsValidation(err) {
			s.logger.Warn("%s: invalid request: %v", action, err)
		} else {
			s.logger.Error("%s: failed: %v", action, err)
		}
		return nil, err
	}

	s.observer.ObserveBilling(action)
	for range updated {
		s.observer.ObserveTransition(string(from), string(to))
	}

	s.logger.Info("%s: %d of %d appointments moved %s -> %s by user=%s",
		action, len(updated), len(ids), from, to, session.UserID)

	return &models.BulkResponse{
		Status:  string(to),
		Updated: updated,
		Skipped: difference(ids, updated),
	}, nil
}

// resolveIDs список ID из запроса либо состав группы (email, день)
func (s *Service) resolveIDs(ctx context.Context, req *models.BulkRequest) ([]string, error) {
	if len(req.AppointmentIDs) > 0 {
		ids := unique(req.AppointmentIDs)
		if len(ids) > models.MaxBulkIDs {
			return nil, domain.NewValidationError("appointmentIds", "at most %d appointments per request", models.MaxBulkIDs)
		}
		return ids, nil
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" || req.Date == "" {
		return nil, domain.NewValidationError("appointmentIds", "appointment ids or customer email and date are required")
	}
	day, err := time.ParseInLocation(domain.DateFormat, req.Date, s.location)
	if err != nil {
		return nil, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}

	from, to := domain.DayRange(day, s.location)
	list, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		From:          &from,
		To:            &to,
		Statuses:      domain.BillableStatuses,
		CustomerEmail: &email,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (s *Service) period(req *models.GroupsRequest) (time.Time, time.Time, error) {
	now := s.timeProvider.Now().In(s.location)

	to := domain.StartOfDay(now, s.location).AddDate(0, 0, 1)
	if req.To != nil {
		to = *req.To
	}
	from := to.Add(-defaultPeriod)
	if req.From != nil {
		from = *req.From
	}

	if !from.Before(to) {
		return from, to, domain.NewValidationError("to", "must be after from")
	}
	return from, to, nil
}

func (s *Service) loadProducts(ctx context.Context, list []*domain.Appointment) (domain.ProductCatalog, error) {
	var ids []string
	for _, a := range list {
		ids = append(ids, a.ProductIDs...)
	}
	ids = unique(ids)
	if len(ids) == 0 {
		return domain.ProductCatalog{}, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.NewProductCatalog(products), nil
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
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

func difference(all, updated []string) []string {
	done := make(map[string]struct{}, len(updated))
	for _, id := range updated {
		done[id] = struct{}{}
	}
	out := make([]string, 0)
	for _, id := range all {
		if _, ok := done[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
