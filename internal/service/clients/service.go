package clients

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/clients/models"
)

// Service сервис клиентов салона
// Все методы доступны Recepcion и выше
type Service struct {
	clientRepo ClientRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{clientRepo: clientRepo, logger: logger}
}

// List поиск по подстроке в имени, email, телефоне или коде
func (s *Service) List(ctx context.Context, session auth.Session, req *models.ListRequest) (*models.ClientListResponse, error) {
	if err := s.checkAccess("List", session); err != nil {
		return nil, err
	}

	list, err := s.clientRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, err
	}

	s.logger.Info("List: found %d clients for search=%q", len(list), req.Search)
	return models.FromDomainClientList(list), nil
}

// Get получает клиента по ID
func (s *Service) Get(ctx context.Context, session auth.Session, id string) (*models.ClientResponse, error) {
	if err := s.checkAccess("Get", session); err != nil {
		return nil, err
	}

	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("Get", id, err)
		return nil, err
	}
	return models.FromDomainClient(c), nil
}

// Create создает клиента. Email уникален без учета регистра
func (s *Service) Create(ctx context.Context, session auth.Session, req *models.ClientRequest) (*models.ClientResponse, error) {
	if err := s.checkAccess("Create", session); err != nil {
		return nil, err
	}

	c := req.ToDomain()
	if err := c.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.clientRepo.Create(ctx, c)
	if err != nil {
		s.logError("Create", c.Email, err)
		return nil, err
	}

	s.logger.Info("Create: created client id=%s by user=%s", created.ID, session.UserID)
	return models.FromDomainClient(created), nil
}

// Update частично обновляет клиента
func (s *Service) Update(ctx context.Context, session auth.Session, id string, req *models.ClientUpdateRequest) (*models.ClientResponse, error) {
	if err := s.checkAccess("Update", session); err != nil {
		return nil, err
	}

	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("Update", id, err)
		return nil, err
	}

	req.Apply(c)
	if err := c.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.clientRepo.Update(ctx, c)
	if err != nil {
		s.logError("Update", id, err)
		return nil, err
	}

	s.logger.Info("Update: updated client id=%s by user=%s", id, session.UserID)
	return models.FromDomainClient(updated), nil
}

// Delete удаляет клиента. Записи сохраняют имя и контакты клиента
func (s *Service) Delete(ctx context.Context, session auth.Session, id string) error {
	if err := s.checkAccess("Delete", session); err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		s.logError("Delete", id, err)
		return err
	}

	s.logger.Info("Delete: deleted client id=%s by user=%s", id, session.UserID)
	return nil
}

func (s *Service) checkAccess(op string, session auth.Session) error {
	if !session.Role.CanManageClients() {
		s.logger.Warn("%s: user=%s role=%s cannot manage clients", op, session.UserID, session.Role)
		return domain.ErrAccessDenied
	}
	return nil
}

func (s *Service) logError(op, key string, err error) {
	switch {
	case domain.IsNotFound(err):
		s.logger.Warn("%s: client %s not found", op, key)
	case domain.IsConflict(err):
		s.logger.Warn("%s: conflict for client %s: %v", op, key, err)
	default:
		s.logger.Error("%s: repository error for client %s: %v", op, key, err)
	}
}
