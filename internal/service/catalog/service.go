package catalog

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/catalog/models"
)

// Service сервис каталога услуг и товаров
type Service struct {
	serviceRepo ServiceRepository
	productRepo ProductRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, productRepo ProductRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// ListServices список услуг. Публичный метод - нужен форме онлайн-записи
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	list, err := s.serviceRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, err
	}
	return models.FromDomainServiceList(list), nil
}

// GetService получает услугу по ID
func (s *Service) GetService(ctx context.Context, id string) (*models.ServiceResponse, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("GetService", id, err)
		return nil, err
	}
	return models.FromDomainService(svc), nil
}

// CreateService создает услугу
// Доступно Gerente и выше
func (s *Service) CreateService(ctx context.Context, session auth.Session, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	if err := s.checkAccess("CreateService", session); err != nil {
		return nil, err
	}

	svc := req.ToDomain()
	if err := svc.Validate(); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logError("CreateService", svc.Code, err)
		return nil, err
	}

	s.logger.Info("CreateService: created service id=%s code=%s by user=%s", created.ID, created.Code, session.UserID)
	return models.FromDomainService(created), nil
}

// UpdateService частично обновляет услугу. Снимки цен в существующих записях не меняются
func (s *Service) UpdateService(ctx context.Context, session auth.Session, id string, req *models.ServiceUpdateRequest) (*models.ServiceResponse, error) {
	if err := s.checkAccess("UpdateService", session); err != nil {
		return nil, err
	}

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("UpdateService", id, err)
		return nil, err
	}

	req.Apply(svc)
	if err := svc.Validate(); err != nil {
		s.logger.Warn("UpdateService: validation failed for id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, svc)
	if err != nil {
		s.logError("UpdateService", id, err)
		return nil, err
	}

	s.logger.Info("UpdateService: updated service id=%s by user=%s", id, session.UserID)
	return models.FromDomainService(updated), nil
}

// DeleteService удаляет услугу
func (s *Service) DeleteService(ctx context.Context, session auth.Session, id string) error {
	if err := s.checkAccess("DeleteService", session); err != nil {
		return err
	}

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		s.logError("DeleteService", id, err)
		return err
	}

	s.logger.Info("DeleteService: deleted service id=%s by user=%s", id, session.UserID)
	return nil
}

// ListProducts список товаров
func (s *Service) ListProducts(ctx context.Context) (*models.ProductListResponse, error) {
	list, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListProducts: repository error: %v", err)
		return nil, err
	}
	return models.FromDomainProductList(list), nil
}

// GetProduct получает товар по ID
func (s *Service) GetProduct(ctx context.Context, id string) (*models.ProductResponse, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("GetProduct", id, err)
		return nil, err
	}
	return models.FromDomainProduct(p), nil
}

// CreateProduct создает товар
func (s *Service) CreateProduct(ctx context.Context, session auth.Session, req *models.ProductRequest) (*models.ProductResponse, error) {
	if err := s.checkAccess("CreateProduct", session); err != nil {
		return nil, err
	}

	p := req.ToDomain()
	if err := p.Validate(); err != nil {
		s.logger.Warn("CreateProduct: validation failed: %v", err)
		return nil, err
	}

	created, err := s.productRepo.Create(ctx, p)
	if err != nil {
		s.logError("CreateProduct", p.Code, err)
		return nil, err
	}

	s.logger.Info("CreateProduct: created product id=%s code=%s by user=%s", created.ID, created.Code, session.UserID)
	return models.FromDomainProduct(created), nil
}

// UpdateProduct частично обновляет товар
func (s *Service) UpdateProduct(ctx context.Context, session auth.Session, id string, req *models.ProductUpdateRequest) (*models.ProductResponse, error) {
	if err := s.checkAccess("UpdateProduct", session); err != nil {
		return nil, err
	}

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("UpdateProduct", id, err)
		return nil, err
	}

	req.Apply(p)
	if err := p.Validate(); err != nil {
		s.logger.Warn("UpdateProduct: validation failed for id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.productRepo.Update(ctx, p)
	if err != nil {
		s.logError("UpdateProduct", id, err)
		return nil, err
	}

	s.logger.Info("UpdateProduct: updated product id=%s by user=%s", id, session.UserID)
	return models.FromDomainProduct(updated), nil
}

// DeleteProduct удаляет товар
func (s *Service) DeleteProduct(ctx context.Context, session auth.Session, id string) error {
	if err := s.checkAccess("DeleteProduct", session); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logError("DeleteProduct", id, err)
		return err
	}

	s.logger.Info("DeleteProduct: deleted product id=%s by user=%s", id, session.UserID)
	return nil
}

func (s *Service) checkAccess(op string, session auth.Session) error {
	if !session.Role.CanManageCatalog() {
		s.logger.Warn("%s: user=%s role=%s cannot manage catalog", op, session.UserID, session.Role)
		return domain.ErrAccessDenied
	}
	return nil
}

func (s *Service) logError(op, id string, err error) {
	switch {
	case domain.IsNotFound(err):
		s.logger.Warn("%s: id=%s not found", op, id)
	case domain.IsConflict(err):
		s.logger.Warn("%s: conflict for id=%s: %v", op, id, err)
	default:
		s.logger.Error("%s: repository error for id=%s: %v", op, id, err)
	}
}
