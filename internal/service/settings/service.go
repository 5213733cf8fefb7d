package settings

import (
	"context"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/settings/models"
)

// Service сервис настроек салона
type Service struct {
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{settingsRepo: settingsRepo, logger: logger}
}

// Get текущие настройки. Если они еще не сохранялись - значения по умолчанию
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Get: repository error: %v", err)
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки
// Доступно Gerente и выше
func (s *Service) Update(ctx context.Context, session auth.Session, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	if !session.Role.CanManageSettings() {
		s.logger.Warn("Update: user=%s role=%s cannot manage settings", session.UserID, session.Role)
		return nil, domain.ErrAccessDenied
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Update: failed to load settings: %v", err)
		return nil, err
	}

	req.Apply(settings)
	if err := settings.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.settingsRepo.Save(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, err
	}

	s.logger.Info("Update: settings saved by user=%s, booking_closing_hours=%d", session.UserID, saved.BookingClosingHours)
	return models.FromDomainSettings(saved), nil
}
