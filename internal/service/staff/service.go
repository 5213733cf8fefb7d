package staff

import (
	"context"
	"net/mail"
	"strings"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/service/staff/models"
)

// Service сервис сотрудников и входа в систему
type Service struct {
	userRepo UserRepository
	issuer   TokenIssuer
	logger   Logger
}

// NewService создает новый экземпляр сервиса сотрудников
func NewService(userRepo UserRepository, issuer TokenIssuer, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger,
	}
}

// Login проверяет пароль и выпускает токен.
// Неизвестный email, неверный пароль и неактивная учетка неразличимы для клиента
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.NewValidationError("email", "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("Login: unknown email=%s", email)
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error for email=%s: %v", email, err)
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn("Login: wrong password for user=%s", user.ID)
		return nil, err
	}
	if !user.IsActive {
		s.logger.Warn("Login: inactive user=%s", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("Login: failed to issue token for user=%s: %v", user.ID, err)
		return nil, err
	}

	s.logger.Info("Login: user=%s role=%s signed in", user.ID, user.Role)
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *models.FromDomainUser(user)}, nil
}

// List список сотрудников. Доступен всем сотрудникам, нужен для выбора исполнителя
func (s *Service) List(ctx context.Context, session auth.Session, req *models.ListRequest) (*models.UserListResponse, error) {
	filter := domain.UserFilter{OnlyActive: req.OnlyActive}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = &role
	}
	if !session.Role.CanManageUsers() {
		filter.OnlyActive = true
	}

	list, err := s.userRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, err
	}
	return models.FromDomainUserList(list), nil
}

// Get получает сотрудника. Свою учетку видит каждый, чужие - Gerente и выше
func (s *Service) Get(ctx context.Context, session auth.Session, id string) (*models.UserResponse, error) {
	if id != session.UserID && !session.Role.CanManageUsers() {
		s.logger.Warn("Get: user=%s cannot view user=%s", session.UserID, id)
		return nil, domain.ErrAccessDenied
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("Get", id, err)
		return nil, err
	}
	return models.FromDomainUser(u), nil
}

// Create создает сотрудника. Gerente не может создать Superadmin
func (s *Service) Create(ctx context.Context, session auth.Session, req *models.CreateUserRequest) (*models.UserResponse, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if !session.Role.CanManageUser(role) {
		s.logger.Warn("Create: user=%s role=%s cannot create role=%s", session.UserID, session.Role, role)
		return nil, domain.ErrAccessDenied
	}

	user := &domain.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    domain.NormalizeEmail(req.Email),
		Role:     role,
		IsActive: true,
	}
	if err := validateUser(user); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	user.PasswordHash, err = auth.HashPassword(req.Password)
	if err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error("Create: failed to hash password: %v", err)
		}
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		s.logError("Create", user.Email, err)
		return nil, err
	}

	s.logger.Info("Create: created user id=%s role=%s by user=%s", created.ID, created.Role, session.UserID)
	return models.FromDomainUser(created), nil
}

// Update частично обновляет сотрудника
func (s *Service) Update(ctx context.Context, session auth.Session, id string, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("Update", id, err)
		return nil, err
	}
	if !session.Role.CanManageUser(user.Role) {
		s.logger.Warn("Update: user=%s role=%s cannot manage user=%s", session.UserID, session.Role, id)
		return nil, domain.ErrAccessDenied
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		if !session.Role.CanManageUser(role) {
			s.logger.Warn("Update: user=%s cannot grant role=%s", session.UserID, role)
			return nil, domain.ErrAccessDenied
		}
		if id == session.UserID && role != user.Role {
			return nil, domain.NewValidationError("role", "cannot change own role")
		}
		user.Role = role
	}
	if req.IsActive != nil {
		if id == session.UserID && !*req.IsActive {
			return nil, domain.NewValidationError("isActive", "cannot deactivate own account")
		}
		user.IsActive = *req.IsActive
	}

	if err := validateUser(user); err != nil {
		s.logger.Warn("Update: validation failed for id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		s.logError("Update", id, err)
		return nil, err
	}

	s.logger.Info("Update: updated user id=%s by user=%s", id, session.UserID)
	return models.FromDomainUser(updated), nil
}

// ChangePassword свой пароль меняется с подтверждением текущего, чужой сбрасывает Gerente и выше
func (s *Service) ChangePassword(ctx context.Context, session auth.Session, id string, req *models.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("ChangePassword", id, err)
		return err
	}

	if id == session.UserID {
		if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
			s.logger.Warn("ChangePassword: wrong current password for user=%s", id)
			return domain.NewValidationError("currentPassword", "does not match")
		}
	} else if !session.Role.CanManageUser(user.Role) {
		s.logger.Warn("ChangePassword: user=%s cannot manage user=%s", session.UserID, id)
		return domain.ErrAccessDenied
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		s.logError("ChangePassword", id, err)
		return err
	}

	s.logger.Info("ChangePassword: password changed for user=%s by user=%s", id, session.UserID)
	return nil
}

// Delete удаляет сотрудника. Свою учетку удалить нельзя
func (s *Service) Delete(ctx context.Context, session auth.Session, id string) error {
	if id == session.UserID {
		return domain.NewValidationError("id", "cannot delete own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logError("Delete", id, err)
		return err
	}
	if !session.Role.CanManageUser(user.Role) {
		s.logger.Warn("Delete: user=%s role=%s cannot manage user=%s", session.UserID, session.Role, id)
		return domain.ErrAccessDenied
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		s.logError("Delete", id, err)
		return err
	}

	s.logger.Info("Delete: deleted user id=%s by user=%s", id, session.UserID)
	return nil
}

func validateUser(u *domain.User) error {
	if u.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if u.Email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return domain.NewValidationError("email", "invalid email address")
	}
	if !u.Role.IsValid() {
		return domain.NewValidationError("role", "unknown role %q", u.Role)
	}
	return nil
}

func (s *Service) logError(op, key string, err error) {
	switch {
	case domain.IsNotFound(err):
		s.logger.Warn("%s: user %s not found", op, key)
	case domain.IsConflict(err):
		s.logger.Warn("%s: conflict for user %s: %v", op, key, err)
	default:
		s.logger.Error("%s: repository error for user %s: %v", op, key, err)
	}
}

// EnsureSuperadmin создает первого superadmin, если в базе нет ни одного сотрудника.
// Возвращает true, если учетная запись была создана
func (s *Service) EnsureSuperadmin(ctx context.Context, name, email, password string) (bool, error) {
	existing, err := s.userRepo.List(ctx, domain.UserFilter{})
	if err != nil {
		s.logger.Error("EnsureSuperadmin: failed to list users: %v", err)
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	user := &domain.User{
		Name:     strings.TrimSpace(name),
		Email:    domain.NormalizeEmail(email),
		Role:     domain.RoleSuperadmin,
		IsActive: true,
	}
	if err := validateUser(user); err != nil {
		return false, err
	}
	if user.PasswordHash, err = auth.HashPassword(password); err != nil {
		return false, err
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		s.logError("EnsureSuperadmin", user.Email, err)
		return false, err
	}

	s.logger.Info("EnsureSuperadmin: created initial superadmin id=%s", created.ID)
	return true, nil
}
