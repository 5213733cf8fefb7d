package models

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// LoginRequest вход по email и паролю
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse подписанный токен сессии
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest создание сотрудника
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest частичное обновление сотрудника
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// ChangePasswordRequest смена пароля. CurrentPassword обязателен при смене своего пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ListRequest фильтр списка сотрудников
type ListRequest struct {
	Role       string
	OnlyActive bool
}

// UserResponse модель ответа с сотрудником. Хеш пароля не отдается
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserListResponse список сотрудников
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// FromDomainUser конвертирует сотрудника в модель ответа
func FromDomainUser(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromDomainUserList конвертирует список сотрудников
func FromDomainUserList(list []*domain.User) *UserListResponse {
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *FromDomainUser(u))
	}
	return &UserListResponse{Users: out, Total: len(out)}
}
