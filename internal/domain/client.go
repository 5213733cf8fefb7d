package domain

import (
	"net/mail"
	"time"
)

// Client клиент салона. Email - мягко-уникальный натуральный ключ
type Client struct {
	ID          string
	Code        string
	Name        string
	Email       string
	MobilePhone string

	Address    string
	City       string
	Province   string
	PostalCode string

	DNI  string
	CUIT string

	Category    string
	Subcategory string

	Inactive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет обязательные поля клиента
func (c *Client) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return NewValidationError("email", "invalid email address")
		}
	}
	return nil
}

// ClientFilter поиск клиентов по подстроке в имени, email, телефоне или коде
type ClientFilter struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}
