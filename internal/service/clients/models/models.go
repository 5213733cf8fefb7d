package models

import (
	"strings"
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// ClientRequest создание клиента
type ClientRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postalCode"`
	DNI         string `json:"dni"`
	CUIT        string `json:"cuit"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// ClientUpdateRequest частичное обновление клиента
type ClientUpdateRequest struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	MobilePhone *string `json:"mobilePhone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Province    *string `json:"province,omitempty"`
	PostalCode  *string `json:"postalCode,omitempty"`
	DNI         *string `json:"dni,omitempty"`
	CUIT        *string `json:"cuit,omitempty"`
	Category    *string `json:"category,omitempty"`
	Subcategory *string `json:"subcategory,omitempty"`
	Inactive    *bool   `json:"inactive,omitempty"`
}

// ListRequest параметры поиска
type ListRequest struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ClientResponse модель ответа с клиентом
type ClientResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	MobilePhone string    `json:"mobilePhone,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	Province    string    `json:"province,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	DNI         string    `json:"dni,omitempty"`
	CUIT        string    `json:"cuit,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Inactive    bool      `json:"inactive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ClientListResponse список клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}

// ToDomain конвертирует запрос в доменную модель
func (r *ClientRequest) ToDomain() *domain.Client {
	return &domain.Client{
		Code:        strings.TrimSpace(r.Code),
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		MobilePhone: strings.TrimSpace(r.MobilePhone),
		Address:     r.Address,
		City:        r.City,
		Province:    r.Province,
		PostalCode:  r.PostalCode,
		DNI:         r.DNI,
		CUIT:        r.CUIT,
		Category:    r.Category,
		Subcategory: r.Subcategory,
	}
}

// Apply применяет заданные поля к клиенту
func (r *ClientUpdateRequest) Apply(c *domain.Client) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&c.Code, r.Code)
	set(&c.Name, r.Name)
	set(&c.Email, r.Email)
	set(&c.MobilePhone, r.MobilePhone)
	set(&c.Address, r.Address)
	set(&c.City, r.City)
	set(&c.Province, r.Province)
	set(&c.PostalCode, r.PostalCode)
	set(&c.DNI, r.DNI)
	set(&c.CUIT, r.CUIT)
	set(&c.Category, r.Category)
	set(&c.Subcategory, r.Subcategory)
	if r.Inactive != nil {
		c.Inactive = *r.Inactive
	}
}

// ToDomainFilter конвертирует параметры поиска в фильтр
func (r *ListRequest) ToDomainFilter() domain.ClientFilter {
	limit := r.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	offset := r.Offset
	if offset < 0 {
		offset = 0
	}
	return domain.ClientFilter{
		Search:          strings.TrimSpace(r.Search),
		IncludeInactive: r.IncludeInactive,
		Limit:           limit,
		Offset:          offset,
	}
}

// FromDomainClient конвертирует клиента в модель ответа
func FromDomainClient(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Email:       c.Email,
		MobilePhone: c.MobilePhone,
		Address:     c.Address,
		City:        c.City,
		Province:    c.Province,
		PostalCode:  c.PostalCode,
		DNI:         c.DNI,
		CUIT:        c.CUIT,
		Category:    c.Category,
		Subcategory: c.Subcategory,
		Inactive:    c.Inactive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromDomainClientList конвертирует список клиентов
func FromDomainClientList(list []*domain.Client) *ClientListResponse {
	out := make([]ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *FromDomainClient(c))
	}
	return &ClientListResponse{Clients: out, Total: len(out)}
}
