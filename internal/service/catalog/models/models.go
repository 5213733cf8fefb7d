package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/money"
)

// ServiceRequest создание услуги. Цена в отображаемых единицах ("50.00")
type ServiceRequest struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// ServiceUpdateRequest частичное обновление услуги
type ServiceUpdateRequest struct {
	Code            *string          `json:"code,omitempty"`
	Name            *string          `json:"name,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
}

// ProductRequest создание товара
type ProductRequest struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductUpdateRequest частичное обновление товара
type ProductUpdateRequest struct {
	Code  *string          `json:"code,omitempty"`
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// ServiceResponse модель ответа с услугой
type ServiceResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           string    `json:"price"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProductResponse модель ответа с товаром
type ProductResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

// ProductListResponse список товаров
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// ToDomain конвертирует запрос в доменную модель
func (r *ServiceRequest) ToDomain() *domain.Service {
	return &domain.Service{
		Code:            strings.TrimSpace(r.Code),
		Name:            strings.TrimSpace(r.Name),
		DurationMinutes: r.DurationMinutes,
		PriceMinorUnits: money.ToMinor(r.Price),
	}
}

// Apply применяет заданные поля к услуге
func (r *ServiceUpdateRequest) Apply(s *domain.Service) {
	if r.Code != nil {
		s.Code = strings.TrimSpace(*r.Code)
	}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		s.PriceMinorUnits = money.ToMinor(*r.Price)
	}
}

// ToDomain конвертирует запрос в доменную модель
func (r *ProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		Code:            strings.TrimSpace(r.Code),
		Name:            strings.TrimSpace(r.Name),
		PriceMinorUnits: money.ToMinor(r.Price),
	}
}

// Apply применяет заданные поля к товару
func (r *ProductUpdateRequest) Apply(p *domain.Product) {
	if r.Code != nil {
		p.Code = strings.TrimSpace(*r.Code)
	}
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Price != nil {
		p.PriceMinorUnits = money.ToMinor(*r.Price)
	}
}

// FromDomainService конвертирует услугу в модель ответа
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Code:            s.Code,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           money.Format(s.PriceMinorUnits),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainProduct конвертирует товар в модель ответа
func FromDomainProduct(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Price:     money.Format(p.PriceMinorUnits),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(list []*domain.Service) *ServiceListResponse {
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *FromDomainService(s))
	}
	return &ServiceListResponse{Services: out, Total: len(out)}
}

// FromDomainProductList конвертирует список товаров
func FromDomainProductList(list []*domain.Product) *ProductListResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *FromDomainProduct(p))
	}
	return &ProductListResponse{Products: out, Total: len(out)}
}
