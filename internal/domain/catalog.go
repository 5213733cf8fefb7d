package domain

import "time"

// Service услуга салона. Цена в центах
type Service struct {
	ID              string
	Code            string
	Name            string
	DurationMinutes int
	PriceMinorUnits int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Product товар, продаваемый во время визита. Цена в центах
type Product struct {
	ID              string
	Code            string
	Name            string
	PriceMinorUnits int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceCatalog услуги по ID
type ServiceCatalog map[string]Service

// ProductCatalog товары по ID
type ProductCatalog map[string]Product

func NewServiceCatalog(services []*Service) ServiceCatalog {
	catalog := make(ServiceCatalog, len(services))
	for _, s := range services {
		if s != nil {
			catalog[s.ID] = *s
		}
	}
	return catalog
}

func NewProductCatalog(products []*Product) ProductCatalog {
	catalog := make(ProductCatalog, len(products))
	for _, p := range products {
		if p != nil {
			catalog[p.ID] = *p
		}
	}
	return catalog
}

// Validate проверяет поля услуги
func (s *Service) Validate() error {
	if s.Code == "" {
		return NewValidationError("code", "is required")
	}
	if s.Name == "" {
		return NewValidationError("name", "is required")
	}
	if s.DurationMinutes <= 0 || s.DurationMinutes > MaxAssignmentDurationMinutes {
		return NewValidationError("durationMinutes", "must be between 1 and %d", MaxAssignmentDurationMinutes)
	}
	if s.PriceMinorUnits < 0 {
		return NewValidationError("priceMinorUnits", "must not be negative")
	}
	return nil
}

// Validate проверяет поля товара
func (p *Product) Validate() error {
	if p.Code == "" {
		return NewValidationError("code", "is required")
	}
	if p.Name == "" {
		return NewValidationError("name", "is required")
	}
	if p.PriceMinorUnits < 0 {
		return NewValidationError("priceMinorUnits", "must not be negative")
	}
	return nil
}
