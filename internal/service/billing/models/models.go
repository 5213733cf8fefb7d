package models

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/money"
)

// MaxBulkIDs ограничение на количество записей в одном массовом действии
const MaxBulkIDs = 500

// Request модели

// GroupsRequest период выборки групп. Пустые границы - последние 30 дней
type GroupsRequest struct {
	From   *time.Time
	To     *time.Time
	Status *string // completed, facturado, mixed
}

// BulkRequest массовое действие над группой: явный список ID
// или клиент и день, по которым группа собирается заново
type BulkRequest struct {
	AppointmentIDs []string `json:"appointmentIds,omitempty"`
	CustomerEmail  string   `json:"customerEmail,omitempty"`
	Date           string   `json:"date,omitempty"` // "2025-06-01"
}

// Response модели

// GroupAppointment визит внутри группы
type GroupAppointment struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	ServiceNames []string  `json:"serviceNames"`
	Services     int       `json:"services"`
}

// GroupResponse группа биллинга
type GroupResponse struct {
	Key            string             `json:"key"`
	CustomerEmail  string             `json:"customerEmail"`
	CustomerName   string             `json:"customerName"`
	CustomerPhone  string             `json:"customerPhone"`
	Day            string             `json:"day"`
	AppointmentIDs []string           `json:"appointmentIds"`
	Appointments   []GroupAppointment `json:"appointments"`
	TotalServices  int                `json:"totalServices"`
	Total          string             `json:"total"`
	Status         string             `json:"status"`
}

// GroupListResponse список групп
type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
	Total  int             `json:"total"`
}

// BulkResponse результат массового действия. Skipped - ID, которые уже были
// в целевом статусе, не существуют или не подходят по статусу
type BulkResponse struct {
	Status  string   `json:"status"`
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
}

// FromDomainGroup конвертирует группу в ответ
func FromDomainGroup(g *domain.BillingGroup) GroupResponse {
	appointments := make([]GroupAppointment, 0, len(g.Appointments))
	for _, a := range g.Appointments {
		names := a.ServiceNames
		if names == nil {
			names = []string{}
		}
		appointments = append(appointments, GroupAppointment{
			ID:           a.ID,
			Date:         a.Date,
			Status:       string(a.Status),
			ServiceNames: names,
			Services:     len(a.Assignments),
		})
	}

	return GroupResponse{
		Key:            g.Key,
		CustomerEmail:  g.CustomerEmail,
		CustomerName:   g.CustomerName,
		CustomerPhone:  g.CustomerPhone,
		Day:            g.Day.Format(domain.DateFormat),
		AppointmentIDs: g.AppointmentIDs,
		Appointments:   appointments,
		TotalServices:  g.TotalServices,
		Total:          money.Format(g.TotalMinor),
		Status:         string(g.Status),
	}
}
