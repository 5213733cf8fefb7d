package agenda

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/notify"
	"github.com/facumancuso/alessi-sub000/internal/service/appointments/models"
	getAgenda "github.com/facumancuso/alessi-sub000/internal/usecase/get_agenda"
)

// AgendaResponse HTTP response model
type AgendaResponse struct {
	Date            string           `json:"date"`
	IntervalMinutes int              `json:"intervalMinutes"`
	PixelsPerMinute float64          `json:"pixelsPerMinute"`
	Rows            []string         `json:"rows"`
	Columns         []ColumnResponse `json:"columns"`
}

// ColumnResponse колонка сотрудника
type ColumnResponse struct {
	EmployeeID   string          `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	Blocks       []BlockResponse `json:"blocks"`
}

// BlockResponse блок визита на сетке
type BlockResponse struct {
	AppointmentID   string  `json:"appointmentId"`
	AssignmentIndex int     `json:"assignmentIndex"`
	CustomerName    string  `json:"customerName"`
	ServiceID       string  `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"durationMinutes"`
	Top             float64 `json:"top"`
	Height          float64 `json:"height"`
	Status          string  `json:"status"`
	DisplayStatus   string  `json:"displayStatus"`
}

// ConflictListResponse пересечения за день
type ConflictListResponse struct {
	Date      string      `json:"date"`
	Conflicts []models.ConflictResponse `json:"conflicts"`
	Total     int         `json:"total"`
}

// EventResponse событие для дашборда сотрудника
type EventResponse struct {
	Seq           uint64    `json:"seq"`
	Type          string    `json:"type"`
	EmployeeID    string    `json:"employeeId"`
	AppointmentID string    `json:"appointmentId"`
	CustomerName  string    `json:"customerName,omitempty"`
	At            time.Time `json:"at"`
}

// EventListResponse ответ long poll. Last - seq для следующего запроса
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Last   uint64          `json:"last"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAgenda.Response) *AgendaResponse {
	rows := make([]string, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, r.String())
	}

	columns := make([]ColumnResponse, 0, len(resp.Columns))
	for _, c := range resp.Columns {
		blocks := make([]BlockResponse, 0, len(c.Blocks))
		for _, b := range c.Blocks {
			blocks = append(blocks, BlockResponse{
				AppointmentID:   b.AppointmentID,
				AssignmentIndex: b.AssignmentIndex,
				CustomerName:    b.CustomerName,
				ServiceID:       b.ServiceID,
				ServiceName:     b.ServiceName,
				Time:            b.Time.String(),
				DurationMinutes: b.DurationMinutes,
				Top:             b.Top,
				Height:          b.Height,
				Status:          string(b.Status),
				DisplayStatus:   string(b.DisplayStatus),
			})
		}
		columns = append(columns, ColumnResponse{EmployeeID: c.EmployeeID, EmployeeName: c.EmployeeName, Blocks: blocks})
	}

	return &AgendaResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		IntervalMinutes: resp.IntervalMinutes,
		PixelsPerMinute: resp.PixelsPerMinute,
		Rows:            rows,
		Columns:         columns,
	}
}

func fromEvents(events []notify.Event, after uint64) *EventListResponse {
	out := &EventListResponse{Events: make([]EventResponse, 0, len(events)), Last: after}
	for _, ev := range events {
		out.Events = append(out.Events, EventResponse{
			Seq:           ev.Seq,
			Type:          string(ev.Type),
			EmployeeID:    ev.EmployeeID,
			AppointmentID: ev.AppointmentID,
			CustomerName:  ev.CustomerName,
			At:            ev.At,
		})
		if ev.Seq > out.Last {
			out.Last = ev.Seq
		}
	}
	return out
}
