package get_agenda

import (
	"time"

	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// Config параметры сетки и окна ожидания
type Config struct {
	Location      *time.Location
	Options       domain.AgendaOptions
	WaitingWindow domain.WaitingWindow
}

// Request модель запроса агенды на день
type Request struct {
	Session         auth.Session
	Date            time.Time // день (без времени)
	IntervalMinutes *int      // переопределяет шаг сетки из конфигурации
}

// Response модель ответа с сеткой дня
type Response struct {
	Date            time.Time
	IntervalMinutes int
	PixelsPerMinute float64
	Rows            []types.TimeString // строки времени ("08:00", "08:15", ...)
	Columns         []Column           // колонки сотрудников в порядке имени
}

// Column колонка сотрудника
type Column struct {
	EmployeeID   string
	EmployeeName string
	Blocks       []Block
}

// Block позиция визита, уже размещенная на сетке
type Block struct {
	AppointmentID   string
	AssignmentIndex int
	CustomerName    string
	ServiceID       string
	ServiceName     string
	Time            types.TimeString
	DurationMinutes int
	Top             float64 // отступ сверху в пикселях
	Height          float64 // высота в пикселях
	Status          domain.AppointmentStatus
	DisplayStatus   domain.AppointmentStatus
}

func fromDomain(a *domain.Agenda) *Response {
	resp := &Response{
		Date:            a.Date,
		IntervalMinutes: a.Options.IntervalMinutes,
		PixelsPerMinute: a.Options.PixelsPerMinute,
		Rows:            a.Rows,
		Columns:         make([]Column, 0, len(a.Columns)),
	}
	for _, c := range a.Columns {
		col := Column{EmployeeID: c.EmployeeID, EmployeeName: c.EmployeeName, Blocks: make([]Block, 0, len(c.Blocks))}
		for _, b := range c.Blocks {
			col.Blocks = append(col.Blocks, Block(b))
		}
		resp.Columns = append(resp.Columns, col)
	}
	return resp
}
