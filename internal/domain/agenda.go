package domain

import (
	"sort"
	"time"

	"github.com/facumancuso/alessi-sub000/pkg/types"
)

// AgendaOptions параметры сетки агенды
type AgendaOptions struct {
	IntervalMinutes int
	StartHour       int
	EndHour         int
	PixelsPerMinute float64
}

// DefaultAgendaOptions 08:00-21:00, шаг 15 минут
func DefaultAgendaOptions() AgendaOptions {
	return AgendaOptions{
		IntervalMinutes: DefaultAgendaIntervalMinutes,
		StartHour:       DefaultAgendaStartHour,
		EndHour:         DefaultAgendaEndHour,
		PixelsPerMinute: DefaultAgendaPixelsPerMinute,
	}
}

// Validate проверяет параметры сетки
func (o AgendaOptions) Validate() error {
	allowed := false
	for _, i := range AllowedAgendaIntervals {
		if o.IntervalMinutes == i {
			allowed = true
			break
		}
	}
	if !allowed {
		return NewValidationError("interval", "must be one of 10, 15, 30, 60")
	}
	if o.StartHour < 0 || o.EndHour > 24 || o.StartHour >= o.EndHour {
		return NewValidationError("hours", "start hour must be before end hour within 0..24")
	}
	if o.PixelsPerMinute <= 0 {
		return NewValidationError("pixelsPerMinute", "must be positive")
	}
	return nil
}

// AgendaBlock одна позиция визита в колонке сотрудника
type AgendaBlock struct {
	AppointmentID   string
	AssignmentIndex int
	CustomerName    string
	ServiceID       string
	ServiceName     string
	Time            types.TimeString
	DurationMinutes int
	Top             float64
	Height          float64
	Status          AppointmentStatus
	DisplayStatus   AppointmentStatus
}

// AgendaColumn колонка сотрудника
type AgendaColumn struct {
	EmployeeID   string
	EmployeeName string
	Blocks       []AgendaBlock
}

// Agenda проекция дня: строки времени и колонки сотрудников
type Agenda struct {
	Date    time.Time
	Options AgendaOptions
	Rows    []types.TimeString
	Columns []AgendaColumn
}

// Rows строки сетки от StartHour до EndHour с шагом IntervalMinutes
func (o AgendaOptions) Rows() []types.TimeString {
	rows := make([]types.TimeString, 0)
	for m := o.StartHour * 60; m < o.EndHour*60; m += o.IntervalMinutes {
		ts, err := types.FromMinutes(m)
		if err != nil {
			break
		}
		rows = append(rows, ts)
	}
	return rows
}

// Position вертикальное положение и высота блока в пикселях.
// Пересечения не разрешаются: блоки одного сотрудника могут накладываться
func (o AgendaOptions) Position(t types.TimeString, durationMinutes int) (top, height float64) {
	top = float64(t.Minutes()-o.StartHour*60) * o.PixelsPerMinute
	height = float64(durationMinutes) * o.PixelsPerMinute
	return top, height
}

// BuildAgenda раскладывает позиции визитов дня по колонкам сотрудников.
// Отмененные визиты и позиции сотрудников не из списка не показываются
func BuildAgenda(day time.Time, employees []*User, appointments []*Appointment, opts AgendaOptions, window WaitingWindow, now time.Time) *Agenda {
	agenda := &Agenda{
		Date:    StartOfDay(day, day.Location()),
		Options: opts,
		Rows:    opts.Rows(),
		Columns: make([]AgendaColumn, 0, len(employees)),
	}

	index := make(map[string]int, len(employees))
	for _, e := range employees {
		if e == nil {
			continue
		}
		index[e.ID] = len(agenda.Columns)
		agenda.Columns = append(agenda.Columns, AgendaColumn{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Blocks:       make([]AgendaBlock, 0),
		})
	}

	for _, a := range appointments {
		if a == nil || a.Status == StatusCancelled {
			continue
		}
		display := window.DisplayStatus(a, now)
		for i, as := range a.Assignments {
			col, ok := index[as.EmployeeID]
			if !ok {
				continue
			}
			top, height := opts.Position(as.Time, as.DurationMinutes)
			agenda.Columns[col].Blocks = append(agenda.Columns[col].Blocks, AgendaBlock{
				AppointmentID:   a.ID,
				AssignmentIndex: i,
				CustomerName:    a.CustomerName,
				ServiceID:       as.ServiceID,
				ServiceName:     as.ServiceName,
				Time:            as.Time,
				DurationMinutes: as.DurationMinutes,
				Top:             top,
				Height:          height,
				Status:          a.Status,
				DisplayStatus:   display,
			})
		}
	}

	for i := range agenda.Columns {
		blocks := agenda.Columns[i].Blocks
		sort.SliceStable(blocks, func(x, y int) bool {
			return blocks[x].Time.IsBefore(blocks[y].Time)
		})
	}

	return agenda
}
