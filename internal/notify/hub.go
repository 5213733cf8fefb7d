package notify

import (
	"context"
	"sync"
	"time"
)

// EventType тип события для сотрудника
type EventType string

const (
	// EventClientWaiting клиент отмечен как ожидающий
	EventClientWaiting EventType = "client_waiting"
	// EventAppointmentChanged визит сотрудника создан или изменен
	EventAppointmentChanged EventType = "appointment_changed"
)

// Event уведомление, адресованное одному сотруднику
type Event struct {
	Seq           uint64    `json:"seq"`
	Type          EventType `json:"type"`
	EmployeeID    string    `json:"employeeId"`
	AppointmentID string    `json:"appointmentId"`
	CustomerName  string    `json:"customerName"`
	At            time.Time `json:"at"`
}

// maxBacklog сколько последних событий хранится на сотрудника
const maxBacklog = 50

type mailbox struct {
	events  []Event
	seq     uint64
	signal  chan struct{}
	waiters int
}

// Hub in-memory рассылка событий с long-poll ожиданием.
// Подписчик передает последний увиденный seq и получает все более новые события.
type Hub struct {
	mu    sync.Mutex
	boxes map[string]*mailbox
	now   func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		boxes: make(map[string]*mailbox),
		now:   time.Now,
	}
}

func (h *Hub) box(employeeID string) *mailbox {
	b, ok := h.boxes[employeeID]
	if !ok {
		b = &mailbox{signal: make(chan struct{})}
		h.boxes[employeeID] = b
	}
	return b
}

// Publish добавляет событие и будит ожидающих
func (h *Hub) Publish(ev Event) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	b := h.box(ev.EmployeeID)
	b.seq++
	ev.Seq = b.seq
	if ev.At.IsZero() {
		ev.At = h.now()
	}

	b.events = append(b.events, ev)
	if len(b.events) > maxBacklog {
		b.events = b.events[len(b.events)-maxBacklog:]
	}

	close(b.signal)
	b.signal = make(chan struct{})
	return ev
}

// Since события сотрудника с seq больше after
func (h *Hub) Since(employeeID string, after uint64) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.boxes[employeeID]
	if !ok {
		return nil
	}
	return h.since(b, after)
}

// release снимает ожидающего. Ящик без событий и ожидающих удаляется
func (h *Hub) release(employeeID string, b *mailbox) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b.waiters--
	if b.waiters == 0 && len(b.events) == 0 && h.boxes[employeeID] == b {
		delete(h.boxes, employeeID)
	}
}

func (h *Hub) since(b *mailbox, after uint64) []Event {
	var out []Event
	for _, ev := range b.events {
		if ev.Seq > after {
			out = append(out, ev)
		}
	}
	return out
}

// Wait блокируется, пока не появятся события новее after, не истечет timeout или не отменится ctx.
// Пустой результат без ошибки означает таймаут.
func (h *Hub) Wait(ctx context.Context, employeeID string, after uint64, timeout time.Duration) ([]Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	h.mu.Lock()
	b := h.box(employeeID)
	b.waiters++
	h.mu.Unlock()
	defer h.release(employeeID, b)

	for {
		h.mu.Lock()
		events := h.since(b, after)
		signal := b.signal
		h.mu.Unlock()

		if len(events) > 0 {
			return events, nil
		}

		select {
		case <-signal:
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
