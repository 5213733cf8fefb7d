package domain

import (
	"sort"
	"strings"
	"time"
)

// BillingGroupStatus сводный статус группы
type BillingGroupStatus string

const (
	GroupPending BillingGroupStatus = "completed"
	GroupBilled  BillingGroupStatus = "facturado"
	GroupMixed   BillingGroupStatus = "mixed"
)

// BillingGroup все завершенные визиты одного клиента за один день.
// Не хранится, вычисляется при каждом запросе
type BillingGroup struct {
	Key           string
	CustomerEmail string
	CustomerName  string
	CustomerPhone string
	Day           time.Time

	Appointments   []*Appointment
	AppointmentIDs []string
	TotalServices  int
	TotalMinor     int64
	Status         BillingGroupStatus
}

// BillingGroupKey ключ клиента + начало дня (в поясе loc)
func BillingGroupKey(customer string, date time.Time, loc *time.Location) string {
	return customer + "|" + StartOfDay(date, loc).Format(DateFormat)
}

// BillingCustomerKey email клиента. Без email: карточка клиента, затем имя,
// чтобы визиты разных клиентов без email не сливались в одну группу
func BillingCustomerKey(a *Appointment) string {
	if email := NormalizeEmail(a.CustomerEmail); email != "" {
		return email
	}
	if a.ClientID != nil && *a.ClientID != "" {
		return "client:" + *a.ClientID
	}
	if name := strings.ToLower(strings.Join(strings.Fields(a.CustomerName), " ")); name != "" {
		return "name:" + name
	}
	return "appointment:" + a.ID
}

// GroupForBilling группирует завершенные и выставленные визиты по (клиент, день).
// Группы отсортированы по дню (новые сверху), затем по email; визиты внутри - по времени
func GroupForBilling(appointments []*Appointment, loc *time.Location) []*BillingGroup {
	byKey := make(map[string]*BillingGroup)
	keys := make([]string, 0)

	for _, a := range appointments {
		if a == nil || !a.IsBillable() {
			continue
		}
		key := BillingGroupKey(BillingCustomerKey(a), a.Date, loc)
		g, ok := byKey[key]
		if !ok {
			g = &BillingGroup{
				Key:           key,
				CustomerEmail: NormalizeEmail(a.CustomerEmail),
				CustomerName:  a.CustomerName,
				CustomerPhone: a.CustomerPhone,
				Day:           StartOfDay(a.Date, loc),
			}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.Appointments = append(g.Appointments, a)
		g.TotalServices += len(a.Assignments)
	}

	groups := make([]*BillingGroup, 0, len(keys))
	for _, key := range keys {
		g := byKey[key]
		sort.SliceStable(g.Appointments, func(i, j int) bool {
			if g.Appointments[i].Date.Equal(g.Appointments[j].Date) {
				return g.Appointments[i].ID < g.Appointments[j].ID
			}
			return g.Appointments[i].Date.Before(g.Appointments[j].Date)
		})
		g.AppointmentIDs = make([]string, len(g.Appointments))
		for i, a := range g.Appointments {
			g.AppointmentIDs[i] = a.ID
		}
		g.Status = groupStatus(g.Appointments)
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].Day.Equal(groups[j].Day) {
			return groups[i].Day.After(groups[j].Day)
		}
		if groups[i].CustomerEmail != groups[j].CustomerEmail {
			return groups[i].CustomerEmail < groups[j].CustomerEmail
		}
		return groups[i].Key < groups[j].Key
	})

	return groups
}

// ApplyTotals считает сумму группы по снимкам цен визитов и текущим ценам товаров
func (g *BillingGroup) ApplyTotals(products ProductCatalog) {
	var total int64
	for _, a := range g.Appointments {
		total += TotalPriceMinor(a.Assignments, a.SnapshotCatalog(), a.ProductIDs, products)
	}
	g.TotalMinor = total
}

func groupStatus(appointments []*Appointment) BillingGroupStatus {
	billed, pending := 0, 0
	for _, a := range appointments {
		if a.Status == StatusBilled {
			billed++
		} else {
			pending++
		}
	}
	switch {
	case pending == 0:
		return GroupBilled
	case billed == 0:
		return GroupPending
	default:
		return GroupMixed
	}
}
