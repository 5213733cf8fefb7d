package domain

import "time"

// Role роль сотрудника
type Role string

const (
	RoleSuperadmin Role = "Superadmin"
	RoleGerente    Role = "Gerente"
	RoleRecepcion  Role = "Recepcion"
	RolePeluquero  Role = "Peluquero"
)

var roleRank = map[Role]int{
	RoleSuperadmin: 4,
	RoleGerente:    3,
	RoleRecepcion:  2,
	RolePeluquero:  1,
}

// ParseRole валидирует строку роли
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", NewValidationError("role", "unknown role %q", s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast Superadmin > Gerente > Recepcion > Peluquero
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}

func (r Role) CanManageUsers() bool {
	return r.AtLeast(RoleGerente)
}

// CanManageUser Gerente не может управлять учетками Superadmin
func (r Role) CanManageUser(target Role) bool {
	if !r.CanManageUsers() {
		return false
	}
	return r == RoleSuperadmin || target != RoleSuperadmin
}

func (r Role) CanManageCatalog() bool {
	return r.AtLeast(RoleGerente)
}

func (r Role) CanManageSettings() bool {
	return r.AtLeast(RoleGerente)
}

func (r Role) CanManageClients() bool {
	return r.AtLeast(RoleRecepcion)
}

func (r Role) CanManageAppointments() bool {
	return r.AtLeast(RoleRecepcion)
}

func (r Role) CanDeleteAppointments() bool {
	return r.AtLeast(RoleGerente)
}

func (r Role) CanBill() bool {
	return r.AtLeast(RoleRecepcion)
}

// CanViewAllEmployees Peluquero видит только свой день
func (r Role) CanViewAllEmployees() bool {
	return r.AtLeast(RoleRecepcion)
}

// CanSetStatus какие статусы роль может выставлять вручную
func (r Role) CanSetStatus(to AppointmentStatus) bool {
	switch to {
	case StatusWaiting, StatusInProgress, StatusCompleted:
		return r.IsValid()
	case StatusNoShow, StatusCancelled:
		return r.AtLeast(RoleRecepcion)
	case StatusBilled:
		return r.CanBill()
	default:
		return false
	}
}

// User сотрудник салона
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsEmployee сотрудник, у которого есть колонка в агенде
func (u *User) IsEmployee() bool {
	return u.IsActive && u.Role == RolePeluquero
}

// UserFilter фильтр списка сотрудников
type UserFilter struct {
	Role       *Role
	OnlyActive bool
}
