package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
	"github.com/facumancuso/alessi-sub000/pkg/psqlbuilder"
)

const (
	appointmentsTable = "appointments"
	assignmentsTable  = "appointment_assignments"
)

var appointmentColumns = []string{
	"id",
	"client_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"date",
	"status",
	"source",
	"notes",
	"cancelled_by",
	"cancelled_at",
	"cancellation_reason",
	"service_names",
	"duration",
	"product_ids",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей и их позиций.
// Create и Update пишут в две таблицы и должны вызываться внутри транзакции
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись вместе с позициями, присваивает ID
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	a.ID = uuid.NewString()
	a.RefreshDerived()

	query, args, err := psqlbuilder.Insert(appointmentsTable).
		Columns(
			"id",
			"client_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"date",
			"status",
			"source",
			"notes",
			"service_names",
			"duration",
			"product_ids",
		).
		Values(
			a.ID,
			a.ClientID,
			a.CustomerName,
			a.CustomerEmail,
			a.CustomerPhone,
			a.Date,
			a.Status,
			a.Source,
			a.Notes,
			pq.Array(a.ServiceNames),
			a.Duration,
			pq.Array(a.ProductIDs),
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: build insert query: %v", ErrBuildQuery, err))
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: execute insert: %v", ErrExecQuery, err))
	}

	if err := r.insertAssignments(ctx, executor, a.ID, a.Assignments); err != nil {
		return nil, wrap("Create", err)
	}

	return a, nil
}

// GetByID получает запись с позициями
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewNotFoundError(entity, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, wrap("GetByID", fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, id)
	}
	if err != nil {
		return nil, wrap("GetByID", fmt.Errorf("%w: scan appointment: %v", ErrScanRow, err))
	}

	if err := r.loadAssignments(ctx, executor, []*domain.Appointment{a}); err != nil {
		return nil, wrap("GetByID", err)
	}

	return a, nil
}

// List получает записи по фильтру, отсортированные по дате
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		OrderBy("date ASC", "id ASC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"date": *filter.To})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.CustomerEmail != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("lower(customer_email) = ?", domain.NormalizeEmail(*filter.CustomerEmail)))
	}
	if filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"id IN (SELECT appointment_id FROM "+assignmentsTable+" WHERE employee_id = ?)", *filter.EmployeeID,
		))
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, wrap("List", fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("List", fmt.Errorf("%w: execute query: %v", ErrExecQuery, err))
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, wrap("List", fmt.Errorf("%w: scan appointment: %v", ErrScanRow, err))
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("List", fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err))
	}

	if err := r.loadAssignments(ctx, executor, appointments); err != nil {
		return nil, wrap("List", err)
	}

	return appointments, nil
}

// Update перезаписывает поля записи и полностью заменяет позиции (последний писатель побеждает)
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	a.RefreshDerived()

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("client_id", a.ClientID).
		Set("customer_name", a.CustomerName).
		Set("customer_email", a.CustomerEmail).
		Set("customer_phone", a.CustomerPhone).
		Set("date", a.Date).
		Set("status", a.Status).
		Set("notes", a.Notes).
		Set("service_names", pq.Array(a.ServiceNames)).
		Set("duration", a.Duration).
		Set("product_ids", pq.Array(a.ProductIDs)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, a.ID)
	}
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(assignmentsTable).
		Where(squirrel.Eq{"appointment_id": a.ID}).
		ToSql()
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: build delete assignments query: %v", ErrBuildQuery, err))
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: delete assignments: %v", ErrExecQuery, err))
	}

	if err := r.insertAssignments(ctx, executor, a.ID, a.Assignments); err != nil {
		return nil, wrap("Update", err)
	}

	return a, nil
}

// UpdateStatus меняет статус, только если текущий статус равен from.
// Если запись успела измениться, возвращает ConflictError
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return wrap("UpdateStatus", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	return r.execOne(ctx, executor, "UpdateStatus", id, query, args)
}

// Cancel сохраняет отмену подтвержденной записи
func (r *Repository) Cancel(ctx context.Context, id, cancelledBy string, reason *string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", at).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()
	if err != nil {
		return wrap("Cancel", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	return r.execOne(ctx, executor, "Cancel", id, query, args)
}

// TransitionMany переводит в to все записи из ids, находящиеся в статусе from.
// Возвращает ID фактически измененных записей; повторный вызов с теми же ids ничего не меняет
func (r *Repository) TransitionMany(ctx context.Context, ids []string, from, to domain.AppointmentStatus) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": validIDs(ids), "status": from}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, wrap("TransitionMany", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("TransitionMany", fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}
	defer rows.Close()

	updated := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrap("TransitionMany", fmt.Errorf("%w: scan id: %v", ErrScanRow, err))
		}
		updated = append(updated, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("TransitionMany", fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err))
	}

	return updated, nil
}

// Delete удаляет запись, позиции удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewNotFoundError(entity, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return wrap("Delete", fmt.Errorf("%w: build delete query: %v", ErrBuildQuery, err))
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap("Delete", fmt.Errorf("%w: execute delete: %v", ErrExecQuery, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrap("Delete", fmt.Errorf("%w: rows affected: %v", ErrExecQuery, err))
	}
	if affected == 0 {
		return domain.NewNotFoundError(entity, id)
	}
	return nil
}

// execOne выполняет условный UPDATE одной записи.
// Ноль затронутых строк означает, что записи нет или ее статус уже другой
func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, id, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(op, fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrap(op, fmt.Errorf("%w: rows affected: %v", ErrExecQuery, err))
	}
	if affected == 0 {
		return domain.NewConflictError(entity, id, "status changed concurrently")
	}
	return nil
}

func (r *Repository) insertAssignments(ctx context.Context, executor DBExecutor, appointmentID string, assignments []domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(assignmentsTable).
		Columns(
			"appointment_id",
			"position",
			"employee_id",
			"service_id",
			"start_time",
			"duration_minutes",
			"product_ids",
			"service_name",
			"price_minor",
		)

	for i, as := range assignments {
		productIDs := as.ProductIDs
		if productIDs == nil {
			productIDs = []string{}
		}
		insertBuilder = insertBuilder.Values(
			appointmentID,
			i,
			as.EmployeeID,
			as.ServiceID,
			as.Time,
			as.DurationMinutes,
			pq.Array(productIDs),
			as.ServiceName,
			as.PriceMinorUnits,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: build insert assignments query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert assignments: %v", ErrExecQuery, err)
	}
	return nil
}

// loadAssignments подгружает позиции одним запросом для всех записей
func (r *Repository) loadAssignments(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Appointment, len(appointments))
	ids := make([]string, 0, len(appointments))
	for _, a := range appointments {
		a.Assignments = make([]domain.Assignment, 0)
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	query, args, err := psqlbuilder.Select(
		"appointment_id",
		"employee_id",
		"service_id",
		"start_time",
		"duration_minutes",
		"product_ids",
		"service_name",
		"price_minor",
	).
		From(assignmentsTable).
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build select assignments query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: select assignments: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID string
		var as domain.Assignment
		err := rows.Scan(
			&appointmentID,
			&as.EmployeeID,
			&as.ServiceID,
			&as.Time,
			&as.DurationMinutes,
			pq.Array(&as.ProductIDs),
			&as.ServiceName,
			&as.PriceMinorUnits,
		)
		if err != nil {
			return fmt.Errorf("%w: scan assignment: %v", ErrScanRow, err)
		}
		if a, ok := byID[appointmentID]; ok {
			a.Assignments = append(a.Assignments, as)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.CustomerName,
		&a.CustomerEmail,
		&a.CustomerPhone,
		&a.Date,
		&a.Status,
		&a.Source,
		&a.Notes,
		&a.CancelledBy,
		&a.CancelledAt,
		&a.CancellationReason,
		pq.Array(&a.ServiceNames),
		&a.Duration,
		pq.Array(&a.ProductIDs),
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// validIDs отбрасывает строки, не являющиеся UUID, чтобы не ронять запрос на приведении типа
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}
