package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/infra/storage/pgerr"
	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
	"github.com/facumancuso/alessi-sub000/pkg/psqlbuilder"
)

const table = "services"

var columns = []string{
	"id",
	"code",
	"name",
	"duration_minutes",
	"price_minor",
	"created_at",
	"updated_at",
}

// Repository репозиторий услуг салона
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает услугу. Код услуги уникален
func (r *Repository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	s.ID = uuid.NewString()

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "code", "name", "duration_minutes", "price_minor").
		Values(s.ID, s.Code, s.Name, s.DurationMinutes, s.PriceMinorUnits).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: build insert query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, s.Code, "code already exists")
	}
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: execute insert: %v", ErrExecQuery, err))
	}

	return s, nil
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewNotFoundError(entity, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, wrap("GetByID", fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	s, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, id)
	}
	if err != nil {
		return nil, wrap("GetByID", fmt.Errorf("%w: scan service: %v", ErrScanRow, err))
	}
	return s, nil
}

// GetByIDs получает услуги по списку ID. Неизвестные ID пропускаются
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Service, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*domain.Service{}, nil
	}

	return r.list(ctx, "GetByIDs", squirrel.Eq{"id": valid})
}

// List получает все услуги, отсортированные по названию
func (r *Repository) List(ctx context.Context) ([]*domain.Service, error) {
	return r.list(ctx, "List", nil)
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC")
	if where != nil {
		selectBuilder = selectBuilder.Where(where)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, wrap(op, fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, fmt.Errorf("%w: execute query: %v", ErrExecQuery, err))
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, wrap(op, fmt.Errorf("%w: scan service: %v", ErrScanRow, err))
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err))
	}
	return services, nil
}

// Update обновляет услугу. Прошлые записи хранят снимок названия и цены
func (r *Repository) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	if _, err := uuid.Parse(s.ID); err != nil {
		return nil, domain.NewNotFoundError(entity, s.ID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("code", s.Code).
		Set("name", s.Name).
		Set("duration_minutes", s.DurationMinutes).
		Set("price_minor", s.PriceMinorUnits).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, s.ID)
	}
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, s.Code, "code already exists")
	}
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}
	return s, nil
}

// Delete удаляет услугу
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewNotFoundError(entity, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var s domain.Service
	err := row.Scan(
		&s.ID,
		&s.Code,
		&s.Name,
		&s.DurationMinutes,
		&s.PriceMinorUnits,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
