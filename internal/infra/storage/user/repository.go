package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/infra/storage/pgerr"
	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
	"github.com/facumancuso/alessi-sub000/pkg/psqlbuilder"
)

const table = "users"

var columns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"role",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий сотрудников
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сотрудника. PasswordHash должен быть уже посчитан
func (r *Repository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	u.ID = uuid.NewString()
	u.Email = strings.TrimSpace(u.Email)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "name", "email", "password_hash", "role", "is_active").
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: build insert query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.CreatedAt, &u.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, u.Email, "email already exists")
	}
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: execute insert: %v", ErrExecQuery, err))
	}
	return u, nil
}

// GetByID получает сотрудника по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewNotFoundError(entity, id)
	}
	return r.getOne(ctx, "GetByID", id, squirrel.Eq{"id": id})
}

// GetByEmail получает сотрудника по email без учета регистра (для входа)
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "GetByEmail", email, squirrel.Expr("lower(email) = ?", domain.NormalizeEmail(email)))
}

func (r *Repository) getOne(ctx context.Context, op, key string, where squirrel.Sqlizer) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, wrap(op, fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	u, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, key)
	}
	if err != nil {
		return nil, wrap(op, fmt.Errorf("%w: scan user: %v", ErrScanRow, err))
	}
	return u, nil
}

// List получает сотрудников, опционально по роли и только активных
func (r *Repository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC", "id ASC")

	if filter.Role != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"role": *filter.Role})
	}
	if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
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

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap("List", fmt.Errorf("%w: scan user: %v", ErrScanRow, err))
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("List", fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err))
	}
	return users, nil
}

// Update обновляет имя, email, роль и активность. Пароль меняется через UpdatePassword
func (r *Repository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if _, err := uuid.Parse(u.ID); err != nil {
		return nil, domain.NewNotFoundError(entity, u.ID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	u.Email = strings.TrimSpace(u.Email)

	query, args, err := psqlbuilder.Update(table).
		Set("name", u.Name).
		Set("email", u.Email).
		Set("role", u.Role).
		Set("is_active", u.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, u.ID)
	}
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, u.Email, "email already exists")
	}
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}
	return u, nil
}

// UpdatePassword сохраняет новый хеш пароля
func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewNotFoundError(entity, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("password_hash", passwordHash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return wrap("UpdatePassword", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	return r.execOne(ctx, executor, "UpdatePassword", id, query, args)
}

// Delete удаляет сотрудника
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

	return r.execOne(ctx, executor, "Delete", id, query, args)
}

func (r *Repository) execOne(ctx context.Context, executor dbmetrics.DBExecutor, op, id, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(op, fmt.Errorf("%w: execute: %v", ErrExecQuery, err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrap(op, fmt.Errorf("%w: rows affected: %v", ErrExecQuery, err))
	}
	if affected == 0 {
		return domain.NewNotFoundError(entity, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
