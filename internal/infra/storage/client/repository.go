package client

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

const table = "clients"

var columns = []string{
	"id",
	"code",
	"name",
	"email",
	"mobile_phone",
	"address",
	"city",
	"province",
	"postal_code",
	"dni",
	"cuit",
	"category",
	"subcategory",
	"inactive",
	"created_at",
	"updated_at",
}

// Repository репозиторий клиентов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает клиента. Email (без учета регистра) уникален среди непустых
func (r *Repository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	c.ID = uuid.NewString()
	c.Email = strings.TrimSpace(c.Email)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:14]...).
		Values(values(c)...).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: build insert query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, c.Email, "email already exists")
	}
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: execute insert: %v", ErrExecQuery, err))
	}
	return c, nil
}

// UpsertByEmail создает клиента или обновляет имя и телефон существующего с тем же email.
// Используется при самостоятельной записи клиента
func (r *Repository) UpsertByEmail(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if strings.TrimSpace(c.Email) == "" {
		return nil, domain.NewValidationError("email", "is required")
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	c.ID = uuid.NewString()
	c.Email = strings.TrimSpace(c.Email)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:14]...).
		Values(values(c)...).
		Suffix(`ON CONFLICT ((lower(email))) WHERE email <> '' DO UPDATE SET
			name = EXCLUDED.name,
			mobile_phone = CASE WHEN EXCLUDED.mobile_phone <> '' THEN EXCLUDED.mobile_phone ELSE clients.mobile_phone END,
			updated_at = NOW()
		RETURNING ` + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, wrap("UpsertByEmail", fmt.Errorf("%w: build upsert query: %v", ErrBuildQuery, err))
	}

	out, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrap("UpsertByEmail", fmt.Errorf("%w: execute upsert: %v", ErrExecQuery, err))
	}
	return out, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewNotFoundError(entity, id)
	}
	return r.getOne(ctx, "GetByID", id, squirrel.Eq{"id": id})
}

// GetByEmail получает клиента по email без учета регистра
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.getOne(ctx, "GetByEmail", email, squirrel.Expr("lower(email) = ?", domain.NormalizeEmail(email)))
}

func (r *Repository) getOne(ctx context.Context, op, key string, where squirrel.Sqlizer) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, wrap(op, fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	c, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, key)
	}
	if err != nil {
		return nil, wrap(op, fmt.Errorf("%w: scan client: %v", ErrScanRow, err))
	}
	return c, nil
}

// List ищет клиентов по подстроке в имени, email, телефоне или коде
func (r *Repository) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC", "id ASC")

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"inactive": false})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"mobile_phone": pattern},
			squirrel.ILike{"code": pattern},
		})
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

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap("List", fmt.Errorf("%w: scan client: %v", ErrScanRow, err))
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("List", fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err))
	}
	return clients, nil
}

// Update обновляет все поля клиента
func (r *Repository) Update(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if _, err := uuid.Parse(c.ID); err != nil {
		return nil, domain.NewNotFoundError(entity, c.ID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	c.Email = strings.TrimSpace(c.Email)

	query, args, err := psqlbuilder.Update(table).
		SetMap(map[string]interface{}{
			"code":         c.Code,
			"name":         c.Name,
			"email":        c.Email,
			"mobile_phone": c.MobilePhone,
			"address":      c.Address,
			"city":         c.City,
			"province":     c.Province,
			"postal_code":  c.PostalCode,
			"dni":          c.DNI,
			"cuit":         c.CUIT,
			"category":     c.Category,
			"subcategory":  c.Subcategory,
			"inactive":     c.Inactive,
			"updated_at":   squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, c.ID)
	}
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, c.Email, "email already exists")
	}
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}
	return c, nil
}

// Delete удаляет клиента. Записи клиента сохраняются без ссылки на него
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

func values(c *domain.Client) []interface{} {
	return []interface{}{
		c.ID,
		c.Code,
		c.Name,
		c.Email,
		c.MobilePhone,
		c.Address,
		c.City,
		c.Province,
		c.PostalCode,
		c.DNI,
		c.CUIT,
		c.Category,
		c.Subcategory,
		c.Inactive,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.Email,
		&c.MobilePhone,
		&c.Address,
		&c.City,
		&c.Province,
		&c.PostalCode,
		&c.DNI,
		&c.CUIT,
		&c.Category,
		&c.Subcategory,
		&c.Inactive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
