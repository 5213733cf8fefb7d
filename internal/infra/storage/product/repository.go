package product

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

const table = "products"

var columns = []string{
	"id",
	"code",
	"name",
	"price_minor",
	"created_at",
	"updated_at",
}

// Repository репозиторий товаров
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория товаров
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает товар. Код товара уникален
func (r *Repository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	p.ID = uuid.NewString()

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "code", "name", "price_minor").
		Values(p.ID, p.Code, p.Name, p.PriceMinorUnits).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: build insert query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, p.Code, "code already exists")
	}
	if err != nil {
		return nil, wrap("Create", fmt.Errorf("%w: execute insert: %v", ErrExecQuery, err))
	}

	return p, nil
}

// GetByID получает товар по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
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

	p, err := scanProduct(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, id)
	}
	if err != nil {
		return nil, wrap("GetByID", fmt.Errorf("%w: scan product: %v", ErrScanRow, err))
	}
	return p, nil
}

// GetByIDs получает товары по списку ID. Неизвестные ID пропускаются
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*domain.Product{}, nil
	}

	return r.list(ctx, "GetByIDs", squirrel.Eq{"id": valid})
}

// List получает все товары, отсортированные по названию
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, "List", nil)
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Product, error) {
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

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrap(op, fmt.Errorf("%w: scan product: %v", ErrScanRow, err))
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err))
	}
	return products, nil
}

// Update обновляет товар. Цена товара в записях берется по текущему прайсу
func (r *Repository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if _, err := uuid.Parse(p.ID); err != nil {
		return nil, domain.NewNotFoundError(entity, p.ID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("code", p.Code).
		Set("name", p.Name).
		Set("price_minor", p.PriceMinorUnits).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: build update query: %v", ErrBuildQuery, err))
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(entity, p.ID)
	}
	if pgerr.IsUniqueViolation(err) {
		return nil, domain.NewConflictError(entity, p.Code, "code already exists")
	}
	if err != nil {
		return nil, wrap("Update", fmt.Errorf("%w: execute update: %v", ErrExecQuery, err))
	}
	return p, nil
}

// Delete удаляет товар
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

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.PriceMinorUnits,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
