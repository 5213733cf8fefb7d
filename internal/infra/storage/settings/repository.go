package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
	"github.com/facumancuso/alessi-sub000/pkg/psqlbuilder"
)

const (
	table = "settings"

	// singletonID единственная строка таблицы настроек
	singletonID = 1
)

// Repository репозиторий настроек салона
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает настройки или значения по умолчанию, если они еще не сохранялись
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"booking_closing_hours",
		"whatsapp_enabled",
		"whatsapp_phone_number",
		"whatsapp_message_template",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, wrap("Get", fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err))
	}

	var s domain.Settings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.BookingClosingHours,
		&s.WhatsAppEnabled,
		&s.WhatsAppPhoneNumber,
		&s.WhatsAppMessageTemplate,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return nil, wrap("Get", fmt.Errorf("%w: scan settings: %v", ErrScanRow, err))
	}
	return &s, nil
}

// Save сохраняет настройки (upsert единственной строки)
func (r *Repository) Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"booking_closing_hours",
			"whatsapp_enabled",
			"whatsapp_phone_number",
			"whatsapp_message_template",
		).
		Values(
			singletonID,
			s.BookingClosingHours,
			s.WhatsAppEnabled,
			s.WhatsAppPhoneNumber,
			s.WhatsAppMessageTemplate,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			booking_closing_hours = EXCLUDED.booking_closing_hours,
			whatsapp_enabled = EXCLUDED.whatsapp_enabled,
			whatsapp_phone_number = EXCLUDED.whatsapp_phone_number,
			whatsapp_message_template = EXCLUDED.whatsapp_message_template,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, wrap("Save", fmt.Errorf("%w: build upsert query: %v", ErrBuildQuery, err))
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, wrap("Save", fmt.Errorf("%w: execute upsert: %v", ErrExecQuery, err))
	}
	return s, nil
}
