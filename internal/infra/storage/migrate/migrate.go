package migrate

import (
	"context"
	"fmt"
	"os"

	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
)

// lockKey ключ advisory-блокировки, под которой применяется схема
const lockKey = 7311020

// Apply выполняет SQL-файл схемы целиком. Скрипт идемпотентен (IF NOT EXISTS).
// Параллельные вызовы сериализуются блокировкой до конца неявной транзакции
func Apply(ctx context.Context, db dbmetrics.DBExecutor, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("migrate: read %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("SELECT pg_advisory_xact_lock(%d);\n", lockKey)+string(script)); err != nil {
		return fmt.Errorf("migrate: apply %s: %w", path, err)
	}
	return nil
}
