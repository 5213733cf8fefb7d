package appointment

import "github.com/facumancuso/alessi-sub000/pkg/dbmetrics"

// DBExecutor соединение или транзакция
type DBExecutor = dbmetrics.DBExecutor
