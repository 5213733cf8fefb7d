package service

import (
	"errors"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("service.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("service.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("service.repository: failed to scan row")
)

const entity = "service"

func wrap(op string, err error) error {
	return domain.NewPersistenceError(entity+"."+op, err)
}
