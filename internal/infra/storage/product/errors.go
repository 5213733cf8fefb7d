package product

import (
	"errors"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("product.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("product.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("product.repository: failed to scan row")
)

const entity = "product"

func wrap(op string, err error) error {
	return domain.NewPersistenceError(entity+"."+op, err)
}
