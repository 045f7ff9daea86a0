package capacity

import "errors"

var (
	// ErrDefaultNotFound возвращается, когда у провайдера нет дефолтной вместимости
	ErrDefaultNotFound = errors.New("capacity.repository: capacity default not found")

	// ErrOverrideNotFound возвращается, когда строка леджера для слота не материализована
	ErrOverrideNotFound = errors.New("capacity.repository: slot capacity override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacity.repository: failed to scan row")
)
