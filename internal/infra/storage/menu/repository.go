package menu

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий каталога меню (услуг)
// Ядро бронирования читает каталог, но не редактирует его
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория меню
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByIDs получает позиции меню провайдера по списку идентификаторов
func (r *Repository) GetByIDs(ctx context.Context, providerID int64, ids []int64) ([]*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"name",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("menus").
		Where(squirrel.Eq{"provider_id": providerID, "id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanMenus(rows)
}

// GetByProviderID получает каталог меню провайдера
func (r *Repository) GetByProviderID(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"provider_id",
		"name",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("menus").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanMenus(rows)
}

// scanMenus сканирует результаты запроса в слайс позиций меню
func scanMenus(rows *sql.Rows) ([]*domain.Menu, error) {
	menus := make([]*domain.Menu, 0)

	for rows.Next() {
		var m domain.Menu
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&m.ID,
			&m.ProviderID,
			&m.Name,
			&m.DurationMinutes,
			&m.Price,
			&m.IsActive,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanMenus - scan row: %v", ErrScanRow, err)
		}

		m.CreatedAt = createdAt.Time
		m.UpdatedAt = updatedAt.Time

		menus = append(menus, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanMenus - rows error: %v", ErrScanRow, err)
	}

	return menus, nil
}
