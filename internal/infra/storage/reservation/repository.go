package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование вместе с позициями меню
// Вызывается внутри транзакции создания бронирования (после списания вместимости),
// чтобы вставка и списание были атомарны
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"customer_id",
			"provider_id",
			"start_at",
			"end_at",
			"status",
			"total_price",
		).
		Values(
			res.CustomerID,
			res.ProviderID,
			res.StartAt,
			res.EndAt,
			res.Status,
			res.TotalPrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	// Вставляем денормализованные позиции меню
	for i := range res.Menus {
		res.Menus[i].ReservationID = res.ID

		menuQuery, menuArgs, err := psqlbuilder.Insert("reservation_menus").
			Columns(
				"reservation_id",
				"menu_id",
				"menu_name",
				"duration_minutes",
				"price",
			).
			Values(
				res.Menus[i].ReservationID,
				res.Menus[i].MenuID,
				res.Menus[i].MenuName,
				res.Menus[i].DurationMinutes,
				res.Menus[i].Price,
			).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: Create - build menu insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, menuQuery, menuArgs...).Scan(&res.Menus[i].ID); err != nil {
			return nil, fmt.Errorf("%w: Create - execute menu insert: %v", ErrExecQuery, err)
		}
	}

	return res, nil
}

// GetByID получает бронирование по ID вместе с позициями меню
// Внутри транзакции читает с блокировкой FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns()...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservationRow(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadMenus(ctx, []*domain.Reservation{res}); err != nil {
		return nil, err
	}

	return res, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns()...).
		From("reservations").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_at DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadMenus(ctx, reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

// GetByProviderWithFilter получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых
func (r *Repository) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns()...).
		From("reservations").
		Where(squirrel.Eq{"provider_id": filter.ProviderID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.EndDate.AddDate(0, 0, 1)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны неактивные - исключаем их
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("start_at ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadMenus(ctx, reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

// ListForReminder выбирает бронирования, подпадающие под напоминание:
// start_at в окне [startFrom, startTo), created_at раньше createdBefore,
// статус before_visit. Созданные в день сканирования исключаются по createdBefore,
// чтобы не дублировать "свежие" подтверждения напоминанием
func (r *Repository) ListForReminder(ctx context.Context, startFrom, startTo, createdBefore time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns()...).
		From("reservations").
		Where(squirrel.GtOrEq{"start_at": startFrom}).
		Where(squirrel.Lt{"start_at": startTo}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		Where(squirrel.Eq{"status": domain.StatusBeforeVisit}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForReminder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Cancel переводит бронирование в статус canceled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCanceled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// loadMenus подгружает позиции меню для набора бронирований одним запросом
func (r *Repository) loadMenus(ctx context.Context, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(reservations))
	byID := make(map[int64]*domain.Reservation, len(reservations))
	for i, res := range reservations {
		ids[i] = res.ID
		byID[res.ID] = res
		res.Menus = make([]domain.ReservationMenu, 0)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"reservation_id",
		"menu_id",
		"menu_name",
		"duration_minutes",
		"price",
	).
		From("reservation_menus").
		Where(squirrel.Eq{"reservation_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadMenus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadMenus - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.ReservationMenu
		if err := rows.Scan(&m.ID, &m.ReservationID, &m.MenuID, &m.MenuName, &m.DurationMinutes, &m.Price); err != nil {
			return fmt.Errorf("%w: loadMenus - scan row: %v", ErrScanRow, err)
		}
		if res, ok := byID[m.ReservationID]; ok {
			res.Menus = append(res.Menus, m)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadMenus - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// reservationColumns общий список колонок таблицы reservations
func reservationColumns() []string {
	return []string{
		"id",
		"customer_id",
		"provider_id",
		"start_at",
		"end_at",
		"status",
		"total_price",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	}
}

// scanReservationRow сканирует одну строку бронирования из QueryRow
func scanReservationRow(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CustomerID,
		&res.ProviderID,
		&res.StartAt,
		&res.EndAt,
		&res.Status,
		&res.TotalPrice,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanReservationRow - scan reservation: %v", ErrScanRow, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.CustomerID,
			&res.ProviderID,
			&res.StartAt,
			&res.EndAt,
			&res.Status,
			&res.TotalPrice,
			&res.CancellationReason,
			&res.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
