package capacity

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

// Repository репозиторий леджера вместимости слотов
// Леджер двухуровневый: дефолт провайдера (capacity_defaults) и разреженные
// переопределения по (provider_id, target_date, time_slot) в reservation_limits.
// Строка переопределения материализуется при первой записи - см. Materialize.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вместимости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDefault получает дефолтную вместимость слота провайдера
func (r *Repository) GetDefault(ctx context.Context, providerID int64) (*domain.CapacityDefault, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"provider_id",
		"max_reservations",
		"created_at",
		"updated_at",
	).
		From("capacity_defaults").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDefault - build select query: %v", ErrBuildQuery, err)
	}

	var def domain.CapacityDefault
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&def.ProviderID,
		&def.MaxReservations,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDefaultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefault - scan default: %v", ErrScanRow, err)
	}

	def.CreatedAt = createdAt.Time
	def.UpdatedAt = updatedAt.Time

	return &def, nil
}

// UpsertDefault создает или обновляет дефолтную вместимость провайдера
// Уже материализованные строки леджера смена дефолта не затрагивает
func (r *Repository) UpsertDefault(ctx context.Context, providerID int64, maxReservations int) (*domain.CapacityDefault, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_defaults").
		Columns("provider_id", "max_reservations").
		Values(providerID, maxReservations).
		Suffix(`ON CONFLICT (provider_id)
			DO UPDATE SET max_reservations = EXCLUDED.max_reservations, updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDefault - build insert query: %v", ErrBuildQuery, err)
	}

	def := &domain.CapacityDefault{
		ProviderID:      providerID,
		MaxReservations: maxReservations,
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDefault - execute insert: %v", ErrExecQuery, err)
	}

	def.CreatedAt = createdAt.Time
	def.UpdatedAt = updatedAt.Time

	return def, nil
}

// GetOverride получает материализованную строку леджера для слота
// Внутри транзакции читает с блокировкой FOR UPDATE - чтение предваряет запись
func (r *Repository) GetOverride(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int) (*domain.SlotCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"provider_id",
		"target_date",
		"time_slot",
		"max_reservations",
		"created_at",
		"updated_at",
	).
		From("reservation_limits").
		Where(squirrel.Eq{
			"provider_id": providerID,
			"target_date": dateOnly(targetDate),
			"time_slot":   timeSlot,
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	var sc domain.SlotCapacity
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sc.ID,
		&sc.ProviderID,
		&sc.TargetDate,
		&sc.TimeSlot,
		&sc.MaxReservations,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %v", ErrScanRow, err)
	}

	sc.CreatedAt = createdAt.Time
	sc.UpdatedAt = updatedAt.Time

	return &sc, nil
}

// ListOverridesForDate получает все материализованные строки леджера на дату
func (r *Repository) ListOverridesForDate(ctx context.Context, providerID int64, targetDate time.Time) ([]*domain.SlotCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"target_date",
		"time_slot",
		"max_reservations",
		"created_at",
		"updated_at",
	).
		From("reservation_limits").
		Where(squirrel.Eq{
			"provider_id": providerID,
			"target_date": dateOnly(targetDate),
		}).
		OrderBy("time_slot ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.SlotCapacity, 0)
	for rows.Next() {
		var sc domain.SlotCapacity
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&sc.ID,
			&sc.ProviderID,
			&sc.TargetDate,
			&sc.TimeSlot,
			&sc.MaxReservations,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverridesForDate - scan row: %v", ErrScanRow, err)
		}

		sc.CreatedAt = createdAt.Time
		sc.UpdatedAt = updatedAt.Time
		overrides = append(overrides, &sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverridesForDate - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// Materialize создает строку леджера для слота с посевным значением seed,
// если её ещё нет. Посев фиксируется в момент первой записи: последующие
// изменения дефолта провайдера материализованную строку не меняют.
func (r *Repository) Materialize(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int, seed int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_limits").
		Columns("provider_id", "target_date", "time_slot", "max_reservations").
		Values(providerID, dateOnly(targetDate), timeSlot, seed).
		Suffix("ON CONFLICT (provider_id, target_date, time_slot) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Materialize - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Materialize - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DecrementIfPositive атомарно уменьшает remaining слота на 1, только если он положителен
// Возвращает false, если вместимость исчерпана - вызывающая транзакция должна откатиться
func (r *Repository) DecrementIfPositive(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservation_limits").
		Set("max_reservations", squirrel.Expr("max_reservations - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"target_date": dateOnly(targetDate),
			"time_slot":   timeSlot,
		}).
		Where(squirrel.Gt{"max_reservations": 0}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: DecrementIfPositive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: DecrementIfPositive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: DecrementIfPositive - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Increment увеличивает remaining слота на 1 (возврат вместимости при отмене)
// Верхняя граница намеренно не проверяется: потолок мог измениться с момента бронирования,
// а возврат вместимости должен быть возможен всегда
func (r *Repository) Increment(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservation_limits").
		Set("max_reservations", squirrel.Expr("max_reservations + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"target_date": dateOnly(targetDate),
			"time_slot":   timeSlot,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Increment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Increment - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Increment - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// SetValue выставляет remaining слота в конкретное значение
// Используется ручной корректировкой провайдера после вычисления clamp в сервисе
func (r *Repository) SetValue(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int, value int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservation_limits").
		Set("max_reservations", value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"target_date": dateOnly(targetDate),
			"time_slot":   timeSlot,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetValue - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetValue - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetValue - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// dateOnly обнуляет компонент времени - ключ леджера содержит только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
