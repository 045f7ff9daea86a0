package schedule

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

// Repository репозиторий расписания: рабочие часы и выходные дни провайдера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWorkingHours получает все записи рабочих часов провайдера
func (r *Repository) GetWorkingHours(ctx context.Context, providerID int64) ([]*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"day_of_week",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.WorkingHours, 0)
	for rows.Next() {
		wh, err := scanWorkingHours(rows)
		if err != nil {
			return nil, err
		}
		hours = append(hours, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// GetWorkingHoursForDay получает рабочие часы провайдера на конкретный день недели
// Отсутствие записи означает, что провайдер закрыт в этот день
func (r *Repository) GetWorkingHoursForDay(ctx context.Context, providerID int64, day time.Weekday) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"day_of_week",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("working_hours").
		Where(squirrel.Eq{"provider_id": providerID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHoursForDay - build select query: %v", ErrBuildQuery, err)
	}

	var wh domain.WorkingHours
	var dayOfWeek int
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&wh.ID,
		&wh.ProviderID,
		&dayOfWeek,
		&wh.StartTime,
		&wh.EndTime,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrWorkingHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHoursForDay - scan working hours: %v", ErrScanRow, err)
	}

	wh.DayOfWeek = time.Weekday(dayOfWeek)
	wh.CreatedAt = createdAt.Time
	wh.UpdatedAt = updatedAt.Time

	return &wh, nil
}

// UpsertWorkingHours создает или перезаписывает рабочие часы на день недели
// На пару (provider_id, day_of_week) существует не больше одной записи
func (r *Repository) UpsertWorkingHours(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("working_hours").
		Columns(
			"provider_id",
			"day_of_week",
			"start_time",
			"end_time",
		).
		Values(
			wh.ProviderID,
			int(wh.DayOfWeek),
			wh.StartTime,
			wh.EndTime,
		).
		Suffix(`ON CONFLICT (provider_id, day_of_week)
			DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&wh.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWorkingHours - execute insert: %v", ErrExecQuery, err)
	}

	wh.CreatedAt = createdAt.Time
	wh.UpdatedAt = updatedAt.Time

	return wh, nil
}

// DeleteWorkingHoursNotIn удаляет рабочие часы на дни недели, не входящие в days
// Используется при полной перезаписи расписания: отсутствие дня в запросе означает "закрыто"
func (r *Repository) DeleteWorkingHoursNotIn(ctx context.Context, providerID int64, days []time.Weekday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("working_hours").
		Where(squirrel.Eq{"provider_id": providerID})

	// Пустой список означает удаление всего расписания
	if len(days) > 0 {
		dayInts := make([]int, len(days))
		for i, d := range days {
			dayInts[i] = int(d)
		}
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"day_of_week": dayInts})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteWorkingHoursNotIn - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteWorkingHoursNotIn - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// GetHolidays получает все выходные дни провайдера
func (r *Repository) GetHolidays(ctx context.Context, providerID int64) ([]*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"day_of_week",
		"created_at",
	).
		From("holidays").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHolidays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]*domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		var dayOfWeek int
		var createdAt sql.NullTime

		if err := rows.Scan(&h.ID, &h.ProviderID, &dayOfWeek, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetHolidays - scan row: %v", ErrScanRow, err)
		}

		h.DayOfWeek = time.Weekday(dayOfWeek)
		h.CreatedAt = createdAt.Time
		holidays = append(holidays, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHolidays - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}

// HolidayExists проверяет, является ли день недели выходным у провайдера
func (r *Repository) HolidayExists(ctx context.Context, providerID int64, day time.Weekday) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("holidays").
		Where(squirrel.Eq{"provider_id": providerID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HolidayExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HolidayExists - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// CreateHoliday создает выходной день
// Повторное создание того же дня недели не является ошибкой
func (r *Repository) CreateHoliday(ctx context.Context, providerID int64, day time.Weekday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("provider_id", "day_of_week").
		Values(providerID, int(day)).
		Suffix("ON CONFLICT (provider_id, day_of_week) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateHoliday - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateHoliday - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteHolidaysNotIn удаляет выходные дни, не входящие в days
// Вместе с CreateHoliday реализует полную сверку набора выходных
func (r *Repository) DeleteHolidaysNotIn(ctx context.Context, providerID int64, days []time.Weekday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"provider_id": providerID})

	// Пустой список означает удаление всех выходных
	if len(days) > 0 {
		dayInts := make([]int, len(days))
		for i, d := range days {
			dayInts[i] = int(d)
		}
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"day_of_week": dayInts})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteHolidaysNotIn - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteHolidaysNotIn - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// scanWorkingHours сканирует одну строку рабочих часов
func scanWorkingHours(rows *sql.Rows) (*domain.WorkingHours, error) {
	var wh domain.WorkingHours
	var dayOfWeek int
	var createdAt, updatedAt sql.NullTime

	err := rows.Scan(
		&wh.ID,
		&wh.ProviderID,
		&dayOfWeek,
		&wh.StartTime,
		&wh.EndTime,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: scanWorkingHours - scan row: %v", ErrScanRow, err)
	}

	wh.DayOfWeek = time.Weekday(dayOfWeek)
	wh.CreatedAt = createdAt.Time
	wh.UpdatedAt = updatedAt.Time

	return &wh, nil
}
